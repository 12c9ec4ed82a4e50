package entities

import "time"

// Role is the caller's privilege level, established by the outer auth layer
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User is the minimal account projection the directory needs: identity for
// ownership and authorship, username/email for owner-filter resolution.
type User struct {
	ID        string    `json:"id" db:"id"`
	Username  string    `json:"username" db:"username"`
	Email     string    `json:"email" db:"email"`
	Role      Role      `json:"role" db:"role"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// IsAdmin reports whether the user holds administrator privilege
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
