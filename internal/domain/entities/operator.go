package entities

import (
	"strings"
	"time"

	apperrors "github.com/divetribe/divedirectory/pkg/errors"
)

// VerificationStatus is the operator's trust state as judged by an administrator
type VerificationStatus string

const (
	VerificationUnverified VerificationStatus = "unverified"
	VerificationPending    VerificationStatus = "pending"
	VerificationVerified   VerificationStatus = "verified"
	VerificationRejected   VerificationStatus = "rejected"
)

// MaxVerificationMessageLength caps the admin-supplied verification note
const MaxVerificationMessageLength = 1000

// Operator represents a dive operator listed in the directory
type Operator struct {
	ID   string `json:"id" db:"id"`
	Slug string `json:"slug" db:"slug"`
	Name string `json:"name" db:"name"`

	Description *string     `json:"description,omitempty" db:"description"`
	Address     string      `json:"address" db:"address"`
	Phone       *string     `json:"phone,omitempty" db:"phone"`
	Email       *string     `json:"email,omitempty" db:"email"`
	Website     *string     `json:"website,omitempty" db:"website"`
	Location    *Location   `json:"location,omitempty" db:"-"`
	LogoURL     *string     `json:"logo_url,omitempty" db:"logo_url"`
	BannerURL   *string     `json:"banner_url,omitempty" db:"banner_url"`
	Social      SocialLinks `json:"social" db:"-"`

	OwnerID string `json:"owner_id" db:"owner_id"`

	VerificationStatus VerificationStatus `json:"verification_status" db:"verification_status"`
	// VerificationMessage is visible only to the owner and admins; redaction
	// happens in the visibility policy, never at the storage layer.
	VerificationMessage *string `json:"verification_message,omitempty" db:"verification_message"`

	Active bool `json:"active" db:"active"`

	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt *time.Time `json:"-" db:"deleted_at"`
}

// Location represents geographical coordinates
type Location struct {
	Latitude  float64 `json:"latitude" db:"latitude"`
	Longitude float64 `json:"longitude" db:"longitude"`
}

// SocialLinks holds the operator's optional social media handles
type SocialLinks struct {
	Facebook  *string `json:"facebook,omitempty" db:"social_facebook"`
	Instagram *string `json:"instagram,omitempty" db:"social_instagram"`
	Twitter   *string `json:"twitter,omitempty" db:"social_twitter"`
	TikTok    *string `json:"tiktok,omitempty" db:"social_tiktok"`
	YouTube   *string `json:"youtube,omitempty" db:"social_youtube"`
}

// RequestVerification moves the operator into the pending queue. Legal from
// any state; verified and rejected operators may re-enter pending.
func (o *Operator) RequestVerification() {
	o.VerificationStatus = VerificationPending
}

// SetVerification records an admin decision. The message replaces any previous
// one, or clears it when empty. Authorization is the caller's concern.
func (o *Operator) SetVerification(verified bool, message string) error {
	if len(message) > MaxVerificationMessageLength {
		return apperrors.NewValidationError("verification message exceeds 1000 characters")
	}

	if verified {
		o.VerificationStatus = VerificationVerified
	} else {
		o.VerificationStatus = VerificationRejected
	}
	o.VerificationMessage = OptionalString(message)
	return nil
}

// TransferOwnership reassigns the operator to a new owner. Verification state
// and slug are untouched.
func (o *Operator) TransferOwnership(newOwnerID string) {
	o.OwnerID = newOwnerID
}

// IsDeleted reports whether the operator has been soft-deleted
func (o *Operator) IsDeleted() bool {
	return o.DeletedAt != nil
}

// IsOwnedBy reports whether userID owns this operator
func (o *Operator) IsOwnedBy(userID string) bool {
	return userID != "" && o.OwnerID == userID
}

// OptionalString normalizes an optional field value: blank input means unset,
// never an empty string, so serialized output is unambiguous.
func OptionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
