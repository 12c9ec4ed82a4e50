package repositories

import (
	"context"

	"github.com/divetribe/divedirectory/internal/domain/entities"
)

// UserRepository resolves user references for ownership and authorship.
// Account management itself lives outside the directory.
type UserRepository interface {
	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id string) (*entities.User, error)

	// GetByUsernameOrEmail resolves a username or email to a user
	GetByUsernameOrEmail(ctx context.Context, ref string) (*entities.User, error)
}
