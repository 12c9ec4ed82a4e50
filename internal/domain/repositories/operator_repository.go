package repositories

import (
	"context"

	"github.com/divetribe/divedirectory/internal/domain/entities"
)

// OperatorRepository defines the interface for operator data operations
type OperatorRepository interface {
	// Create persists a new operator, enforcing slug uniqueness
	Create(ctx context.Context, operator *entities.Operator) error

	// GetByID retrieves a non-deleted operator by ID
	GetByID(ctx context.Context, id string) (*entities.Operator, error)

	// GetBySlug retrieves a non-deleted operator by its canonical slug.
	// Lookup is case-insensitive; inactive operators are still returned.
	GetBySlug(ctx context.Context, slug string) (*entities.Operator, error)

	// Update persists all mutable fields, enforcing slug uniqueness
	Update(ctx context.Context, operator *entities.Operator) error

	// Delete soft-deletes an operator. Returns whether exactly one row was
	// affected; deleting a missing or already-deleted operator is not an error.
	Delete(ctx context.Context, id string) (bool, error)

	// Search runs a filtered, sorted, paginated query and returns the page of
	// operators plus the total count of matches ignoring pagination.
	Search(ctx context.Context, params OperatorSearchParams) ([]*entities.Operator, int, error)

	// SlugInUse reports whether any non-deleted operator other than excludeID
	// already holds the slug. Pass an empty excludeID to check all operators.
	SlugInUse(ctx context.Context, slug string, excludeID string) (bool, error)
}

// OperatorSearchIndex defines the secondary text index (e.g. Typesense).
// The relational store stays authoritative; the index only serves suggestions.
type OperatorSearchIndex interface {
	// Index upserts an operator document
	Index(ctx context.Context, operator *entities.Operator) error

	// Delete removes an operator from the index
	Delete(ctx context.Context, id string) error

	// Suggest returns name-prefix matches for typeahead
	Suggest(ctx context.Context, query string, limit int) ([]*entities.Operator, error)
}

// OperatorSearchParams defines filters for operator search. Zero values mean
// "no filter" except ShowInactive, whose false default restricts results to
// active operators.
type OperatorSearchParams struct {
	// Query is a natural-language filter over name, description and address
	Query string

	// Position and RadiusKm form the geo filter; it applies only when both
	// are set, and is skipped entirely when either is missing
	Position *entities.Location
	RadiusKm *float64

	OwnerID            string
	VerificationStatus *entities.VerificationStatus
	ShowInactive       bool

	Skip  int
	Limit int
}

// HasGeoFilter reports whether both halves of the geo filter are present
func (p OperatorSearchParams) HasGeoFilter() bool {
	return p.Position != nil && p.RadiusKm != nil
}
