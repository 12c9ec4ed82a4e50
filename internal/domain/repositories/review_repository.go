package repositories

import (
	"context"

	"github.com/divetribe/divedirectory/internal/domain/entities"
)

// ReviewSortField selects the review sort key
type ReviewSortField string

const (
	ReviewSortRating ReviewSortField = "rating"
	ReviewSortAge    ReviewSortField = "age"
)

// SortOrder is the sort direction
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// ReviewRepository defines the interface for review data operations
type ReviewRepository interface {
	// Create persists a new review
	Create(ctx context.Context, review *entities.Review) error

	// GetByID retrieves a review by ID
	GetByID(ctx context.Context, id string) (*entities.Review, error)

	// Update persists rating/comment changes
	Update(ctx context.Context, review *entities.Review) error

	// Delete removes a review. Returns whether exactly one row was affected.
	Delete(ctx context.Context, id string) (bool, error)

	// List runs a filtered, sorted, paginated query scoped to one operator
	// and returns the page plus the total count ignoring pagination.
	List(ctx context.Context, params ReviewListParams) ([]*entities.Review, int, error)

	// Stats returns the derived review count and average rating for an operator
	Stats(ctx context.Context, operatorID string) (*entities.ReviewStats, error)
}

// ReviewListParams defines filters for listing an operator's reviews.
// OperatorID is required; there is no cross-operator listing.
type ReviewListParams struct {
	OperatorID string

	AuthorID string
	Query    string

	// SortBy defaults to rating, SortOrder to descending. Rating sorts place
	// null ratings last regardless of direction.
	SortBy    ReviewSortField
	SortOrder SortOrder

	Skip  int
	Limit int
}
