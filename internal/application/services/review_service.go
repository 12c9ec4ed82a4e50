package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/divetribe/divedirectory/internal/domain/entities"
	"github.com/divetribe/divedirectory/internal/domain/repositories"
	apperrors "github.com/divetribe/divedirectory/pkg/errors"
)

const (
	minRating = 1
	maxRating = 5
)

// ReviewService handles review lifecycle and listing for operators
type ReviewService struct {
	reviews   repositories.ReviewRepository
	operators repositories.OperatorRepository
}

// NewReviewService creates a new review service
func NewReviewService(reviews repositories.ReviewRepository, operators repositories.OperatorRepository) *ReviewService {
	return &ReviewService{
		reviews:   reviews,
		operators: operators,
	}
}

// CreateReviewInput carries caller-supplied fields for a new review
type CreateReviewInput struct {
	OperatorID string
	AuthorID   string
	Rating     int
	Comments   string
}

// CreateReview creates a review for an existing operator. Rating is required
// at creation time even though historical rows may lack one.
func (s *ReviewService) CreateReview(ctx context.Context, input CreateReviewInput) (*entities.Review, error) {
	if input.AuthorID == "" {
		return nil, apperrors.NewValidationError("review author is required")
	}
	if input.Rating < minRating || input.Rating > maxRating {
		return nil, apperrors.NewValidationError("rating must be between 1 and 5")
	}

	// Reviews only attach to live operators
	if _, err := s.operators.GetByID(ctx, input.OperatorID); err != nil {
		return nil, err
	}

	now := time.Now()
	rating := input.Rating
	review := &entities.Review{
		ID:         uuid.NewString(),
		OperatorID: input.OperatorID,
		AuthorID:   input.AuthorID,
		Rating:     &rating,
		Comments:   entities.OptionalString(input.Comments),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, err
	}

	return review, nil
}

// GetReview retrieves a review by ID
func (s *ReviewService) GetReview(ctx context.Context, id string) (*entities.Review, error) {
	return s.reviews.GetByID(ctx, id)
}

// UpdateReview applies rating/comment changes. Nil fields are left untouched;
// a supplied blank comment clears it.
func (s *ReviewService) UpdateReview(ctx context.Context, id string, rating *int, comments *string) (*entities.Review, error) {
	review, err := s.reviews.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if rating != nil {
		if *rating < minRating || *rating > maxRating {
			return nil, apperrors.NewValidationError("rating must be between 1 and 5")
		}
		value := *rating
		review.Rating = &value
	}
	if comments != nil {
		review.Comments = entities.OptionalString(*comments)
	}
	review.UpdatedAt = time.Now()

	if err := s.reviews.Update(ctx, review); err != nil {
		return nil, err
	}

	return review, nil
}

// DeleteReview removes a review. Deleting a missing review returns false,
// not an error.
func (s *ReviewService) DeleteReview(ctx context.Context, id string) (bool, error) {
	return s.reviews.Delete(ctx, id)
}

// ListReviews runs a filtered, sorted, paginated listing scoped to one operator
func (s *ReviewService) ListReviews(ctx context.Context, params repositories.ReviewListParams) ([]*entities.Review, int, error) {
	if params.OperatorID == "" {
		return nil, 0, apperrors.NewValidationError("operator id is required")
	}
	return s.reviews.List(ctx, params)
}

// OperatorStats returns the derived review count and average rating
func (s *ReviewService) OperatorStats(ctx context.Context, operatorID string) (*entities.ReviewStats, error) {
	return s.reviews.Stats(ctx, operatorID)
}

// CanModifyReview reports whether the caller may edit or delete the review:
// its author and admins only
func CanModifyReview(review *entities.Review, caller Caller) bool {
	if !caller.Authenticated {
		return false
	}
	return caller.IsAdmin() || review.AuthorID == caller.ID
}
