package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/divetribe/divedirectory/internal/application/services"
	"github.com/divetribe/divedirectory/internal/domain/entities"
	"github.com/divetribe/divedirectory/internal/domain/repositories"
	apperrors "github.com/divetribe/divedirectory/pkg/errors"
)

func newReviewService(t *testing.T) (*services.ReviewService, *mockReviewRepository, *mockOperatorRepository) {
	t.Helper()
	reviews := &mockReviewRepository{}
	operators := &mockOperatorRepository{}
	return services.NewReviewService(reviews, operators), reviews, operators
}

func TestCreateReview_Success(t *testing.T) {
	service, reviews, operators := newReviewService(t)

	operators.On("GetByID", mock.Anything, "op-1").
		Return(&entities.Operator{ID: "op-1"}, nil)
	reviews.On("Create", mock.Anything, mock.MatchedBy(func(r *entities.Review) bool {
		return r.OperatorID == "op-1" && r.AuthorID == "user-2" && r.Rating != nil && *r.Rating == 4
	})).Return(nil)

	review, err := service.CreateReview(context.Background(), services.CreateReviewInput{
		OperatorID: "op-1",
		AuthorID:   "user-2",
		Rating:     4,
		Comments:   "great guides",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, review.ID)
	require.NotNil(t, review.Comments)
	assert.Equal(t, "great guides", *review.Comments)
}

func TestCreateReview_RatingOutOfRange(t *testing.T) {
	service, reviews, _ := newReviewService(t)

	for _, rating := range []int{0, 6, -1} {
		_, err := service.CreateReview(context.Background(), services.CreateReviewInput{
			OperatorID: "op-1",
			AuthorID:   "user-2",
			Rating:     rating,
		})
		require.Error(t, err, "rating %d", rating)
		assert.True(t, apperrors.IsValidation(err))
	}

	reviews.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateReview_MissingOperator(t *testing.T) {
	service, reviews, operators := newReviewService(t)

	operators.On("GetByID", mock.Anything, "missing").
		Return(nil, apperrors.NewNotFoundError("operator with id missing not found"))

	_, err := service.CreateReview(context.Background(), services.CreateReviewInput{
		OperatorID: "missing",
		AuthorID:   "user-2",
		Rating:     3,
	})

	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
	reviews.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUpdateReview_ClearsCommentsOnBlank(t *testing.T) {
	service, reviews, _ := newReviewService(t)

	comments := "old text"
	rating := 3
	reviews.On("GetByID", mock.Anything, "rev-1").
		Return(&entities.Review{ID: "rev-1", Rating: &rating, Comments: &comments}, nil)
	reviews.On("Update", mock.Anything, mock.Anything).Return(nil)

	blank := ""
	review, err := service.UpdateReview(context.Background(), "rev-1", nil, &blank)

	require.NoError(t, err)
	assert.Nil(t, review.Comments)
	require.NotNil(t, review.Rating)
	assert.Equal(t, 3, *review.Rating)
}

func TestDeleteReview_Idempotent(t *testing.T) {
	service, reviews, _ := newReviewService(t)

	reviews.On("Delete", mock.Anything, "missing").Return(false, nil)

	deleted, err := service.DeleteReview(context.Background(), "missing")

	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestListReviews_RequiresOperatorScope(t *testing.T) {
	service, reviews, _ := newReviewService(t)

	_, _, err := service.ListReviews(context.Background(), repositories.ReviewListParams{})

	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	reviews.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

func TestCanModifyReview(t *testing.T) {
	review := &entities.Review{ID: "rev-1", AuthorID: "user-2"}

	assert.False(t, services.CanModifyReview(review, services.Caller{}))
	assert.False(t, services.CanModifyReview(review, services.Caller{ID: "user-3", Authenticated: true}))
	assert.True(t, services.CanModifyReview(review, services.Caller{ID: "user-2", Authenticated: true}))
	assert.True(t, services.CanModifyReview(review, services.Caller{ID: "user-9", Role: entities.RoleAdmin, Authenticated: true}))
}
