package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/doug-martin/goqu/v9"

	"github.com/divetribe/divedirectory/internal/domain/entities"
	"github.com/divetribe/divedirectory/internal/domain/repositories"
	"github.com/divetribe/divedirectory/internal/infrastructure/clients/postgres"
	apperrors "github.com/divetribe/divedirectory/pkg/errors"
)

// ReviewAdapter implements ReviewRepository in Postgres
type ReviewAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewReviewAdapter creates a new review adapter
func NewReviewAdapter(client *postgres.Client) *ReviewAdapter {
	return &ReviewAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

var _ repositories.ReviewRepository = (*ReviewAdapter)(nil)

// Create persists a new review
func (a *ReviewAdapter) Create(ctx context.Context, review *entities.Review) error {
	query, args, err := a.db.Insert("operator_reviews").Rows(goqu.Record{
		"id":          review.ID,
		"operator_id": review.OperatorID,
		"author_id":   review.AuthorID,
		"rating":      review.Rating,
		"comments":    review.Comments,
		"created_at":  review.CreatedAt,
		"updated_at":  review.UpdatedAt,
	}).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build review insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to create review", err)
	}

	return nil
}

// GetByID retrieves a review by ID
func (a *ReviewAdapter) GetByID(ctx context.Context, id string) (*entities.Review, error) {
	query, args, err := a.db.From("operator_reviews").
		Select(reviewColumns...).
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build review query", err)
	}

	review, err := scanReview(a.client.DB().QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("review with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get review", err)
	}

	return review, nil
}

// Update persists rating and comment changes. Operator and author references
// never change after creation.
func (a *ReviewAdapter) Update(ctx context.Context, review *entities.Review) error {
	query, args, err := a.db.Update("operator_reviews").
		Set(goqu.Record{
			"rating":     review.Rating,
			"comments":   review.Comments,
			"updated_at": goqu.L("now()"),
		}).
		Where(goqu.Ex{"id": review.ID}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build review update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update review", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("review with id %s not found", review.ID))
	}

	return nil
}

// Delete removes a review. Deleting a missing review returns false, not an error.
func (a *ReviewAdapter) Delete(ctx context.Context, id string) (bool, error) {
	query, args, err := a.db.Delete("operator_reviews").
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return false, apperrors.NewInternalError("failed to build review delete query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return false, apperrors.NewInternalError("failed to delete review", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, apperrors.NewInternalError("failed to get rows affected", err)
	}

	return rowsAffected == 1, nil
}

// List runs the composed review query and its count against Postgres
func (a *ReviewAdapter) List(ctx context.Context, params repositories.ReviewListParams) ([]*entities.Review, int, error) {
	rowsDS, countDS := composeReviewList(a.db, params)

	countSQL, countArgs, err := countDS.ToSQL()
	if err != nil {
		return nil, 0, apperrors.NewInternalError("failed to build review count query", err)
	}

	var totalCount int
	if err := a.client.DB().QueryRowContext(ctx, countSQL, countArgs...).Scan(&totalCount); err != nil {
		return nil, 0, apperrors.NewInternalError("failed to count reviews", err)
	}

	query, args, err := rowsDS.ToSQL()
	if err != nil {
		return nil, 0, apperrors.NewInternalError("failed to build review list query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, apperrors.NewInternalError("failed to list reviews", err)
	}
	defer rows.Close()

	reviews := []*entities.Review{}
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			return nil, 0, apperrors.NewInternalError("failed to scan review", err)
		}
		reviews = append(reviews, review)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, apperrors.NewInternalError("error iterating reviews", err)
	}

	return reviews, totalCount, nil
}

// Stats returns the derived review count and average rating for an operator.
// Unrated reviews count toward the total but not the average.
func (a *ReviewAdapter) Stats(ctx context.Context, operatorID string) (*entities.ReviewStats, error) {
	query, args, err := a.db.From("operator_reviews").
		Select(
			goqu.COUNT("*"),
			goqu.L("coalesce(avg(rating), 0)"),
		).
		Where(goqu.Ex{"operator_id": operatorID}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build review stats query", err)
	}

	stats := &entities.ReviewStats{OperatorID: operatorID}
	err = a.client.DB().QueryRowContext(ctx, query, args...).
		Scan(&stats.ReviewCount, &stats.AverageRating)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get review stats", err)
	}

	return stats, nil
}

func scanReview(row rowScanner) (*entities.Review, error) {
	review := &entities.Review{}
	var (
		rating   sql.NullInt64
		comments sql.NullString
	)

	err := row.Scan(
		&review.ID,
		&review.OperatorID,
		&review.AuthorID,
		&rating,
		&comments,
		&review.CreatedAt,
		&review.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if rating.Valid {
		value := int(rating.Int64)
		review.Rating = &value
	}
	review.Comments = nullToPtr(comments)

	return review, nil
}
