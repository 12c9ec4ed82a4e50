package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/lib/pq"

	"github.com/divetribe/divedirectory/internal/domain/entities"
	"github.com/divetribe/divedirectory/internal/domain/repositories"
	"github.com/divetribe/divedirectory/internal/infrastructure/clients/postgres"
	apperrors "github.com/divetribe/divedirectory/pkg/errors"
	"github.com/divetribe/divedirectory/pkg/slug"
)

// pgUniqueViolation is the Postgres error code raised by the partial unique
// index on lower(slug). That index is the real uniqueness invariant; the
// SlugInUse pre-check only buys a friendlier error before the write.
const pgUniqueViolation = "23505"

// OperatorAdapter implements OperatorRepository in Postgres
type OperatorAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewOperatorAdapter creates a new operator adapter
func NewOperatorAdapter(client *postgres.Client) *OperatorAdapter {
	return &OperatorAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

var _ repositories.OperatorRepository = (*OperatorAdapter)(nil)

// Create persists a new operator
func (a *OperatorAdapter) Create(ctx context.Context, operator *entities.Operator) error {
	inUse, err := a.SlugInUse(ctx, operator.Slug, operator.ID)
	if err != nil {
		return err
	}
	if inUse {
		return slugConflict(operator.Slug)
	}

	record := operatorRecord(operator)
	record["id"] = operator.ID
	record["owner_id"] = operator.OwnerID
	record["created_at"] = operator.CreatedAt

	query, args, err := a.db.Insert("operators").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build operator insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		// Two writers can both pass the pre-check; the index settles it
		if isUniqueViolation(err) {
			return slugConflict(operator.Slug)
		}
		return apperrors.NewInternalError("failed to create operator", err)
	}

	return nil
}

// GetByID retrieves a non-deleted operator by ID
func (a *OperatorAdapter) GetByID(ctx context.Context, id string) (*entities.Operator, error) {
	query, args, err := a.db.From("operators").
		Select(operatorColumns...).
		Where(goqu.Ex{"id": id}).
		Where(goqu.I("deleted_at").IsNull()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build operator query", err)
	}

	operator, err := scanOperator(a.client.DB().QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("operator with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get operator", err)
	}

	return operator, nil
}

// GetBySlug retrieves a non-deleted operator by slug, case-insensitively.
// Inactive operators are still retrievable here.
func (a *OperatorAdapter) GetBySlug(ctx context.Context, s string) (*entities.Operator, error) {
	normalized := slug.Normalize(s)

	query, args, err := a.db.From("operators").
		Select(operatorColumns...).
		Where(goqu.L("lower(slug) = ?", normalized)).
		Where(goqu.I("deleted_at").IsNull()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build operator query", err)
	}

	operator, err := scanOperator(a.client.DB().QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("operator %q not found", normalized))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get operator", err)
	}

	return operator, nil
}

// Update persists all mutable fields of an operator
func (a *OperatorAdapter) Update(ctx context.Context, operator *entities.Operator) error {
	inUse, err := a.SlugInUse(ctx, operator.Slug, operator.ID)
	if err != nil {
		return err
	}
	if inUse {
		return slugConflict(operator.Slug)
	}

	query, args, err := a.db.Update("operators").
		Set(operatorRecord(operator)).
		Where(goqu.Ex{"id": operator.ID}).
		Where(goqu.I("deleted_at").IsNull()).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build operator update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return slugConflict(operator.Slug)
		}
		return apperrors.NewInternalError("failed to update operator", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("operator with id %s not found", operator.ID))
	}

	return nil
}

// Delete soft-deletes an operator. Deleting a missing or already-deleted
// operator returns false, not an error.
func (a *OperatorAdapter) Delete(ctx context.Context, id string) (bool, error) {
	query, args, err := a.db.Update("operators").
		Set(goqu.Record{
			"deleted_at": goqu.L("now()"),
			"updated_at": goqu.L("now()"),
		}).
		Where(goqu.Ex{"id": id}).
		Where(goqu.I("deleted_at").IsNull()).
		ToSQL()
	if err != nil {
		return false, apperrors.NewInternalError("failed to build operator delete query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return false, apperrors.NewInternalError("failed to delete operator", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, apperrors.NewInternalError("failed to get rows affected", err)
	}

	return rowsAffected == 1, nil
}

// Search runs the composed search query and its count against Postgres
func (a *OperatorAdapter) Search(ctx context.Context, params repositories.OperatorSearchParams) ([]*entities.Operator, int, error) {
	rowsDS, countDS := composeOperatorSearch(a.db, params)

	countSQL, countArgs, err := countDS.ToSQL()
	if err != nil {
		return nil, 0, apperrors.NewInternalError("failed to build operator count query", err)
	}

	var totalCount int
	if err := a.client.DB().QueryRowContext(ctx, countSQL, countArgs...).Scan(&totalCount); err != nil {
		return nil, 0, apperrors.NewInternalError("failed to count operators", err)
	}

	query, args, err := rowsDS.ToSQL()
	if err != nil {
		return nil, 0, apperrors.NewInternalError("failed to build operator search query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, apperrors.NewInternalError("failed to search operators", err)
	}
	defer rows.Close()

	operators := []*entities.Operator{}
	for rows.Next() {
		operator, err := scanOperator(rows)
		if err != nil {
			return nil, 0, apperrors.NewInternalError("failed to scan operator", err)
		}
		operators = append(operators, operator)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, apperrors.NewInternalError("error iterating operators", err)
	}

	return operators, totalCount, nil
}

// SlugInUse reports whether a non-deleted operator other than excludeID
// already holds the slug
func (a *OperatorAdapter) SlugInUse(ctx context.Context, s string, excludeID string) (bool, error) {
	ds := a.db.From("operators").
		Select(goqu.COUNT("*")).
		Where(goqu.L("lower(slug) = ?", slug.Normalize(s))).
		Where(goqu.I("deleted_at").IsNull())

	if excludeID != "" {
		ds = ds.Where(goqu.I("id").Neq(excludeID))
	}

	query, args, err := ds.ToSQL()
	if err != nil {
		return false, apperrors.NewInternalError("failed to build slug check query", err)
	}

	var count int
	if err := a.client.DB().QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return false, apperrors.NewInternalError("failed to check slug", err)
	}

	return count > 0, nil
}

// operatorRecord builds the column set shared by insert and update.
// Identity and created_at are added by Create; updated_at always advances.
func operatorRecord(operator *entities.Operator) goqu.Record {
	var location interface{}
	if operator.Location != nil {
		location = goqu.L(
			"ST_SetSRID(ST_MakePoint(?, ?), 4326)::geography",
			operator.Location.Longitude, operator.Location.Latitude,
		)
	}

	return goqu.Record{
		"slug":                 operator.Slug,
		"name":                 operator.Name,
		"description":          operator.Description,
		"address":              operator.Address,
		"phone":                operator.Phone,
		"email":                operator.Email,
		"website":              operator.Website,
		"location":             location,
		"logo_url":             operator.LogoURL,
		"banner_url":           operator.BannerURL,
		"social_facebook":      operator.Social.Facebook,
		"social_instagram":     operator.Social.Instagram,
		"social_twitter":       operator.Social.Twitter,
		"social_tiktok":        operator.Social.TikTok,
		"social_youtube":       operator.Social.YouTube,
		"owner_id":             operator.OwnerID,
		"verification_status":  string(operator.VerificationStatus),
		"verification_message": operator.VerificationMessage,
		"active":               operator.Active,
		"updated_at":           goqu.L("now()"),
	}
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanOperator(row rowScanner) (*entities.Operator, error) {
	operator := &entities.Operator{}
	var (
		description, phone, email, website      sql.NullString
		logoURL, bannerURL, verificationMessage sql.NullString
		facebook, instagram, twitter            sql.NullString
		tiktok, youtube                         sql.NullString
		latitude, longitude                     sql.NullFloat64
		status                                  string
	)

	err := row.Scan(
		&operator.ID,
		&operator.Slug,
		&operator.Name,
		&description,
		&operator.Address,
		&phone,
		&email,
		&website,
		&latitude,
		&longitude,
		&logoURL,
		&bannerURL,
		&facebook,
		&instagram,
		&twitter,
		&tiktok,
		&youtube,
		&operator.OwnerID,
		&status,
		&verificationMessage,
		&operator.Active,
		&operator.CreatedAt,
		&operator.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	operator.Description = nullToPtr(description)
	operator.Phone = nullToPtr(phone)
	operator.Email = nullToPtr(email)
	operator.Website = nullToPtr(website)
	operator.LogoURL = nullToPtr(logoURL)
	operator.BannerURL = nullToPtr(bannerURL)
	operator.Social = entities.SocialLinks{
		Facebook:  nullToPtr(facebook),
		Instagram: nullToPtr(instagram),
		Twitter:   nullToPtr(twitter),
		TikTok:    nullToPtr(tiktok),
		YouTube:   nullToPtr(youtube),
	}
	operator.VerificationStatus = entities.VerificationStatus(status)
	operator.VerificationMessage = nullToPtr(verificationMessage)

	if latitude.Valid && longitude.Valid {
		operator.Location = &entities.Location{
			Latitude:  latitude.Float64,
			Longitude: longitude.Float64,
		}
	}

	return operator, nil
}

func nullToPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}

func slugConflict(s string) error {
	return apperrors.NewConflictError(fmt.Sprintf("slug %q is already in use", s))
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pgUniqueViolation
}
