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

var userColumns = []interface{}{"id", "username", "email", "role", "created_at"}

// UserAdapter implements UserRepository in Postgres
type UserAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewUserAdapter creates a new user adapter
func NewUserAdapter(client *postgres.Client) *UserAdapter {
	return &UserAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

var _ repositories.UserRepository = (*UserAdapter)(nil)

// GetByID retrieves a user by ID
func (a *UserAdapter) GetByID(ctx context.Context, id string) (*entities.User, error) {
	return a.getOne(ctx, goqu.Ex{"id": id}, fmt.Sprintf("user with id %s not found", id))
}

// GetByUsernameOrEmail resolves a username or email to a user
func (a *UserAdapter) GetByUsernameOrEmail(ctx context.Context, ref string) (*entities.User, error) {
	return a.getOne(ctx,
		goqu.Or(goqu.Ex{"username": ref}, goqu.Ex{"email": ref}),
		fmt.Sprintf("user %q not found", ref),
	)
}

func (a *UserAdapter) getOne(ctx context.Context, where goqu.Expression, notFoundMsg string) (*entities.User, error) {
	query, args, err := a.db.From("users").
		Select(userColumns...).
		Where(where).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build user query", err)
	}

	user := &entities.User{}
	var role string
	err = a.client.DB().QueryRowContext(ctx, query, args...).
		Scan(&user.ID, &user.Username, &user.Email, &role, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError(notFoundMsg)
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get user", err)
	}
	user.Role = entities.Role(role)

	return user, nil
}
