package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/divetribe/divedirectory/internal/domain/entities"
	"github.com/divetribe/divedirectory/internal/domain/providers"
	"github.com/divetribe/divedirectory/internal/domain/repositories"
	"github.com/divetribe/divedirectory/internal/infrastructure/observability"
	apperrors "github.com/divetribe/divedirectory/pkg/errors"
	"github.com/divetribe/divedirectory/pkg/slug"
)

// DirectoryService orchestrates operator lifecycle, search and verification.
// The search index and event bus are optional; the service degrades to
// store-only operation when they are absent.
type DirectoryService struct {
	operators repositories.OperatorRepository
	users     repositories.UserRepository
	index     repositories.OperatorSearchIndex
	bus       providers.EventBus
}

// NewDirectoryService creates a new directory service
func NewDirectoryService(
	operators repositories.OperatorRepository,
	users repositories.UserRepository,
	index repositories.OperatorSearchIndex,
	bus providers.EventBus,
) *DirectoryService {
	return &DirectoryService{
		operators: operators,
		users:     users,
		index:     index,
		bus:       bus,
	}
}

// CreateOperatorInput carries caller-supplied fields for a new operator.
// Slug is optional; when absent it is derived from the name.
type CreateOperatorInput struct {
	Slug        string
	Name        string
	Description string
	Address     string
	Phone       string
	Email       string
	Website     string
	Location    *entities.Location
	LogoURL     string
	BannerURL   string
	Social      entities.SocialLinks
}

// UpdateOperatorInput carries partial updates; nil fields are left untouched.
// For optional fields a supplied blank value clears the field.
type UpdateOperatorInput struct {
	Slug        *string
	Name        *string
	Description *string
	Address     *string
	Phone       *string
	Email       *string
	Website     *string
	Location    *entities.Location
	LogoURL     *string
	BannerURL   *string
	Social      *entities.SocialLinks
	Active      *bool
}

// SearchOptions mirrors the store-level search params, except the owner is a
// username/email/id reference that gets resolved before the store is queried.
type SearchOptions struct {
	Query              string
	Position           *entities.Location
	RadiusKm           *float64
	OwnerRef           string
	VerificationStatus *entities.VerificationStatus
	ShowInactive       bool
	Skip               int
	Limit              int
}

// CreateOperator creates a new operator owned by ownerID. The slug is
// normalized if supplied, derived from the name otherwise.
func (s *DirectoryService) CreateOperator(ctx context.Context, input CreateOperatorInput, ownerID string) (*entities.Operator, error) {
	if input.Name == "" {
		return nil, apperrors.NewValidationError("operator name is required")
	}
	if input.Address == "" {
		return nil, apperrors.NewValidationError("operator address is required")
	}
	if ownerID == "" {
		return nil, apperrors.NewValidationError("operator owner is required")
	}

	operatorSlug := slug.Normalize(input.Slug)
	if operatorSlug == "" {
		operatorSlug = slug.Derive(input.Name)
	}
	if operatorSlug == "" {
		return nil, apperrors.NewValidationError("operator slug cannot be derived from name")
	}

	now := time.Now()
	operator := &entities.Operator{
		ID:                 uuid.NewString(),
		Slug:               operatorSlug,
		Name:               input.Name,
		Description:        entities.OptionalString(input.Description),
		Address:            input.Address,
		Phone:              entities.OptionalString(input.Phone),
		Email:              entities.OptionalString(input.Email),
		Website:            entities.OptionalString(input.Website),
		Location:           input.Location,
		LogoURL:            entities.OptionalString(input.LogoURL),
		BannerURL:          entities.OptionalString(input.BannerURL),
		Social:             input.Social,
		OwnerID:            ownerID,
		VerificationStatus: entities.VerificationUnverified,
		Active:             true,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := s.operators.Create(ctx, operator); err != nil {
		return nil, err
	}

	s.indexOperator(ctx, operator)
	s.publishEvent(ctx, entities.NewOperatorEvent(operator.ID, entities.OperatorEventTypeCreated, nil))

	return operator, nil
}

// SearchOperators resolves the owner reference, then runs the composed search.
// An unresolvable owner reference short-circuits to an empty result without
// touching the store.
func (s *DirectoryService) SearchOperators(ctx context.Context, opts SearchOptions) ([]*entities.Operator, int, error) {
	params := repositories.OperatorSearchParams{
		Query:              opts.Query,
		Position:           opts.Position,
		RadiusKm:           opts.RadiusKm,
		VerificationStatus: opts.VerificationStatus,
		ShowInactive:       opts.ShowInactive,
		Skip:               opts.Skip,
		Limit:              opts.Limit,
	}

	if opts.OwnerRef != "" {
		owner, err := s.resolveUser(ctx, opts.OwnerRef)
		if apperrors.IsNotFound(err) {
			return []*entities.Operator{}, 0, nil
		}
		if err != nil {
			return nil, 0, err
		}
		params.OwnerID = owner.ID
	}

	return s.operators.Search(ctx, params)
}

// GetOperatorByID retrieves a non-deleted operator by ID
func (s *DirectoryService) GetOperatorByID(ctx context.Context, id string) (*entities.Operator, error) {
	return s.operators.GetByID(ctx, id)
}

// GetOperatorBySlug retrieves a non-deleted operator by slug, case-insensitively
func (s *DirectoryService) GetOperatorBySlug(ctx context.Context, operatorSlug string) (*entities.Operator, error) {
	return s.operators.GetBySlug(ctx, operatorSlug)
}

// IsSlugInUse reports whether the normalized slug is already held by a
// non-deleted operator
func (s *DirectoryService) IsSlugInUse(ctx context.Context, operatorSlug string) (bool, error) {
	return s.operators.SlugInUse(ctx, operatorSlug, "")
}

// UpdateOperator applies a partial update to an operator
func (s *DirectoryService) UpdateOperator(ctx context.Context, id string, input UpdateOperatorInput) (*entities.Operator, error) {
	operator, err := s.operators.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Slug != nil {
		normalized := slug.Normalize(*input.Slug)
		if normalized == "" {
			return nil, apperrors.NewValidationError("operator slug cannot be empty")
		}
		operator.Slug = normalized
	}
	if input.Name != nil {
		if *input.Name == "" {
			return nil, apperrors.NewValidationError("operator name cannot be empty")
		}
		operator.Name = *input.Name
	}
	if input.Address != nil {
		if *input.Address == "" {
			return nil, apperrors.NewValidationError("operator address cannot be empty")
		}
		operator.Address = *input.Address
	}
	if input.Description != nil {
		operator.Description = entities.OptionalString(*input.Description)
	}
	if input.Phone != nil {
		operator.Phone = entities.OptionalString(*input.Phone)
	}
	if input.Email != nil {
		operator.Email = entities.OptionalString(*input.Email)
	}
	if input.Website != nil {
		operator.Website = entities.OptionalString(*input.Website)
	}
	if input.Location != nil {
		operator.Location = input.Location
	}
	if input.LogoURL != nil {
		operator.LogoURL = entities.OptionalString(*input.LogoURL)
	}
	if input.BannerURL != nil {
		operator.BannerURL = entities.OptionalString(*input.BannerURL)
	}
	if input.Social != nil {
		operator.Social = *input.Social
	}
	if input.Active != nil {
		operator.Active = *input.Active
	}

	if err := s.operators.Update(ctx, operator); err != nil {
		return nil, err
	}

	s.indexOperator(ctx, operator)
	s.publishEvent(ctx, entities.NewOperatorEvent(operator.ID, entities.OperatorEventTypeUpdated, nil))

	return operator, nil
}

// DeleteOperator soft-deletes an operator. Deleting a missing or already-
// deleted operator returns false, not an error.
func (s *DirectoryService) DeleteOperator(ctx context.Context, id string) (bool, error) {
	deleted, err := s.operators.Delete(ctx, id)
	if err != nil || !deleted {
		return deleted, err
	}

	if s.index != nil {
		if err := s.index.Delete(ctx, id); err != nil {
			observability.LoggerFromContext(ctx).Warn().Err(err).Str("operator_id", id).
				Msg("failed to remove operator from search index")
		}
	}
	s.publishEvent(ctx, entities.NewOperatorEvent(id, entities.OperatorEventTypeDeleted, nil))

	return true, nil
}

// TransferOwnership reassigns an operator to a new owner, who must resolve to
// an existing user
func (s *DirectoryService) TransferOwnership(ctx context.Context, id string, newOwnerRef string) (*entities.Operator, error) {
	operator, err := s.operators.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	newOwner, err := s.resolveUser(ctx, newOwnerRef)
	if err != nil {
		return nil, err
	}

	operator.TransferOwnership(newOwner.ID)
	if err := s.operators.Update(ctx, operator); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, entities.NewOperatorEvent(operator.ID, entities.OperatorEventTypeOwnershipTransferred, map[string]interface{}{
		"owner_id": newOwner.ID,
	}))

	return operator, nil
}

// RequestVerification moves an operator into the pending verification queue
func (s *DirectoryService) RequestVerification(ctx context.Context, id string) (*entities.Operator, error) {
	operator, err := s.operators.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	operator.RequestVerification()
	if err := s.operators.Update(ctx, operator); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, entities.NewOperatorEvent(operator.ID, entities.OperatorEventTypeVerificationRequested, nil))

	return operator, nil
}

// SetVerification records an admin verification decision. Authorization is
// enforced at the transport layer.
func (s *DirectoryService) SetVerification(ctx context.Context, id string, verified bool, message string) (*entities.Operator, error) {
	operator, err := s.operators.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := operator.SetVerification(verified, message); err != nil {
		return nil, err
	}
	if err := s.operators.Update(ctx, operator); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, entities.NewOperatorEvent(operator.ID, entities.OperatorEventTypeVerificationDecided, map[string]interface{}{
		"verification_status": string(operator.VerificationStatus),
	}))

	return operator, nil
}

// Suggest returns typeahead suggestions from the secondary index. Without an
// index there are no suggestions.
func (s *DirectoryService) Suggest(ctx context.Context, query string, limit int) ([]*entities.Operator, error) {
	if s.index == nil || query == "" {
		return []*entities.Operator{}, nil
	}
	if limit <= 0 {
		limit = 10
	}
	return s.index.Suggest(ctx, query, limit)
}

// resolveUser resolves a user reference: a username or email first, falling
// back to a direct id lookup
func (s *DirectoryService) resolveUser(ctx context.Context, ref string) (*entities.User, error) {
	user, err := s.users.GetByUsernameOrEmail(ctx, ref)
	if apperrors.IsNotFound(err) {
		return s.users.GetByID(ctx, ref)
	}
	return user, err
}

// indexOperator upserts into the secondary index, best effort
func (s *DirectoryService) indexOperator(ctx context.Context, operator *entities.Operator) {
	if s.index == nil {
		return
	}
	if err := s.index.Index(ctx, operator); err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Str("operator_id", operator.ID).
			Msg("failed to index operator")
	}
}

// publishEvent publishes to the shared updates channel and the operator's own
// channel, best effort
func (s *DirectoryService) publishEvent(ctx context.Context, event *entities.OperatorEvent) {
	if s.bus == nil {
		return
	}
	channels := []string{
		providers.EventChannelOperatorUpdates,
		providers.GetOperatorChannel(event.OperatorID),
	}
	for _, channel := range channels {
		if err := s.bus.Publish(ctx, channel, event); err != nil {
			observability.LoggerFromContext(ctx).Warn().Err(err).
				Str("channel", channel).Str("event_id", event.ID).
				Msg("failed to publish operator event")
		}
	}
}
