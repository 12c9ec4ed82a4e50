package services_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/divetribe/divedirectory/internal/application/services"
	"github.com/divetribe/divedirectory/internal/domain/entities"
	"github.com/divetribe/divedirectory/internal/domain/repositories"
	apperrors "github.com/divetribe/divedirectory/pkg/errors"
)

func newDirectoryService(t *testing.T) (*services.DirectoryService, *mockOperatorRepository, *mockUserRepository, *mockSearchIndex, *mockEventBus) {
	t.Helper()
	operators := &mockOperatorRepository{}
	users := &mockUserRepository{}
	index := &mockSearchIndex{}
	bus := &mockEventBus{}
	service := services.NewDirectoryService(operators, users, index, bus)
	return service, operators, users, index, bus
}

func TestCreateOperator_NormalizesSuppliedSlug(t *testing.T) {
	service, operators, _, index, bus := newDirectoryService(t)

	operators.On("Create", mock.Anything, mock.MatchedBy(func(op *entities.Operator) bool {
		return op.Slug == "blue-reef"
	})).Return(nil)
	index.On("Index", mock.Anything, mock.Anything).Return(nil)
	bus.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	operator, err := service.CreateOperator(context.Background(), services.CreateOperatorInput{
		Slug:    "  Blue-REEF ",
		Name:    "Blue Reef Divers",
		Address: "12 Harbour Rd",
	}, "user-1")

	require.NoError(t, err)
	assert.Equal(t, "blue-reef", operator.Slug)
	assert.Equal(t, entities.VerificationUnverified, operator.VerificationStatus)
	assert.True(t, operator.Active)
	assert.NotEmpty(t, operator.ID)
	operators.AssertExpectations(t)
}

func TestCreateOperator_DerivesSlugFromName(t *testing.T) {
	service, operators, _, index, bus := newDirectoryService(t)

	operators.On("Create", mock.Anything, mock.Anything).Return(nil)
	index.On("Index", mock.Anything, mock.Anything).Return(nil)
	bus.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	operator, err := service.CreateOperator(context.Background(), services.CreateOperatorInput{
		Name:    "Divers' Den & Co.",
		Address: "Pier 3",
	}, "user-1")

	require.NoError(t, err)
	assert.Equal(t, "divers-den-co", operator.Slug)
}

func TestCreateOperator_BlankOptionalFieldsUnset(t *testing.T) {
	service, operators, _, index, bus := newDirectoryService(t)

	operators.On("Create", mock.Anything, mock.Anything).Return(nil)
	index.On("Index", mock.Anything, mock.Anything).Return(nil)
	bus.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	operator, err := service.CreateOperator(context.Background(), services.CreateOperatorInput{
		Name:        "Blue Reef Divers",
		Address:     "12 Harbour Rd",
		Description: "   ",
		Phone:       "",
	}, "user-1")

	require.NoError(t, err)
	assert.Nil(t, operator.Description)
	assert.Nil(t, operator.Phone)
}

func TestCreateOperator_ValidationFailuresSkipStore(t *testing.T) {
	service, operators, _, _, _ := newDirectoryService(t)

	cases := []struct {
		name  string
		input services.CreateOperatorInput
		owner string
	}{
		{"missing name", services.CreateOperatorInput{Address: "Pier 3"}, "user-1"},
		{"missing address", services.CreateOperatorInput{Name: "Blue Reef"}, "user-1"},
		{"missing owner", services.CreateOperatorInput{Name: "Blue Reef", Address: "Pier 3"}, ""},
		{"underivable slug", services.CreateOperatorInput{Name: "!!!", Address: "Pier 3"}, "user-1"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := service.CreateOperator(context.Background(), tc.input, tc.owner)
			require.Error(t, err)
			assert.True(t, apperrors.IsValidation(err))
		})
	}

	operators.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateOperator_SlugConflictPropagates(t *testing.T) {
	service, operators, _, _, _ := newDirectoryService(t)

	operators.On("Create", mock.Anything, mock.Anything).
		Return(apperrors.NewConflictError(`slug "blue-reef" is already in use`))

	_, err := service.CreateOperator(context.Background(), services.CreateOperatorInput{
		Slug:    "blue-reef",
		Name:    "Blue Reef Divers",
		Address: "12 Harbour Rd",
	}, "user-1")

	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err))
	assert.Contains(t, err.Error(), "blue-reef")
}

func TestSearchOperators_ResolvesOwnerReference(t *testing.T) {
	service, operators, users, _, _ := newDirectoryService(t)

	users.On("GetByUsernameOrEmail", mock.Anything, "dana@example.com").
		Return(&entities.User{ID: "user-7"}, nil)
	operators.On("Search", mock.Anything, mock.MatchedBy(func(p repositories.OperatorSearchParams) bool {
		return p.OwnerID == "user-7"
	})).Return([]*entities.Operator{}, 0, nil)

	_, _, err := service.SearchOperators(context.Background(), services.SearchOptions{
		OwnerRef: "dana@example.com",
	})

	require.NoError(t, err)
	operators.AssertExpectations(t)
}

func TestSearchOperators_UnresolvableOwnerShortCircuits(t *testing.T) {
	service, operators, users, _, _ := newDirectoryService(t)

	users.On("GetByUsernameOrEmail", mock.Anything, "ghost").
		Return(nil, apperrors.NewNotFoundError(`user "ghost" not found`))
	users.On("GetByID", mock.Anything, "ghost").
		Return(nil, apperrors.NewNotFoundError(`user with id ghost not found`))

	results, total, err := service.SearchOperators(context.Background(), services.SearchOptions{
		OwnerRef: "ghost",
	})

	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Zero(t, total)
	operators.AssertNotCalled(t, "Search", mock.Anything, mock.Anything)
}

func TestDeleteOperator_Idempotent(t *testing.T) {
	service, operators, _, index, bus := newDirectoryService(t)

	operators.On("Delete", mock.Anything, "missing").Return(false, nil)

	deleted, err := service.DeleteOperator(context.Background(), "missing")

	require.NoError(t, err)
	assert.False(t, deleted)
	index.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	bus.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
}

func TestDeleteOperator_RemovesFromIndexAndPublishes(t *testing.T) {
	service, operators, _, index, bus := newDirectoryService(t)

	operators.On("Delete", mock.Anything, "op-1").Return(true, nil)
	index.On("Delete", mock.Anything, "op-1").Return(nil)
	bus.On("Publish", mock.Anything, mock.Anything, mock.MatchedBy(func(e *entities.OperatorEvent) bool {
		return e.EventType == entities.OperatorEventTypeDeleted && e.OperatorID == "op-1"
	})).Return(nil)

	deleted, err := service.DeleteOperator(context.Background(), "op-1")

	require.NoError(t, err)
	assert.True(t, deleted)
	index.AssertExpectations(t)
	bus.AssertExpectations(t)
}

func TestRequestVerification_MovesToPending(t *testing.T) {
	service, operators, _, _, bus := newDirectoryService(t)

	operators.On("GetByID", mock.Anything, "op-1").
		Return(&entities.Operator{ID: "op-1", VerificationStatus: entities.VerificationVerified}, nil)
	operators.On("Update", mock.Anything, mock.MatchedBy(func(op *entities.Operator) bool {
		return op.VerificationStatus == entities.VerificationPending
	})).Return(nil)
	bus.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	operator, err := service.RequestVerification(context.Background(), "op-1")

	require.NoError(t, err)
	assert.Equal(t, entities.VerificationPending, operator.VerificationStatus)
}

func TestSetVerification_RejectedWithMessage(t *testing.T) {
	service, operators, _, _, bus := newDirectoryService(t)

	operators.On("GetByID", mock.Anything, "op-1").
		Return(&entities.Operator{ID: "op-1", VerificationStatus: entities.VerificationPending}, nil)
	operators.On("Update", mock.Anything, mock.Anything).Return(nil)
	bus.On("Publish", mock.Anything, mock.Anything, mock.MatchedBy(func(e *entities.OperatorEvent) bool {
		return e.EventType == entities.OperatorEventTypeVerificationDecided
	})).Return(nil)

	operator, err := service.SetVerification(context.Background(), "op-1", false, "insurance documents expired")

	require.NoError(t, err)
	assert.Equal(t, entities.VerificationRejected, operator.VerificationStatus)
	require.NotNil(t, operator.VerificationMessage)
	assert.Equal(t, "insurance documents expired", *operator.VerificationMessage)
}

func TestSetVerification_OversizedMessageRejectedBeforeStore(t *testing.T) {
	service, operators, _, _, _ := newDirectoryService(t)

	operators.On("GetByID", mock.Anything, "op-1").
		Return(&entities.Operator{ID: "op-1"}, nil)

	_, err := service.SetVerification(context.Background(), "op-1", true, strings.Repeat("x", 1001))

	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	operators.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestTransferOwnership_ResolvesNewOwner(t *testing.T) {
	service, operators, users, _, bus := newDirectoryService(t)

	operators.On("GetByID", mock.Anything, "op-1").
		Return(&entities.Operator{
			ID:                 "op-1",
			OwnerID:            "user-1",
			Slug:               "blue-reef",
			VerificationStatus: entities.VerificationVerified,
		}, nil)
	users.On("GetByUsernameOrEmail", mock.Anything, "newowner").
		Return(&entities.User{ID: "user-2"}, nil)
	operators.On("Update", mock.Anything, mock.Anything).Return(nil)
	bus.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	operator, err := service.TransferOwnership(context.Background(), "op-1", "newowner")

	require.NoError(t, err)
	assert.Equal(t, "user-2", operator.OwnerID)
	// Transfer never touches slug or verification state
	assert.Equal(t, "blue-reef", operator.Slug)
	assert.Equal(t, entities.VerificationVerified, operator.VerificationStatus)
}

func TestTransferOwnership_UnresolvableOwnerFails(t *testing.T) {
	service, operators, users, _, _ := newDirectoryService(t)

	operators.On("GetByID", mock.Anything, "op-1").
		Return(&entities.Operator{ID: "op-1", OwnerID: "user-1"}, nil)
	users.On("GetByUsernameOrEmail", mock.Anything, "ghost").
		Return(nil, apperrors.NewNotFoundError(`user "ghost" not found`))
	users.On("GetByID", mock.Anything, "ghost").
		Return(nil, apperrors.NewNotFoundError(`user with id ghost not found`))

	_, err := service.TransferOwnership(context.Background(), "op-1", "ghost")

	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
	operators.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestSuggest_WithoutIndexReturnsEmpty(t *testing.T) {
	operators := &mockOperatorRepository{}
	users := &mockUserRepository{}
	service := services.NewDirectoryService(operators, users, nil, nil)

	results, err := service.Suggest(context.Background(), "blue", 5)

	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestIsSlugInUse_DelegatesToStore(t *testing.T) {
	service, operators, _, _, _ := newDirectoryService(t)

	operators.On("SlugInUse", mock.Anything, "  Blue-Reef  ", "").Return(true, nil)

	inUse, err := service.IsSlugInUse(context.Background(), "  Blue-Reef  ")

	require.NoError(t, err)
	assert.True(t, inUse)
}
