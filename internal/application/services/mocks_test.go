package services_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/divetribe/divedirectory/internal/domain/entities"
	"github.com/divetribe/divedirectory/internal/domain/repositories"
)

type mockOperatorRepository struct {
	mock.Mock
}

func (m *mockOperatorRepository) Create(ctx context.Context, operator *entities.Operator) error {
	args := m.Called(ctx, operator)
	return args.Error(0)
}

func (m *mockOperatorRepository) GetByID(ctx context.Context, id string) (*entities.Operator, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Operator), args.Error(1)
}

func (m *mockOperatorRepository) GetBySlug(ctx context.Context, slug string) (*entities.Operator, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Operator), args.Error(1)
}

func (m *mockOperatorRepository) Update(ctx context.Context, operator *entities.Operator) error {
	args := m.Called(ctx, operator)
	return args.Error(0)
}

func (m *mockOperatorRepository) Delete(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *mockOperatorRepository) Search(ctx context.Context, params repositories.OperatorSearchParams) ([]*entities.Operator, int, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*entities.Operator), args.Int(1), args.Error(2)
}

func (m *mockOperatorRepository) SlugInUse(ctx context.Context, slug string, excludeID string) (bool, error) {
	args := m.Called(ctx, slug, excludeID)
	return args.Bool(0), args.Error(1)
}

type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) GetByID(ctx context.Context, id string) (*entities.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *mockUserRepository) GetByUsernameOrEmail(ctx context.Context, ref string) (*entities.User, error) {
	args := m.Called(ctx, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

type mockReviewRepository struct {
	mock.Mock
}

func (m *mockReviewRepository) Create(ctx context.Context, review *entities.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *mockReviewRepository) GetByID(ctx context.Context, id string) (*entities.Review, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Review), args.Error(1)
}

func (m *mockReviewRepository) Update(ctx context.Context, review *entities.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *mockReviewRepository) Delete(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *mockReviewRepository) List(ctx context.Context, params repositories.ReviewListParams) ([]*entities.Review, int, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*entities.Review), args.Int(1), args.Error(2)
}

func (m *mockReviewRepository) Stats(ctx context.Context, operatorID string) (*entities.ReviewStats, error) {
	args := m.Called(ctx, operatorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.ReviewStats), args.Error(1)
}

type mockSearchIndex struct {
	mock.Mock
}

func (m *mockSearchIndex) Index(ctx context.Context, operator *entities.Operator) error {
	args := m.Called(ctx, operator)
	return args.Error(0)
}

func (m *mockSearchIndex) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockSearchIndex) Suggest(ctx context.Context, query string, limit int) ([]*entities.Operator, error) {
	args := m.Called(ctx, query, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Operator), args.Error(1)
}

type mockEventBus struct {
	mock.Mock
}

func (m *mockEventBus) Publish(ctx context.Context, channel string, event *entities.OperatorEvent) error {
	args := m.Called(ctx, channel, event)
	return args.Error(0)
}

func (m *mockEventBus) Subscribe(ctx context.Context, channel string) (<-chan *entities.OperatorEvent, error) {
	args := m.Called(ctx, channel)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(<-chan *entities.OperatorEvent), args.Error(1)
}

func (m *mockEventBus) Unsubscribe(ctx context.Context, channel string) error {
	args := m.Called(ctx, channel)
	return args.Error(0)
}

func (m *mockEventBus) Close() error {
	args := m.Called()
	return args.Error(0)
}
