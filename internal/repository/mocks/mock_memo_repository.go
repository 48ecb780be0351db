package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"memoapi/internal/model"
	"memoapi/internal/repository"
)

type MockMemoRepository struct {
	mock.Mock
}

var _ repository.MemoRepository = (*MockMemoRepository)(nil)

func (m *MockMemoRepository) Init(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockMemoRepository) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockMemoRepository) Create(ctx context.Context, memo *model.Memo) (*model.Memo, error) {
	args := m.Called(ctx, memo)
	if f, ok := args.Get(0).(func(context.Context, *model.Memo) *model.Memo); ok {
		return f(ctx, memo), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Memo), args.Error(1)
}

func (m *MockMemoRepository) FindByID(ctx context.Context, id string) (*model.Memo, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Memo), args.Error(1)
}

func (m *MockMemoRepository) Save(ctx context.Context, memo *model.Memo) error {
	args := m.Called(ctx, memo)
	return args.Error(0)
}

func (m *MockMemoRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockMemoRepository) List(ctx context.Context) ([]model.Memo, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Memo), args.Error(1)
}
