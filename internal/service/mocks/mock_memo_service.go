package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"memoapi/internal/model"
	"memoapi/internal/service"
)

type MockMemoService struct {
	mock.Mock
}

var _ service.MemoService = (*MockMemoService)(nil)

func (m *MockMemoService) Initialize(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockMemoService) Create(ctx context.Context, content string) (*model.Memo, error) {
	args := m.Called(ctx, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Memo), args.Error(1)
}

func (m *MockMemoService) GetByID(ctx context.Context, id string) (*model.Memo, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Memo), args.Error(1)
}

func (m *MockMemoService) Update(ctx context.Context, id, content string) (*model.Memo, error) {
	args := m.Called(ctx, id, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Memo), args.Error(1)
}

func (m *MockMemoService) Rewrite(ctx context.Context, memo model.Memo, content string) (*model.Memo, error) {
	args := m.Called(ctx, memo, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Memo), args.Error(1)
}

func (m *MockMemoService) Delete(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockMemoService) ListAll(ctx context.Context, limit int, sortKey model.SortKey) ([]model.Memo, error) {
	args := m.Called(ctx, limit, sortKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Memo), args.Error(1)
}

func (m *MockMemoService) Search(ctx context.Context, q model.SearchQuery) ([]model.Memo, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Memo), args.Error(1)
}
