package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"memoapi/internal/model"
	"memoapi/internal/service"
)

type MockTagService struct {
	mock.Mock
}

var _ service.TagService = (*MockTagService)(nil)

func (m *MockTagService) AllTags(ctx context.Context) ([]model.TagCount, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.TagCount), args.Error(1)
}

func (m *MockTagService) PopularTags(ctx context.Context, limit int) ([]model.TagCount, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.TagCount), args.Error(1)
}

func (m *MockTagService) RenameTag(ctx context.Context, oldName, newName string) (model.BulkResult, error) {
	args := m.Called(ctx, oldName, newName)
	return args.Get(0).(model.BulkResult), args.Error(1)
}

func (m *MockTagService) DeleteTag(ctx context.Context, name string) (model.BulkResult, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(model.BulkResult), args.Error(1)
}

func (m *MockTagService) MergeTags(ctx context.Context, names []string, target string) (model.BulkResult, error) {
	args := m.Called(ctx, names, target)
	return args.Get(0).(model.BulkResult), args.Error(1)
}
