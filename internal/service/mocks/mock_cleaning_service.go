package mocks

import (
	"context"

	"docclean/internal/export"
	"docclean/internal/model"
	"github.com/stretchr/testify/mock"
)

type MockCleaningService struct {
	mock.Mock
}

func (m *MockCleaningService) Clean(ctx context.Context, req model.CleaningRequest) (*model.CleanedResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CleanedResult), args.Error(1)
}

func (m *MockCleaningService) Result(ctx context.Context) (*model.CleanedResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CleanedResult), args.Error(1)
}

func (m *MockCleaningService) Export(ctx context.Context, format string) (*export.File, error) {
	args := m.Called(ctx, format)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*export.File), args.Error(1)
}
