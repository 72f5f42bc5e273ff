package mocks

import (
	"context"

	"docclean/internal/model"
	"docclean/internal/service"
	"github.com/stretchr/testify/mock"
)

type MockWordService struct {
	mock.Mock
}

func (m *MockWordService) Add(ctx context.Context, word, meaning, example string) (*model.WordEntry, error) {
	args := m.Called(ctx, word, meaning, example)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.WordEntry), args.Error(1)
}

func (m *MockWordService) List(ctx context.Context, limit, offset int) (*service.WordListResult, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.WordListResult), args.Error(1)
}

func (m *MockWordService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockWordService) ImportCleaned(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}
