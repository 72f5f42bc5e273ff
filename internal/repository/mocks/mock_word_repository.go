package mocks

import (
	"context"

	"docclean/internal/model"
	"docclean/internal/repository"
	"github.com/stretchr/testify/mock"
)

type MockWordRepository struct {
	mock.Mock
}

func (m *MockWordRepository) Create(ctx context.Context, w *model.WordEntry) (*model.WordEntry, error) {
	args := m.Called(ctx, w)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.WordEntry), args.Error(1)
}

func (m *MockWordRepository) CreateMany(ctx context.Context, ws []model.WordEntry) (int, error) {
	args := m.Called(ctx, ws)
	return args.Int(0), args.Error(1)
}

func (m *MockWordRepository) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.WordEntry], error) {
	args := m.Called(ctx, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.WordEntry]), args.Error(1)
}

func (m *MockWordRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
