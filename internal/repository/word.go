// Package repository contains data access abstractions. Implementations live
// in subpackages (postgres).
package repository

import (
	"context"
	"errors"

	"docclean/internal/model"
)

// ErrNotFound is returned when a row addressed by id does not exist.
var ErrNotFound = errors.New("row not found")

// WordRepository persists vocabulary entries. It holds no business rules.
type WordRepository interface {
	// Create inserts one entry; ID and CreatedAt are assigned by the database.
	Create(ctx context.Context, w *model.WordEntry) (*model.WordEntry, error)

	// CreateMany inserts all entries in a single transaction and returns how many were stored.
	CreateMany(ctx context.Context, ws []model.WordEntry) (int, error)

	// List returns a page of entries, newest first, and the total row count.
	List(ctx context.Context, pq PageQuery) (*PageResult[model.WordEntry], error)

	// Delete removes an entry by id, or returns ErrNotFound.
	Delete(ctx context.Context, id string) error
}

// PageQuery holds limit/offset pagination parameters.
type PageQuery struct {
	Limit  int
	Offset int
}

// PageResult is a generic pagination result wrapper.
type PageResult[T any] struct {
	Items []T
	Total int
}
