package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"docclean/internal/model"
	"docclean/internal/repository"
)

// WordPostgres is the PostgreSQL implementation of repository.WordRepository.
type WordPostgres struct {
	db *sql.DB
}

func NewWordPostgres(db *sql.DB) *WordPostgres {
	return &WordPostgres{db: db}
}

var _ repository.WordRepository = (*WordPostgres)(nil)

const insertWord = `
		INSERT INTO wordlist (word, meaning, example)
		VALUES ($1, $2, $3)
		RETURNING id, word, meaning, example, created_at
	`

func (r *WordPostgres) Create(ctx context.Context, w *model.WordEntry) (*model.WordEntry, error) {
	row := r.db.QueryRowContext(ctx, insertWord, w.Word, w.Meaning, nullString(w.Example))
	return scanWord(row)
}

// CreateMany inserts every entry or none.
func (r *WordPostgres) CreateMany(ctx context.Context, ws []model.WordEntry) (int, error) {
	if len(ws) == 0 {
		return 0, nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO wordlist (word, meaning, example) VALUES ($1, $2, $3)`)
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, w := range ws {
		if _, err := stmt.ExecContext(ctx, w.Word, w.Meaning, nullString(w.Example)); err != nil {
			return 0, fmt.Errorf("insert row %d: %w", i, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return len(ws), nil
}

func (r *WordPostgres) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.WordEntry], error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM wordlist`).Scan(&total); err != nil {
		return nil, err
	}

	const qList = `
		SELECT id, word, meaning, example, created_at
		FROM wordlist
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.QueryContext(ctx, qList, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.WordEntry, 0)
	for rows.Next() {
		w, err := scanWord(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *w)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &repository.PageResult[model.WordEntry]{Items: items, Total: total}, nil
}

func (r *WordPostgres) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM wordlist WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanWord(s scanner) (*model.WordEntry, error) {
	var (
		w       model.WordEntry
		example sql.NullString
	)
	if err := s.Scan(&w.ID, &w.Word, &w.Meaning, &example, &w.CreatedAt); err != nil {
		return nil, err
	}
	w.Example = example.String
	return &w, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
