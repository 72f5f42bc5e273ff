// Package migration creates the word list schema on first start.
package migration

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"docclean/internal/logging"
)

type step struct {
	Name string
	SQL  string
}

var steps = []step{
	{
		Name: "create_extension_uuid_ossp",
		SQL:  `CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	},
	{
		Name: "create_table_wordlist",
		SQL: `CREATE TABLE IF NOT EXISTS wordlist (
  id         UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  word       TEXT        NOT NULL CHECK (word <> ''),
  meaning    TEXT        NOT NULL CHECK (meaning <> ''),
  example    TEXT,
  created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_wordlist_word",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_wordlist_word ON wordlist (word);`,
	},
	{
		Name: "create_index_wordlist_created_at",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_wordlist_created_at ON wordlist (created_at);`,
	},
}

// EnsureMigrated runs every step unless the wordlist table already exists.
func EnsureMigrated(ctx context.Context, db *sql.DB, log logging.Logger) error {
	start := time.Now()
	log = log.WithField(logging.FieldComponent, "migration")

	var exists bool
	if err := db.QueryRowContext(ctx, "SELECT to_regclass('public.wordlist') IS NOT NULL").Scan(&exists); err != nil {
		log.WithError(err).Error("db_migration_failed")
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}
	if exists {
		log.Info("db_migration_skip", logging.F(logging.FieldDuration, time.Since(start).Milliseconds()))
		return nil
	}

	for _, s := range steps {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, s.SQL); err != nil {
			log.WithError(err).Error("db_migration_failed", logging.F("migration_step", s.Name))
			return fmt.Errorf("migration step %s failed: %w", s.Name, err)
		}
		log.Debug("db_migration_step",
			logging.F("migration_step", s.Name),
			logging.F(logging.FieldDuration, time.Since(stepStart).Milliseconds()))
	}

	log.Info("db_migration_success",
		logging.F(logging.FieldCount, len(steps)),
		logging.F(logging.FieldDuration, time.Since(start).Milliseconds()))
	return nil
}
