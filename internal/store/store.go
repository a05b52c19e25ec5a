// Package store persists scan results.
package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog/log"

	"langscan/internal/collector"
	"langscan/internal/textutil"
)

const schema = `
CREATE TABLE IF NOT EXISTS language_source (
	id         BIGSERIAL PRIMARY KEY,
	hash       TEXT NOT NULL UNIQUE,
	category   TEXT NOT NULL,
	message    TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

const insertSource = `
INSERT INTO language_source (hash, category, message)
VALUES ($1, $2, $3)
ON CONFLICT (hash) DO NOTHING`

// DB is the subset of a pgx pool the store uses.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// Store keeps discovered language elements in the language_source table.
type Store struct {
	db DB
}

// New creates a store over db, typically a *pgxpool.Pool.
func New(db DB) *Store {
	return &Store{db: db}
}

// EnsureSchema creates the language_source table.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create language_source table: %w", err)
	}
	return nil
}

// Sync inserts the pairs of res that are not stored yet and returns how
// many were inserted.
func (s *Store) Sync(ctx context.Context, res *collector.Result) (int, error) {
	if len(res.Items) == 0 {
		return 0, nil
	}

	br := s.db.SendBatch(ctx, buildBatch(res.Items))
	defer br.Close()

	inserted := 0
	for _, item := range res.Items {
		tag, err := br.Exec()
		if err != nil {
			return inserted, fmt.Errorf("insert %s/%s: %w", item.Category, textutil.Truncate(item.Message, 40), err)
		}
		if tag.RowsAffected() > 0 {
			inserted++
		}
	}

	log.Info().Int("inserted", inserted).Int("total", len(res.Items)).Msg("Synced language sources")
	return inserted, nil
}

func buildBatch(items []collector.LanguageItem) *pgx.Batch {
	b := &pgx.Batch{}
	for _, item := range items {
		b.Queue(insertSource, textutil.Hash(item.Category, item.Message), item.Category, item.Message)
	}
	return b
}
