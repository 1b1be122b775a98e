package store

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore persists commentary in a single table, upserting on the
// profile hash. Schema:
//
//	CREATE TABLE commentary_cache (
//	    id           UUID PRIMARY KEY,
//	    profile_hash TEXT UNIQUE NOT NULL,
//	    content      TEXT NOT NULL,
//	    provider     TEXT,
//	    model        TEXT,
//	    created_at   TIMESTAMPTZ NOT NULL,
//	    updated_at   TIMESTAMPTZ NOT NULL
//	);
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects using the DATABASE_URL environment variable.
func NewPostgresStore(ctx context.Context) (*PostgresStore, error) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable not set")
	}

	config, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Get(ctx context.Context, hash string) (*Entry, bool, error) {
	query := `
		SELECT id, profile_hash, content, provider, model, created_at, updated_at
		FROM commentary_cache
		WHERE profile_hash = $1
	`
	var entry Entry
	err := s.pool.QueryRow(ctx, query, hash).Scan(
		&entry.ID, &entry.Hash, &entry.Content,
		&entry.Provider, &entry.Model,
		&entry.CreatedAt, &entry.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("commentary get: %w", err)
	}
	return &entry, true, nil
}

func (s *PostgresStore) Put(ctx context.Context, entry *Entry) error {
	query := `
		INSERT INTO commentary_cache (id, profile_hash, content, provider, model, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (profile_hash) DO UPDATE SET
			content    = EXCLUDED.content,
			provider   = EXCLUDED.provider,
			model      = EXCLUDED.model,
			updated_at = EXCLUDED.updated_at
	`
	_, err := s.pool.Exec(ctx, query,
		entry.ID, entry.Hash, entry.Content,
		entry.Provider, entry.Model,
		entry.CreatedAt, entry.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("commentary put: %w", err)
	}
	return nil
}

// Close releases the connection pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}
