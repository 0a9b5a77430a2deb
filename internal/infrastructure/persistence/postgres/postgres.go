// Package postgres implements the snapshot backend over PostgreSQL. The whole
// team document lives in one JSONB row, so every save is the same full-state
// replace the Store contract promises, whatever the storage engine.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/step-hub/team-step-hub/internal/infrastructure/persistence"
	"github.com/step-hub/team-step-hub/pkg/retry"
)

// snapshotTable holds exactly one row; the check constraint enforces it.
const migration = `
CREATE TABLE IF NOT EXISTS team_snapshot (
    id         smallint PRIMARY KEY DEFAULT 1 CHECK (id = 1),
    doc        jsonb NOT NULL,
    updated_at timestamptz NOT NULL DEFAULT now()
)`

// Backend persists the snapshot document in a single-row table.
type Backend struct {
	pool *pgxpool.Pool
}

// New creates a postgres backend from a database URL, verifies connectivity,
// and applies the schema migration.
func New(ctx context.Context, databaseURL string) (*Backend, error) {
	poolConfig, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to parse database URL: %w", err)
	}

	// Apply sensible defaults
	if poolConfig.MaxConns == 0 {
		poolConfig.MaxConns = 4
	}
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to create connection pool: %w", err)
	}

	// The database may still be coming up when we are; retry the first ping.
	err = retry.BackendRetrier().Do(ctx, func(ctx context.Context) error {
		return retry.Retryable(pool.Ping(ctx))
	})
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: failed to ping database: %w", err)
	}

	if _, err := pool.Exec(ctx, migration); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: migration failed: %w", err)
	}

	return &Backend{pool: pool}, nil
}

// Load implements persistence.Backend.
func (b *Backend) Load(ctx context.Context) (*persistence.RawSnapshot, error) {
	var doc []byte
	err := b.pool.QueryRow(ctx, `SELECT doc FROM team_snapshot WHERE id = 1`).Scan(&doc)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, persistence.ErrNoSnapshot
		}
		return nil, fmt.Errorf("postgres: load snapshot: %w", err)
	}
	return &persistence.RawSnapshot{Data: doc}, nil
}

// Save implements persistence.Backend.
func (b *Backend) Save(ctx context.Context, doc *persistence.RawSnapshot) error {
	_, err := b.pool.Exec(ctx, `
		INSERT INTO team_snapshot (id, doc, updated_at)
		VALUES (1, $1, now())
		ON CONFLICT (id) DO UPDATE SET doc = EXCLUDED.doc, updated_at = now()`,
		doc.Data,
	)
	if err != nil {
		return fmt.Errorf("postgres: save snapshot: %w", err)
	}
	return nil
}

// Close implements persistence.Backend.
func (b *Backend) Close() error {
	b.pool.Close()
	return nil
}
