package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// Schema creates the slot table used by Postgres.
const Schema = `
	CREATE TABLE IF NOT EXISTS storage_slots (
		key TEXT PRIMARY KEY,
		value BYTEA NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
`

// Postgres stores slots as rows of the storage_slots table.
type Postgres struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewPostgres creates a PostgreSQL-backed storage.
func NewPostgres(pool *pgxpool.Pool, logger zerolog.Logger) *Postgres {
	return &Postgres{
		pool:   pool,
		logger: logger.With().Str("storage", "postgres").Logger(),
	}
}

// Migrate creates the slot table when it does not exist.
func (p *Postgres) Migrate(ctx context.Context) error {
	if _, err := p.pool.Exec(ctx, Schema); err != nil {
		p.logger.Error().Err(err).Msg("failed to create storage schema")
		return fmt.Errorf("failed to create storage schema: %w", err)
	}
	return nil
}

// Get returns the blob stored under key.
func (p *Postgres) Get(ctx context.Context, key string) ([]byte, error) {
	query := `
		SELECT value
		FROM storage_slots
		WHERE key = $1
	`

	var value []byte
	err := p.pool.QueryRow(ctx, query, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		p.logger.Error().Err(err).Str("key", key).Msg("failed to query slot")
		return nil, fmt.Errorf("failed to query slot: %w", err)
	}

	return value, nil
}

// Set overwrites the blob stored under key.
func (p *Postgres) Set(ctx context.Context, key string, value []byte) error {
	query := `
		INSERT INTO storage_slots (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
	`

	if _, err := p.pool.Exec(ctx, query, key, value); err != nil {
		p.logger.Error().Err(err).Str("key", key).Msg("failed to write slot")
		return fmt.Errorf("failed to write slot: %w", err)
	}

	return nil
}

// Remove deletes the slot.
func (p *Postgres) Remove(ctx context.Context, key string) error {
	query := `
		DELETE FROM storage_slots
		WHERE key = $1
	`

	if _, err := p.pool.Exec(ctx, query, key); err != nil {
		p.logger.Error().Err(err).Str("key", key).Msg("failed to remove slot")
		return fmt.Errorf("failed to remove slot: %w", err)
	}

	return nil
}
