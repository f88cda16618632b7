package kv

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore keeps values in a single kv_entries table.
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore takes ownership of pool and creates the table if needed.
func NewPostgresStore(ctx context.Context, pool *pgxpool.Pool) (*PostgresStore, error) {
	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS kv_entries (
		  key        TEXT PRIMARY KEY,
		  value      BYTEA NOT NULL,
		  updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`)
	if err != nil {
		return nil, fmt.Errorf("create kv_entries: %w", err)
	}
	return &PostgresStore{db: pool}, nil
}

func (p *PostgresStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := p.db.QueryRow(ctx, `SELECT value FROM kv_entries WHERE key=$1`, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("postgres get %s: %w", key, err)
	}
	return value, nil
}

func (p *PostgresStore) Set(ctx context.Context, key string, value []byte) error {
	_, err := p.db.Exec(ctx, `
		INSERT INTO kv_entries (key, value)
		VALUES ($1,$2)
		ON CONFLICT (key)
		DO UPDATE SET value = EXCLUDED.value, updated_at = now()
	`, key, value)
	if err != nil {
		return fmt.Errorf("postgres set %s: %w", key, err)
	}
	return nil
}

func (p *PostgresStore) Delete(ctx context.Context, key string) error {
	if _, err := p.db.Exec(ctx, `DELETE FROM kv_entries WHERE key=$1`, key); err != nil {
		return fmt.Errorf("postgres delete %s: %w", key, err)
	}
	return nil
}

func (p *PostgresStore) Ping(ctx context.Context) error {
	return p.db.Ping(ctx)
}

func (p *PostgresStore) Close() error {
	p.db.Close()
	return nil
}
