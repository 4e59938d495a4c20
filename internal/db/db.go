// Package db provides PostgreSQL access for candidate profiles and the
// generation run audit trail.
package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// Ping verifies the database is reachable.
func (db *DB) Ping(ctx context.Context) error {
	return db.pool.Ping(ctx)
}

// EnsureSchema creates the tables this service needs if they do not exist.
func (db *DB) EnsureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS profiles (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			key TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL,
			email TEXT,
			phone TEXT,
			location TEXT,
			linkedin TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS profile_experience (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			profile_id UUID NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
			position INT NOT NULL,
			title TEXT,
			company TEXT,
			location TEXT,
			start_date TEXT,
			end_date TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS profile_education (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			profile_id UUID NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
			position INT NOT NULL,
			degree TEXT,
			school TEXT,
			location TEXT,
			graduation_date TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS generation_runs (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			profile_key TEXT NOT NULL,
			job_source TEXT NOT NULL,
			model TEXT NOT NULL,
			status TEXT NOT NULL,
			fallback BOOLEAN NOT NULL DEFAULT FALSE,
			merge_strategy TEXT,
			years INT,
			prompt_tokens INT,
			completion_tokens INT,
			total_tokens INT,
			error TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			completed_at TIMESTAMPTZ
		)`,
	}

	for _, stmt := range statements {
		if _, err := db.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to ensure schema: %w", err)
		}
	}
	return nil
}
