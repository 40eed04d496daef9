package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Connect opens a pgx connection pool using the provided DSN.
func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	cfg.MaxConns = 8
	cfg.MaxConnIdleTime = 5 * time.Minute
	return pgxpool.NewWithConfig(ctx, cfg)
}

// EnsureSchema creates the StudyForge tables if needed. Having the migration
// in code keeps the stack self-contained so docker-compose can bootstrap
// everything.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	const stmt = `
CREATE TABLE IF NOT EXISTS folders (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	name TEXT NOT NULL,
	parent_folder_id TEXT,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_folders_parent ON folders(user_id, parent_folder_id);

CREATE TABLE IF NOT EXISTS resources (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	folder_id TEXT NOT NULL,
	resource_type TEXT NOT NULL,
	title TEXT,
	source_url TEXT,
	transcript TEXT,
	summary_notes TEXT,
	emoji TEXT,
	status TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_resources_folder ON resources(user_id, folder_id);
CREATE INDEX IF NOT EXISTS idx_resources_status ON resources(status);

CREATE TABLE IF NOT EXISTS resource_images (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	resource_id TEXT NOT NULL,
	image_url TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_resource_images_resource ON resource_images(resource_id, created_at);

CREATE TABLE IF NOT EXISTS flash_cards (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	resource_id TEXT NOT NULL,
	front TEXT NOT NULL,
	back TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_flash_cards_resource ON flash_cards(resource_id, user_id);

CREATE TABLE IF NOT EXISTS quiz_questions (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	resource_id TEXT NOT NULL,
	question TEXT NOT NULL,
	options TEXT NOT NULL,
	correct_option TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_quiz_questions_resource ON quiz_questions(resource_id, user_id);`
	_, err := pool.Exec(ctx, stmt)
	if err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
