package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/rs/zerolog"
)

// ConnectPostgres opens the PostgreSQL pool, checks it and makes sure the tables exist.
func ConnectPostgres(postgresURI string, log zerolog.Logger) (*sql.DB, error) {
	db, err := sql.Open("postgres", postgresURI)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	// Set connection pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	log.Info().Msg("connected to PostgreSQL")

	if err := InitPostgresTables(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	log.Info().Msg("PostgreSQL tables initialized")

	return db, nil
}

// InitPostgresTables creates all necessary tables if they don't exist
func InitPostgresTables(ctx context.Context, db *sql.DB) error {
	return execAll(ctx, db, postgresSchema)
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY,
		email VARCHAR(255) NOT NULL UNIQUE,
		hashed_password VARCHAR(255) NOT NULL,
		first_name VARCHAR(255) NOT NULL DEFAULT '',
		last_name VARCHAR(255) NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	// Entries go with their owner
	`CREATE TABLE IF NOT EXISTS journal_entries (
		id BIGSERIAL PRIMARY KEY,
		user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		content TEXT NOT NULL,
		mood VARCHAR(64),
		sentiment_score DOUBLE PRECISION,
		sentiment_label VARCHAR(64),
		key_themes JSONB,
		suggested_strategies JSONB,
		ai_analysis_completed_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS articles (
		id BIGSERIAL PRIMARY KEY,
		user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		source_journal_entry_id BIGINT REFERENCES journal_entries(id) ON DELETE SET NULL,
		title VARCHAR(512) NOT NULL,
		body TEXT NOT NULL,
		triggering_mood VARCHAR(64) NOT NULL,
		generation_variation_key VARCHAR(255),
		generated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE INDEX IF NOT EXISTS idx_users_email ON users(email)`,
	`CREATE INDEX IF NOT EXISTS idx_journal_entries_user_created ON journal_entries(user_id, created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_articles_user_generated ON articles(user_id, generated_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_articles_source_entry ON articles(source_journal_entry_id)`,
}
