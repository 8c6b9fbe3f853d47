package database

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
)

// ConnectSQLite opens (creating if needed) a SQLite database file for local development and tests.
// Foreign keys are switched on through the DSN so every pooled connection enforces cascades.
func ConnectSQLite(path string, log zerolog.Logger) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create sqlite directory: %w", err)
		}
	}

	params := url.Values{}
	params.Add("_foreign_keys", "on")
	params.Add("_journal_mode", "WAL")
	params.Add("_busy_timeout", "5000")

	dsn := path
	if strings.Contains(path, "?") {
		dsn += "&" + params.Encode()
	} else {
		dsn += "?" + params.Encode()
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %q: %w", path, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite %q: %w", path, err)
	}

	if err := InitSQLiteTables(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	log.Debug().Str("path", path).Msg("SQLite database ready")

	return db, nil
}

// InitSQLiteTables mirrors the PostgreSQL schema. TIMESTAMP columns keep go-sqlite3
// decoding them into time.Time; list columns are JSON text.
func InitSQLiteTables(ctx context.Context, db *sql.DB) error {
	return execAll(ctx, db, sqliteSchema)
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		hashed_password TEXT NOT NULL,
		first_name TEXT NOT NULL DEFAULT '',
		last_name TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS journal_entries (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		content TEXT NOT NULL,
		mood TEXT,
		sentiment_score REAL,
		sentiment_label TEXT,
		key_themes TEXT,
		suggested_strategies TEXT,
		ai_analysis_completed_at TIMESTAMP,
		created_at TIMESTAMP NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS articles (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		source_journal_entry_id INTEGER REFERENCES journal_entries(id) ON DELETE SET NULL,
		title TEXT NOT NULL,
		body TEXT NOT NULL,
		triggering_mood TEXT NOT NULL,
		generation_variation_key TEXT,
		generated_at TIMESTAMP NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_journal_entries_user_created ON journal_entries(user_id, created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_articles_user_generated ON articles(user_id, generated_at)`,
	`CREATE INDEX IF NOT EXISTS idx_articles_source_entry ON articles(source_journal_entry_id)`,
}
