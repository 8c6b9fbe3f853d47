package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/AnshRaj112/serenify-journal/internal/config"
	"github.com/rs/zerolog"
)

// Open connects to the store selected by cfg.DatabaseDriver and ensures its tables exist.
func Open(cfg *config.Config, log zerolog.Logger) (*sql.DB, error) {
	switch cfg.DatabaseDriver {
	case config.DriverPostgres:
		return ConnectPostgres(cfg.PostgresURI, log)
	case config.DriverSQLite:
		return ConnectSQLite(cfg.SQLitePath, log)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DatabaseDriver)
	}
}

func execAll(ctx context.Context, db *sql.DB, statements []string) error {
	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init tables: %w", err)
		}
	}
	return nil
}
