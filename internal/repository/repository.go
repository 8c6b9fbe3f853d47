// Package repository is the data-access layer for users, journal entries, insights and articles.
//
// Every operation receives the handle it runs on. Pass a *sql.DB to auto-commit each call,
// a *sql.Tx (or UnitOfWork.Tx) to make the call part of a wider transaction. User-scoped
// operations always filter on both the row id and the owner, and report a row owned by
// someone else exactly like a missing one: (nil, nil).
package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/rs/zerolog"
)

// DBTX is satisfied by *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// TxBeginner starts transactions. *sql.DB satisfies it.
type TxBeginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

type rowScanner interface {
	Scan(dest ...any) error
}

type Repository struct {
	log zerolog.Logger
	now func() time.Time
}

func New(log zerolog.Logger) *Repository {
	return &Repository{
		log: log.With().Str("component", "repository").Logger(),
		now: time.Now,
	}
}

// timestamp is the writer-assigned time, truncated to the precision PostgreSQL keeps.
func (r *Repository) timestamp() time.Time {
	return r.now().UTC().Truncate(time.Microsecond)
}

func nullableString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func nullableFloat(nf sql.NullFloat64) *float64 {
	if !nf.Valid {
		return nil
	}
	f := nf.Float64
	return &f
}

func nullableInt(ni sql.NullInt64) *int64 {
	if !ni.Valid {
		return nil
	}
	i := ni.Int64
	return &i
}

func nullableTime(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time.UTC()
	return &t
}
