package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/AnshRaj112/serenify-journal/internal/models"
)

var ErrUnitOfWorkDone = errors.New("unit of work already committed or rolled back")

// UnitOfWork is a caller-held transaction with staged article writes.
//
//	uow, err := repo.Begin(ctx, db)
//	if err != nil { ... }
//	defer uow.Rollback()
//	repo.CreateArticle(uow, in)
//	err = uow.Commit(ctx)
//
// A UnitOfWork is not safe for concurrent use and cannot be reused after Commit or Rollback.
type UnitOfWork struct {
	tx     *sql.Tx
	now    func() time.Time
	staged []*models.Article
	done   bool
}

// Begin opens a transaction on db.
func (r *Repository) Begin(ctx context.Context, db TxBeginner) (*UnitOfWork, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &UnitOfWork{tx: tx, now: r.timestamp}, nil
}

// Tx lets other repository operations run inside this unit of work.
func (u *UnitOfWork) Tx() DBTX {
	return u.tx
}

// Pending is the number of staged articles not yet written.
func (u *UnitOfWork) Pending() int {
	return len(u.staged)
}

func (u *UnitOfWork) stage(a *models.Article) {
	u.staged = append(u.staged, a)
}

// Flush writes staged articles inside the transaction without committing. Articles without
// a generation time get the flush time. On error the failed article and those after it stay
// staged; the caller is expected to roll back.
func (u *UnitOfWork) Flush(ctx context.Context) error {
	if u.done {
		return ErrUnitOfWorkDone
	}

	now := u.now()
	for len(u.staged) > 0 {
		a := u.staged[0]
		if a.GeneratedAt.IsZero() {
			a.GeneratedAt = now
		}
		if err := insertArticle(ctx, u.tx, a); err != nil {
			return err
		}
		u.staged = u.staged[1:]
	}
	return nil
}

// Commit flushes staged writes and commits the transaction.
func (u *UnitOfWork) Commit(ctx context.Context) error {
	if err := u.Flush(ctx); err != nil {
		return err
	}
	u.done = true
	return u.tx.Commit()
}

// Rollback discards staged writes and the transaction. It is a no-op after Commit,
// so it can be deferred.
func (u *UnitOfWork) Rollback() error {
	if u.done {
		return nil
	}
	u.done = true
	u.staged = nil
	return u.tx.Rollback()
}
