package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/AnshRaj112/serenify-journal/internal/models"
	"github.com/AnshRaj112/serenify-journal/pkg/utils"
	"github.com/google/uuid"
)

const (
	userColumns = `id, email, hashed_password, first_name, last_name, created_at`

	getUserStatement = `
	SELECT ` + userColumns + `
	FROM users
	WHERE id = $1
	`

	getUserByEmailStatement = `
	SELECT ` + userColumns + `
	FROM users
	WHERE email = $1
	`

	createUserStatement = `
	INSERT INTO users (id, email, hashed_password, first_name, last_name, created_at)
	VALUES ($1, $2, $3, $4, $5, $6)
	`

	deleteUserStatement = `
	DELETE FROM users
	WHERE id = $1
	`
)

func scanUser(row rowScanner) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Email, &u.HashedPassword, &u.FirstName, &u.LastName, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	u.CreatedAt = u.CreatedAt.UTC()
	return &u, nil
}

// GetUser looks a user up by id. A missing user is (nil, nil).
func (r *Repository) GetUser(ctx context.Context, db DBTX, userID uuid.UUID) (*models.User, error) {
	u, err := scanUser(db.QueryRowContext(ctx, getUserStatement, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return u, err
}

// GetUserByEmail looks a user up by their unique email.
func (r *Repository) GetUserByEmail(ctx context.Context, db DBTX, email string) (*models.User, error) {
	u, err := scanUser(db.QueryRowContext(ctx, getUserByEmailStatement, email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return u, err
}

// CreateUser hashes the plaintext password and stores the user. A duplicate email fails with
// the driver's unique violation, unchanged (see sqlerr.IsUniqueViolation).
func (r *Repository) CreateUser(ctx context.Context, db DBTX, in models.UserCreate) (*models.User, error) {
	hashed, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	userID := uuid.New()
	_, err = db.ExecContext(ctx, createUserStatement,
		userID,
		in.Email,
		hashed,
		in.FirstName,
		in.LastName,
		r.timestamp(),
	)
	if err != nil {
		return nil, err
	}

	return r.GetUser(ctx, db, userID)
}

// DeleteUser removes the user and returns what was deleted, or nil if there was no such user.
// Journal entries and articles are removed by the store's ON DELETE CASCADE within the same statement.
func (r *Repository) DeleteUser(ctx context.Context, db DBTX, userID uuid.UUID) (*models.User, error) {
	u, err := r.GetUser(ctx, db, userID)
	if err != nil || u == nil {
		return nil, err
	}

	res, err := db.ExecContext(ctx, deleteUserStatement, userID)
	if err != nil {
		return nil, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		// deleted concurrently
		return nil, nil
	}

	r.log.Info().Str("user_id", userID.String()).Msg("user deleted")
	return u, nil
}
