package models

import (
	"time"

	"github.com/google/uuid"
)

// User is a registered account. Deleting it removes its journal entries and articles.
type User struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	CreatedAt time.Time `json:"created_at"`

	// Internal only - never returned in JSON
	HashedPassword string `json:"-"`
}

// UserCreate carries the registration fields. Password is plaintext and is hashed before storage.
type UserCreate struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}
