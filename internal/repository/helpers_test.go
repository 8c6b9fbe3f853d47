package repository

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/AnshRaj112/serenify-journal/internal/database"
	"github.com/AnshRaj112/serenify-journal/internal/models"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type testClock struct {
	t time.Time
}

func (c *testClock) Now() time.Time { return c.t }

func (c *testClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.ConnectSQLite(filepath.Join(t.TempDir(), "test.db"), zerolog.Nop())
	if err != nil {
		t.Fatalf("ConnectSQLite failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func setupTestRepo(t *testing.T) (*Repository, *sql.DB, *testClock) {
	t.Helper()
	clock := &testClock{t: time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)}
	repo := New(zerolog.Nop())
	repo.now = clock.Now
	return repo, setupTestDB(t), clock
}

func createTestUser(t *testing.T, ctx context.Context, repo *Repository, db DBTX, email string) *models.User {
	t.Helper()
	u, err := repo.CreateUser(ctx, db, models.UserCreate{
		Email:     email,
		Password:  "s3cret-" + email,
		FirstName: "Test",
		LastName:  "User",
	})
	if err != nil {
		t.Fatalf("CreateUser(%s) failed: %v", email, err)
	}
	return u
}

func createTestEntry(t *testing.T, ctx context.Context, repo *Repository, db DBTX, userID uuid.UUID, content string, mood *string) *models.JournalEntry {
	t.Helper()
	e, err := repo.CreateJournalEntry(ctx, db, models.JournalEntryCreate{Content: content, Mood: mood}, userID)
	if err != nil {
		t.Fatalf("CreateJournalEntry failed: %v", err)
	}
	return e
}

func countRows(t *testing.T, db *sql.DB, query string, args ...any) int {
	t.Helper()
	var n int
	if err := db.QueryRow(query, args...).Scan(&n); err != nil {
		t.Fatalf("count query %q failed: %v", query, err)
	}
	return n
}

func ptr[T any](v T) *T { return &v }

func testArticle(userID uuid.UUID, i int) models.ArticleCreate {
	return models.ArticleCreate{
		UserID:         userID,
		Title:          fmt.Sprintf("Article %d", i),
		Body:           "body",
		TriggeringMood: "anxious",
	}
}
