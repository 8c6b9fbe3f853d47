package services

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/AnshRaj112/serenify-journal/internal/database"
	"github.com/AnshRaj112/serenify-journal/internal/models"
	"github.com/AnshRaj112/serenify-journal/internal/repository"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

type testEnv struct {
	db       *sql.DB
	repo     *repository.Repository
	insights *InsightsService
	journal  *JournalService
	user     *models.User
}

func setupServices(t *testing.T, rdb *redis.Client, log zerolog.Logger) *testEnv {
	t.Helper()
	db, err := database.ConnectSQLite(filepath.Join(t.TempDir(), "services.db"), zerolog.Nop())
	if err != nil {
		t.Fatalf("ConnectSQLite failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	repo := repository.New(zerolog.Nop())
	insights := NewInsightsService(db, repo, rdb, time.Minute, log)
	journal := NewJournalService(db, repo, insights, log)

	user, err := repo.CreateUser(context.Background(), db, models.UserCreate{
		Email:     "svc@example.com",
		Password:  "correct horse",
		FirstName: "Sam",
		LastName:  "Vale",
	})
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	return &testEnv{db: db, repo: repo, insights: insights, journal: journal, user: user}
}

// unreachableRedis fails every command quickly with a connection error.
func unreachableRedis(t *testing.T) *redis.Client {
	t.Helper()
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { rdb.Close() })
	return rdb
}

func mood(s string) *string { return &s }

func TestCreateEntryValidates(t *testing.T) {
	env := setupServices(t, nil, zerolog.Nop())

	_, err := env.journal.CreateEntry(context.Background(), env.user.ID, models.JournalEntryCreate{})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}

	entry, err := env.journal.CreateEntry(context.Background(), env.user.ID, models.JournalEntryCreate{Content: "fine", Mood: mood("ok")})
	if err != nil {
		t.Fatalf("CreateEntry failed: %v", err)
	}
	if entry.UserID != env.user.ID {
		t.Errorf("expected owner %s, got %s", env.user.ID, entry.UserID)
	}
}

func TestInsightsWithoutCache(t *testing.T) {
	env := setupServices(t, nil, zerolog.Nop())
	ctx := context.Background()

	entry, err := env.journal.CreateEntry(ctx, env.user.ID, models.JournalEntryCreate{Content: "busy day", Mood: mood("stressed")})
	if err != nil {
		t.Fatalf("CreateEntry failed: %v", err)
	}

	themes, err := env.insights.ThemeFrequency(ctx, env.user.ID, 7)
	if err != nil {
		t.Fatalf("ThemeFrequency failed: %v", err)
	}
	if len(themes) != 0 {
		t.Errorf("expected no themes before analysis, got %+v", themes)
	}

	if _, err := env.journal.ApplyAnalysis(ctx, env.user.ID, entry.ID, models.AIAnalysisResult{
		KeyThemes: models.StringList{"work", "deadlines"},
	}); err != nil {
		t.Fatalf("ApplyAnalysis failed: %v", err)
	}

	themes, err = env.insights.ThemeFrequency(ctx, env.user.ID, 7)
	if err != nil {
		t.Fatalf("ThemeFrequency failed: %v", err)
	}
	if len(themes) != 2 || themes[0].Theme != "deadlines" || themes[1].Theme != "work" {
		t.Errorf("unexpected themes %+v", themes)
	}

	moods, err := env.insights.MoodHistory(ctx, env.user.ID, 7)
	if err != nil {
		t.Fatalf("MoodHistory failed: %v", err)
	}
	if len(moods) != 1 || moods[0].Mood != "stressed" {
		t.Errorf("unexpected mood history %+v", moods)
	}

	if err := env.insights.Invalidate(ctx, env.user.ID); err != nil {
		t.Errorf("Invalidate without a cache should be a no-op, got %v", err)
	}
}

func TestInsightsFallBackWhenCacheIsDown(t *testing.T) {
	var logs bytes.Buffer
	env := setupServices(t, unreachableRedis(t), zerolog.New(&logs))
	ctx := context.Background()

	if _, err := env.journal.CreateEntry(ctx, env.user.ID, models.JournalEntryCreate{Content: "quiet", Mood: mood("calm")}); err != nil {
		t.Fatalf("CreateEntry should not fail on cache errors: %v", err)
	}

	moods, err := env.insights.MoodHistory(ctx, env.user.ID, 30)
	if err != nil {
		t.Fatalf("MoodHistory should fall back to the store: %v", err)
	}
	if len(moods) != 1 || moods[0].Mood != "calm" {
		t.Errorf("unexpected mood history %+v", moods)
	}

	out := logs.String()
	for _, msg := range []string{"could not invalidate insights cache", "insights cache read failed", "insights cache write failed"} {
		if !strings.Contains(out, msg) {
			t.Errorf("expected log %q, got: %s", msg, out)
		}
	}
}

func TestApplyAnalysisAndDeleteEntryNotFound(t *testing.T) {
	env := setupServices(t, nil, zerolog.Nop())
	ctx := context.Background()

	entry, err := env.journal.CreateEntry(ctx, env.user.ID, models.JournalEntryCreate{Content: "mine"})
	if err != nil {
		t.Fatalf("CreateEntry failed: %v", err)
	}
	stranger := uuid.New()

	if _, err := env.journal.ApplyAnalysis(ctx, stranger, entry.ID, models.AIAnalysisResult{}); !errors.Is(err, ErrEntryNotFound) {
		t.Errorf("ApplyAnalysis by a stranger: expected ErrEntryNotFound, got %v", err)
	}
	if _, err := env.journal.DeleteEntry(ctx, stranger, entry.ID); !errors.Is(err, ErrEntryNotFound) {
		t.Errorf("DeleteEntry by a stranger: expected ErrEntryNotFound, got %v", err)
	}

	deleted, err := env.journal.DeleteEntry(ctx, env.user.ID, entry.ID)
	if err != nil || deleted == nil || deleted.ID != entry.ID {
		t.Fatalf("DeleteEntry failed: %+v, %v", deleted, err)
	}
	if _, err := env.journal.DeleteEntry(ctx, env.user.ID, entry.ID); !errors.Is(err, ErrEntryNotFound) {
		t.Errorf("second delete: expected ErrEntryNotFound, got %v", err)
	}
}

func TestSaveArticles(t *testing.T) {
	env := setupServices(t, nil, zerolog.Nop())
	ctx := context.Background()

	valid := models.ArticleCreate{UserID: env.user.ID, Title: "Breathing", Body: "In, out.", TriggeringMood: "anxious"}
	invalid := valid
	invalid.Title = ""

	if _, err := env.journal.SaveArticles(ctx, []models.ArticleCreate{valid, invalid}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	list, err := env.journal.ListArticles(ctx, env.user.ID, 0, 10)
	if err != nil {
		t.Fatalf("ListArticles failed: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("an invalid batch must store nothing, got %d articles", len(list))
	}

	saved, err := env.journal.SaveArticles(ctx, []models.ArticleCreate{valid, valid})
	if err != nil {
		t.Fatalf("SaveArticles failed: %v", err)
	}
	if len(saved) != 2 || !saved[0].GeneratedAt.Equal(saved[1].GeneratedAt) {
		t.Errorf("expected two articles sharing a generation time, got %+v", saved)
	}
}

func TestSaveEntryArticles(t *testing.T) {
	env := setupServices(t, nil, zerolog.Nop())
	ctx := context.Background()

	entry, err := env.journal.CreateEntry(ctx, env.user.ID, models.JournalEntryCreate{Content: "can't sleep", Mood: mood("restless")})
	if err != nil {
		t.Fatalf("CreateEntry failed: %v", err)
	}
	items := []models.ArticleCreate{
		{Title: "Wind down", Body: "Dim the lights.", TriggeringMood: "restless"},
		{Title: "Sleep hygiene", Body: "Same time every night.", TriggeringMood: "restless"},
	}

	if _, err := env.journal.SaveEntryArticles(ctx, uuid.New(), entry.ID, items); !errors.Is(err, ErrEntryNotFound) {
		t.Fatalf("foreign entry: expected ErrEntryNotFound, got %v", err)
	}

	articles, err := env.journal.SaveEntryArticles(ctx, env.user.ID, entry.ID, items)
	if err != nil {
		t.Fatalf("SaveEntryArticles failed: %v", err)
	}
	if len(articles) != 2 {
		t.Fatalf("expected 2 articles, got %d", len(articles))
	}
	for _, a := range articles {
		if a.ID == 0 || a.UserID != env.user.ID {
			t.Errorf("unexpected article %+v", a)
		}
		if a.SourceJournalEntryID == nil || *a.SourceJournalEntryID != entry.ID {
			t.Errorf("article %d should reference entry %d", a.ID, entry.ID)
		}
	}

	stored, err := env.journal.ListArticles(ctx, env.user.ID, 0, 10)
	if err != nil {
		t.Fatalf("ListArticles failed: %v", err)
	}
	if len(stored) != 2 {
		t.Errorf("expected 2 stored articles, got %d", len(stored))
	}
}

func TestDeleteUser(t *testing.T) {
	env := setupServices(t, nil, zerolog.Nop())
	ctx := context.Background()

	if _, err := env.journal.CreateEntry(ctx, env.user.ID, models.JournalEntryCreate{Content: "bye"}); err != nil {
		t.Fatalf("CreateEntry failed: %v", err)
	}

	deleted, err := env.journal.DeleteUser(ctx, env.user.ID)
	if err != nil || deleted == nil || deleted.ID != env.user.ID {
		t.Fatalf("DeleteUser failed: %+v, %v", deleted, err)
	}
	entries, err := env.journal.ListEntries(ctx, env.user.ID, 0, 10)
	if err != nil {
		t.Fatalf("ListEntries failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("entries should be gone with their owner, got %d", len(entries))
	}

	again, err := env.journal.DeleteUser(ctx, env.user.ID)
	if err != nil || again != nil {
		t.Errorf("second delete: expected (nil, nil), got %+v, %v", again, err)
	}
}
