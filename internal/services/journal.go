package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/AnshRaj112/serenify-journal/internal/models"
	"github.com/AnshRaj112/serenify-journal/internal/repository"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var (
	// ErrInvalidInput wraps validation failures on caller-supplied data
	ErrInvalidInput = errors.New("invalid input")
	// ErrEntryNotFound is returned when an entry is missing or owned by someone else
	ErrEntryNotFound = errors.New("journal entry not found")
)

// JournalService runs the write paths for journal data and keeps cached insights in step.
type JournalService struct {
	db       *sql.DB
	repo     *repository.Repository
	insights *InsightsService
	validate *validator.Validate
	log      zerolog.Logger
}

func NewJournalService(db *sql.DB, repo *repository.Repository, insights *InsightsService, log zerolog.Logger) *JournalService {
	return &JournalService{
		db:       db,
		repo:     repo,
		insights: insights,
		validate: validator.New(),
		log:      log.With().Str("component", "journal").Logger(),
	}
}

func (s *JournalService) check(v any) error {
	if err := s.validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return nil
}

// invalidate drops the user's cached insights. A cache failure never fails the write
// that triggered it; the entries expire with the TTL.
func (s *JournalService) invalidate(ctx context.Context, userID uuid.UUID) {
	if err := s.insights.Invalidate(ctx, userID); err != nil {
		s.log.Warn().Err(err).Str("user_id", userID.String()).Msg("could not invalidate insights cache")
	}
}

// CreateEntry stores a new entry for the user.
func (s *JournalService) CreateEntry(ctx context.Context, userID uuid.UUID, in models.JournalEntryCreate) (*models.JournalEntry, error) {
	if err := s.check(in); err != nil {
		return nil, err
	}

	entry, err := s.repo.CreateJournalEntry(ctx, s.db, in, userID)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, userID)

	s.log.Info().
		Str("user_id", userID.String()).
		Int64("entry_id", entry.ID).
		Msg("journal entry created")
	return entry, nil
}

// ListEntries pages through the user's entries, newest first.
func (s *JournalService) ListEntries(ctx context.Context, userID uuid.UUID, skip, limit int) ([]models.JournalEntry, error) {
	return s.repo.GetUserJournalEntries(ctx, s.db, userID, skip, limit)
}

// ApplyAnalysis merges an analysis result into an owned entry.
func (s *JournalService) ApplyAnalysis(ctx context.Context, userID uuid.UUID, entryID int64, results models.AIAnalysisResult) (*models.JournalEntry, error) {
	entry, err := s.repo.UpdateJournalEntryWithAI(ctx, s.db, entryID, userID, results)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, ErrEntryNotFound
	}
	s.invalidate(ctx, userID)
	return entry, nil
}

// DeleteEntry removes an owned entry.
func (s *JournalService) DeleteEntry(ctx context.Context, userID uuid.UUID, entryID int64) (*models.JournalEntry, error) {
	entry, err := s.repo.DeleteJournalEntry(ctx, s.db, entryID, userID)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, ErrEntryNotFound
	}
	s.invalidate(ctx, userID)
	return entry, nil
}

// SaveArticles stores a generated batch in one transaction. Nothing is stored if any
// article is invalid or fails to insert.
func (s *JournalService) SaveArticles(ctx context.Context, items []models.ArticleCreate) ([]*models.Article, error) {
	for i := range items {
		if err := s.check(items[i]); err != nil {
			return nil, fmt.Errorf("article %d: %w", i, err)
		}
	}
	return s.repo.CreateArticlesBulk(ctx, s.db, items)
}

// SaveEntryArticles stores articles generated from one of the user's entries. The ownership
// check and the inserts share a transaction, and every article is linked to the entry.
func (s *JournalService) SaveEntryArticles(ctx context.Context, userID uuid.UUID, entryID int64, items []models.ArticleCreate) ([]*models.Article, error) {
	uow, err := s.repo.Begin(ctx, s.db)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := uow.Rollback(); err != nil {
			s.log.Error().Err(err).Msg("rollback of entry articles failed")
		}
	}()

	entry, err := s.repo.GetJournalEntry(ctx, uow.Tx(), entryID, userID)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, ErrEntryNotFound
	}

	articles := make([]*models.Article, 0, len(items))
	for i, in := range items {
		in.UserID = userID
		in.SourceJournalEntryID = &entry.ID
		if err := s.check(in); err != nil {
			return nil, fmt.Errorf("article %d: %w", i, err)
		}
		articles = append(articles, s.repo.CreateArticle(uow, in))
	}

	if err := uow.Commit(ctx); err != nil {
		return nil, err
	}
	return articles, nil
}

// ListArticles pages through the user's articles, most recent first.
func (s *JournalService) ListArticles(ctx context.Context, userID uuid.UUID, skip, limit int) ([]models.Article, error) {
	return s.repo.GetUserArticles(ctx, s.db, userID, skip, limit)
}

// DeleteUser removes a user with all their entries and articles.
func (s *JournalService) DeleteUser(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.repo.DeleteUser(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}
	if user != nil {
		s.invalidate(ctx, userID)
	}
	return user, nil
}
