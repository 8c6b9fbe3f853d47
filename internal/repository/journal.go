package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/AnshRaj112/serenify-journal/internal/models"
	"github.com/google/uuid"
)

const (
	entryColumns = `id, user_id, content, mood, sentiment_score, sentiment_label,
	key_themes, suggested_strategies, ai_analysis_completed_at, created_at`

	getJournalEntryStatement = `
	SELECT ` + entryColumns + `
	FROM journal_entries
	WHERE id = $1 AND user_id = $2
	`

	listJournalEntriesStatement = `
	SELECT ` + entryColumns + `
	FROM journal_entries
	WHERE user_id = $1
	ORDER BY created_at DESC, id DESC
	LIMIT $2 OFFSET $3
	`

	createJournalEntryStatement = `
	INSERT INTO journal_entries (user_id, content, mood, created_at)
	VALUES ($1, $2, $3, $4)
	RETURNING id
	`

	updateJournalEntryAIStatement = `
	UPDATE journal_entries
	SET sentiment_score = $1,
		sentiment_label = $2,
		key_themes = $3,
		suggested_strategies = $4,
		ai_analysis_completed_at = $5
	WHERE id = $6 AND user_id = $7
	`

	deleteJournalEntryStatement = `
	DELETE FROM journal_entries
	WHERE id = $1 AND user_id = $2
	`
)

func (r *Repository) scanEntry(row rowScanner) (*models.JournalEntry, error) {
	var (
		e          models.JournalEntry
		mood       sql.NullString
		score      sql.NullFloat64
		label      sql.NullString
		themes     []byte
		strategies []byte
		completed  sql.NullTime
	)

	err := row.Scan(
		&e.ID,
		&e.UserID,
		&e.Content,
		&mood,
		&score,
		&label,
		&themes,
		&strategies,
		&completed,
		&e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	e.Mood = nullableString(mood)
	e.SentimentScore = nullableFloat(score)
	e.SentimentLabel = nullableString(label)
	e.KeyThemes = r.decodeList(e.ID, "key_themes", themes)
	e.SuggestedStrategies = r.decodeList(e.ID, "suggested_strategies", strategies)
	e.AIAnalysisCompletedAt = nullableTime(completed)
	e.CreatedAt = e.CreatedAt.UTC()

	return &e, nil
}

// decodeList reads a list column. A malformed value is logged and read as absent
// instead of failing the whole read.
func (r *Repository) decodeList(entryID int64, column string, raw []byte) models.StringList {
	list, err := models.ParseStringList(raw)
	if err != nil {
		r.log.Warn().
			Int64("entry_id", entryID).
			Str("column", column).
			Int("raw_len", len(raw)).
			Err(err).
			Msg("could not parse list column")
		return nil
	}
	return list
}

// GetJournalEntry returns the entry only if userID owns it.
func (r *Repository) GetJournalEntry(ctx context.Context, db DBTX, entryID int64, userID uuid.UUID) (*models.JournalEntry, error) {
	e, err := r.scanEntry(db.QueryRowContext(ctx, getJournalEntryStatement, entryID, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return e, err
}

// GetUserJournalEntries pages through the user's entries, newest first. skip and limit
// are passed to the store as given.
func (r *Repository) GetUserJournalEntries(ctx context.Context, db DBTX, userID uuid.UUID, skip, limit int) ([]models.JournalEntry, error) {
	rows, err := db.QueryContext(ctx, listJournalEntriesStatement, userID, limit, skip)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]models.JournalEntry, 0)
	for rows.Next() {
		e, err := r.scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// CreateJournalEntry stores a new entry owned by userID.
func (r *Repository) CreateJournalEntry(ctx context.Context, db DBTX, in models.JournalEntryCreate, userID uuid.UUID) (*models.JournalEntry, error) {
	var entryID int64
	err := db.QueryRowContext(ctx, createJournalEntryStatement,
		userID,
		in.Content,
		in.Mood,
		r.timestamp(),
	).Scan(&entryID)
	if err != nil {
		return nil, err
	}

	return r.GetJournalEntry(ctx, db, entryID, userID)
}

// UpdateJournalEntryWithAI merges an analysis result into an owned entry. All AI fields and
// the completion time are written by a single statement. Returns nil, with nothing changed,
// when the entry is missing or owned by someone else.
func (r *Repository) UpdateJournalEntryWithAI(ctx context.Context, db DBTX, entryID int64, userID uuid.UUID, results models.AIAnalysisResult) (*models.JournalEntry, error) {
	res, err := db.ExecContext(ctx, updateJournalEntryAIStatement,
		results.SentimentScore,
		results.SentimentLabel,
		results.KeyThemes,
		results.SuggestedStrategies,
		r.timestamp(),
		entryID,
		userID,
	)
	if err != nil {
		return nil, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}

	return r.GetJournalEntry(ctx, db, entryID, userID)
}

// DeleteJournalEntry deletes an owned entry and returns it, or nil if there was nothing to delete.
func (r *Repository) DeleteJournalEntry(ctx context.Context, db DBTX, entryID int64, userID uuid.UUID) (*models.JournalEntry, error) {
	e, err := r.GetJournalEntry(ctx, db, entryID, userID)
	if err != nil || e == nil {
		return nil, err
	}

	res, err := db.ExecContext(ctx, deleteJournalEntryStatement, entryID, userID)
	if err != nil {
		return nil, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}
	return e, nil
}
