package models

import (
	"time"

	"github.com/google/uuid"
)

// JournalEntry is a private journaling entry owned by exactly one user.
// The AI fields stay nil until an analysis result has been merged.
type JournalEntry struct {
	ID        int64     `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Content   string    `json:"content"`
	Mood      *string   `json:"mood,omitempty"`
	CreatedAt time.Time `json:"created_at"`

	// AI analysis
	SentimentScore        *float64   `json:"sentiment_score,omitempty"`
	SentimentLabel        *string    `json:"sentiment_label,omitempty"`
	KeyThemes             StringList `json:"key_themes,omitempty"`
	SuggestedStrategies   StringList `json:"suggested_strategies,omitempty"`
	AIAnalysisCompletedAt *time.Time `json:"ai_analysis_completed_at,omitempty"`
}

// JournalEntryCreate holds the user-supplied fields of a new entry.
type JournalEntryCreate struct {
	Content string  `json:"content" validate:"required"`
	Mood    *string `json:"mood,omitempty"`
}

// AIAnalysisResult is merged into an entry as one unit.
type AIAnalysisResult struct {
	SentimentScore      *float64   `json:"sentiment_score"`
	SentimentLabel      *string    `json:"sentiment_label"`
	KeyThemes           StringList `json:"key_themes"`
	SuggestedStrategies StringList `json:"suggested_strategies"`
}
