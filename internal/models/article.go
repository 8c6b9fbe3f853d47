package models

import (
	"time"

	"github.com/google/uuid"
)

// Article is generated content for a user, optionally derived from one of their entries.
type Article struct {
	ID                     int64     `json:"id"`
	UserID                 uuid.UUID `json:"user_id"`
	SourceJournalEntryID   *int64    `json:"source_journal_entry_id,omitempty"`
	Title                  string    `json:"title"`
	Body                   string    `json:"body"`
	TriggeringMood         string    `json:"triggering_mood"`
	GenerationVariationKey *string   `json:"generation_variation_key,omitempty"`
	GeneratedAt            time.Time `json:"generated_at"`
}

type ArticleCreate struct {
	UserID                 uuid.UUID `json:"user_id" validate:"required"`
	SourceJournalEntryID   *int64    `json:"source_journal_entry_id,omitempty"`
	Title                  string    `json:"title" validate:"required"`
	Body                   string    `json:"body" validate:"required"`
	TriggeringMood         string    `json:"triggering_mood" validate:"required"`
	GenerationVariationKey *string   `json:"generation_variation_key,omitempty"`
}
