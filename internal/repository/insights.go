package repository

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/AnshRaj112/serenify-journal/internal/models"
	"github.com/google/uuid"
)

// ThemeCloudLimit caps the number of themes returned by GetThemeFrequency.
const ThemeCloudLimit = 50

const (
	moodHistoryStatement = `
	SELECT created_at, mood
	FROM journal_entries
	WHERE user_id = $1 AND created_at >= $2 AND mood IS NOT NULL
	ORDER BY created_at ASC, id ASC
	`

	themeListsStatement = `
	SELECT id, key_themes
	FROM journal_entries
	WHERE user_id = $1 AND created_at >= $2 AND key_themes IS NOT NULL
	`
)

// windowStart is the inclusive lower bound of a "last N days" window.
func (r *Repository) windowStart(days int) time.Time {
	return r.timestamp().Add(-time.Duration(days) * 24 * time.Hour)
}

// GetMoodHistory returns the user's recorded moods from the last days days, oldest first.
// Entries without a mood are left out.
func (r *Repository) GetMoodHistory(ctx context.Context, db DBTX, userID uuid.UUID, days int) ([]models.MoodPoint, error) {
	rows, err := db.QueryContext(ctx, moodHistoryStatement, userID, r.windowStart(days))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	points := make([]models.MoodPoint, 0)
	for rows.Next() {
		var p models.MoodPoint
		if err := rows.Scan(&p.Date, &p.Mood); err != nil {
			return nil, err
		}
		p.Date = p.Date.UTC()
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return points, nil
}

// GetThemeFrequency counts key themes across the user's entries from the last days days and
// returns the ThemeCloudLimit most frequent. Rows whose theme column cannot be parsed are
// skipped with a warning.
func (r *Repository) GetThemeFrequency(ctx context.Context, db DBTX, userID uuid.UUID, days int) ([]models.ThemeCloudItem, error) {
	rows, err := db.QueryContext(ctx, themeListsStatement, userID, r.windowStart(days))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var (
			entryID int64
			raw     []byte
		)
		if err := rows.Scan(&entryID, &raw); err != nil {
			return nil, err
		}

		themes, err := models.ParseStringList(raw)
		if err != nil {
			r.log.Warn().
				Str("user_id", userID.String()).
				Int64("entry_id", entryID).
				Err(err).
				Msg("skipping entry with unparsable key_themes")
			continue
		}
		countThemes(counts, themes)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return topThemes(counts, ThemeCloudLimit), nil
}

// countThemes adds each trimmed, non-empty theme to counts.
func countThemes(counts map[string]int, themes models.StringList) {
	for _, theme := range themes {
		theme = strings.TrimSpace(theme)
		if theme == "" {
			continue
		}
		counts[theme]++
	}
}

// topThemes orders by count descending, then theme ascending, and keeps at most limit items.
func topThemes(counts map[string]int, limit int) []models.ThemeCloudItem {
	items := make([]models.ThemeCloudItem, 0, len(counts))
	for theme, count := range counts {
		items = append(items, models.ThemeCloudItem{Theme: theme, Count: count})
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].Count != items[j].Count {
			return items[i].Count > items[j].Count
		}
		return items[i].Theme < items[j].Theme
	})

	if limit >= 0 && len(items) > limit {
		items = items[:limit]
	}
	return items
}
