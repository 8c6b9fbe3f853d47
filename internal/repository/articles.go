package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/AnshRaj112/serenify-journal/internal/models"
	"github.com/google/uuid"
)

const (
	articleColumns = `id, user_id, source_journal_entry_id, title, body, triggering_mood,
	generation_variation_key, generated_at`

	getArticleStatement = `
	SELECT ` + articleColumns + `
	FROM articles
	WHERE id = $1 AND user_id = $2
	`

	listArticlesStatement = `
	SELECT ` + articleColumns + `
	FROM articles
	WHERE user_id = $1
	ORDER BY generated_at DESC, id DESC
	LIMIT $2 OFFSET $3
	`

	createArticleStatement = `
	INSERT INTO articles (user_id, source_journal_entry_id, title, body, triggering_mood,
		generation_variation_key, generated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	RETURNING id
	`

	deleteArticleStatement = `
	DELETE FROM articles
	WHERE id = $1 AND user_id = $2
	`
)

func scanArticle(row rowScanner) (*models.Article, error) {
	var (
		a         models.Article
		sourceID  sql.NullInt64
		variation sql.NullString
	)
	err := row.Scan(
		&a.ID,
		&a.UserID,
		&sourceID,
		&a.Title,
		&a.Body,
		&a.TriggeringMood,
		&variation,
		&a.GeneratedAt,
	)
	if err != nil {
		return nil, err
	}
	a.SourceJournalEntryID = nullableInt(sourceID)
	a.GenerationVariationKey = nullableString(variation)
	a.GeneratedAt = a.GeneratedAt.UTC()
	return &a, nil
}

func newArticle(in models.ArticleCreate, generatedAt time.Time) *models.Article {
	return &models.Article{
		UserID:                 in.UserID,
		SourceJournalEntryID:   in.SourceJournalEntryID,
		Title:                  in.Title,
		Body:                   in.Body,
		TriggeringMood:         in.TriggeringMood,
		GenerationVariationKey: in.GenerationVariationKey,
		GeneratedAt:            generatedAt,
	}
}

// insertArticle writes a and fills in its store-assigned id.
func insertArticle(ctx context.Context, db DBTX, a *models.Article) error {
	return db.QueryRowContext(ctx, createArticleStatement,
		a.UserID,
		a.SourceJournalEntryID,
		a.Title,
		a.Body,
		a.TriggeringMood,
		a.GenerationVariationKey,
		a.GeneratedAt,
	).Scan(&a.ID)
}

// CreateArticle stages an article on uow. Nothing is written until uow is flushed or
// committed; at that point the returned article receives its id and generation time.
func (r *Repository) CreateArticle(uow *UnitOfWork, in models.ArticleCreate) *models.Article {
	a := newArticle(in, time.Time{})
	uow.stage(a)
	return a
}

// GetArticle returns the article only if userID owns it.
func (r *Repository) GetArticle(ctx context.Context, db DBTX, articleID int64, userID uuid.UUID) (*models.Article, error) {
	a, err := scanArticle(db.QueryRowContext(ctx, getArticleStatement, articleID, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return a, err
}

// GetUserArticles pages through the user's articles, most recently generated first.
func (r *Repository) GetUserArticles(ctx context.Context, db DBTX, userID uuid.UUID, skip, limit int) ([]models.Article, error) {
	rows, err := db.QueryContext(ctx, listArticlesStatement, userID, limit, skip)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	articles := make([]models.Article, 0)
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return articles, nil
}

// DeleteArticle deletes an owned article and returns it, or nil if there was nothing to delete.
func (r *Repository) DeleteArticle(ctx context.Context, db DBTX, articleID int64, userID uuid.UUID) (*models.Article, error) {
	a, err := r.GetArticle(ctx, db, articleID, userID)
	if err != nil || a == nil {
		return nil, err
	}

	res, err := db.ExecContext(ctx, deleteArticleStatement, articleID, userID)
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
	return a, nil
}

// CreateArticlesBulk inserts all items in one transaction, stamped with the same generation
// time. Either every article is stored or, on the first failure, the transaction is rolled
// back and that failure is returned. An empty batch returns without touching the store.
func (r *Repository) CreateArticlesBulk(ctx context.Context, db TxBeginner, items []models.ArticleCreate) ([]*models.Article, error) {
	if len(items) == 0 {
		return []*models.Article{}, nil
	}

	now := r.timestamp()
	articles := make([]*models.Article, 0, len(items))
	for _, in := range items {
		articles = append(articles, newArticle(in, now))
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}

	for _, a := range articles {
		if err := insertArticle(ctx, tx, a); err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				r.log.Error().Err(rbErr).Msg("rollback of article batch failed")
			}
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	r.log.Debug().Int("count", len(articles)).Msg("article batch stored")
	return articles, nil
}
