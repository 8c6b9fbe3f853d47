package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/AnshRaj112/serenify-journal/internal/models"
	"github.com/AnshRaj112/serenify-journal/internal/repository"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	// InsightsKeyPrefix is the Redis key prefix for a user's cached insights hash
	InsightsKeyPrefix = "insights:"
	// DefaultInsightsTTL is used when no TTL is configured
	DefaultInsightsTTL = 10 * time.Minute
)

// InsightsService serves mood history and theme frequency, read through a per-user Redis hash.
// A nil Redis client disables caching.
type InsightsService struct {
	db    *sql.DB
	repo  *repository.Repository
	redis *redis.Client
	ttl   time.Duration
	log   zerolog.Logger
}

func NewInsightsService(db *sql.DB, repo *repository.Repository, rdb *redis.Client, ttl time.Duration, log zerolog.Logger) *InsightsService {
	if ttl <= 0 {
		ttl = DefaultInsightsTTL
	}
	return &InsightsService{
		db:    db,
		repo:  repo,
		redis: rdb,
		ttl:   ttl,
		log:   log.With().Str("component", "insights").Logger(),
	}
}

func insightsKey(userID uuid.UUID) string {
	return InsightsKeyPrefix + userID.String()
}

// ThemeFrequency returns the user's most frequent themes over the last days days.
func (s *InsightsService) ThemeFrequency(ctx context.Context, userID uuid.UUID, days int) ([]models.ThemeCloudItem, error) {
	var items []models.ThemeCloudItem
	field := fmt.Sprintf("themes:%d", days)
	if s.cached(ctx, userID, field, &items) {
		return items, nil
	}

	items, err := s.repo.GetThemeFrequency(ctx, s.db, userID, days)
	if err != nil {
		return nil, err
	}
	s.store(ctx, userID, field, items)
	return items, nil
}

// MoodHistory returns the user's moods over the last days days, oldest first.
func (s *InsightsService) MoodHistory(ctx context.Context, userID uuid.UUID, days int) ([]models.MoodPoint, error) {
	var points []models.MoodPoint
	field := fmt.Sprintf("moods:%d", days)
	if s.cached(ctx, userID, field, &points) {
		return points, nil
	}

	points, err := s.repo.GetMoodHistory(ctx, s.db, userID, days)
	if err != nil {
		return nil, err
	}
	s.store(ctx, userID, field, points)
	return points, nil
}

// Invalidate drops every cached insight for the user.
func (s *InsightsService) Invalidate(ctx context.Context, userID uuid.UUID) error {
	if s.redis == nil {
		return nil
	}
	return s.redis.Del(ctx, insightsKey(userID)).Err()
}

// cached decodes a hash field into dest. Misses and cache failures both report false.
func (s *InsightsService) cached(ctx context.Context, userID uuid.UUID, field string, dest any) bool {
	if s.redis == nil {
		return false
	}

	val, err := s.redis.HGet(ctx, insightsKey(userID), field).Bytes()
	if errors.Is(err, redis.Nil) {
		return false
	}
	if err != nil {
		s.log.Warn().Err(err).Str("field", field).Msg("insights cache read failed")
		return false
	}

	if err := json.Unmarshal(val, dest); err != nil {
		s.log.Warn().Err(err).Str("field", field).Msg("dropping undecodable cached insight")
		return false
	}
	return true
}

// store writes a hash field and refreshes the hash TTL. Failures are logged only.
func (s *InsightsService) store(ctx context.Context, userID uuid.UUID, field string, value any) {
	if s.redis == nil {
		return
	}

	data, err := json.Marshal(value)
	if err != nil {
		s.log.Warn().Err(err).Str("field", field).Msg("could not encode insight for cache")
		return
	}

	key := insightsKey(userID)
	_, err = s.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, field, data)
		pipe.Expire(ctx, key, s.ttl)
		return nil
	})
	if err != nil {
		s.log.Warn().Err(err).Str("field", field).Msg("insights cache write failed")
	}
}
