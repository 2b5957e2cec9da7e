package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/coursely/coursely-backend/internal/config"
	"github.com/coursely/coursely-backend/internal/model"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss is returned by QuizCache.GetPayload when the quiz payload is
// not cached. Callers fall back to PostgreSQL and re-warm.
var ErrCacheMiss = errors.New("quiz payload not cached")

// QuizCache stores the student-facing quiz payload keyed by quiz id.
// Implemented by RedisQuizCache.
type QuizCache interface {
	WarmPayload(ctx context.Context, view *model.QuizView) error
	GetPayload(ctx context.Context, quizID uuid.UUID) (*model.QuizView, error)
	Invalidate(ctx context.Context, quizID uuid.UUID) error
}

// RedisQuizCache is the Redis-backed QuizCache.
type RedisQuizCache struct {
	rdb *redis.Client
}

// NewRedisQuizCache creates a new RedisQuizCache.
func NewRedisQuizCache(rdb *redis.Client) *RedisQuizCache {
	return &RedisQuizCache{rdb: rdb}
}

// WarmPayload caches a quiz's student payload. The payload never contains
// correctness flags.
func (c *RedisQuizCache) WarmPayload(ctx context.Context, view *model.QuizView) error {
	payload, err := json.Marshal(view)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	key := config.CacheKey.QuizPayloadKey(view.ID.String())
	if err := c.rdb.Set(ctx, key, payload, 0).Err(); err != nil {
		return fmt.Errorf("cache payload: %w", err)
	}
	return nil
}

// GetPayload retrieves the cached student payload for a quiz.
func (c *RedisQuizCache) GetPayload(ctx context.Context, quizID uuid.UUID) (*model.QuizView, error) {
	key := config.CacheKey.QuizPayloadKey(quizID.String())
	data, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("get payload: %w", err)
	}

	var view model.QuizView
	if err := json.Unmarshal(data, &view); err != nil {
		return nil, fmt.Errorf("unmarshal payload: %w", err)
	}
	return &view, nil
}

// Invalidate drops the cached payload for a quiz.
func (c *RedisQuizCache) Invalidate(ctx context.Context, quizID uuid.UUID) error {
	key := config.CacheKey.QuizPayloadKey(quizID.String())
	return c.rdb.Del(ctx, key).Err()
}
