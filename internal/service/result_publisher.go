package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/coursely/coursely-backend/internal/config"
	"github.com/coursely/coursely-backend/internal/model"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ResultPublisher fans graded attempts out to live subscribers. Implemented
// by RedisResultPublisher; the websocket results stream consumes the channel.
type ResultPublisher interface {
	PublishResult(ctx context.Context, quizID uuid.UUID, event *model.GradedEvent) error
}

// RedisResultPublisher publishes graded attempts on a per-quiz pub/sub
// channel.
type RedisResultPublisher struct {
	rdb *redis.Client
}

// NewRedisResultPublisher creates a new RedisResultPublisher.
func NewRedisResultPublisher(rdb *redis.Client) *RedisResultPublisher {
	return &RedisResultPublisher{rdb: rdb}
}

// PublishResult publishes a graded attempt to the quiz's results channel.
func (p *RedisResultPublisher) PublishResult(ctx context.Context, quizID uuid.UUID, event *model.GradedEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	channel := config.CacheKey.QuizResultsChannel(quizID.String())
	if err := p.rdb.Publish(ctx, channel, payload).Err(); err != nil {
		return fmt.Errorf("publish result: %w", err)
	}
	return nil
}
