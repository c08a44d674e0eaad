package scheduler

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"fitstudio/models"
	"fitstudio/utils"

	"github.com/go-redis/redis/v8"
)

// SessionStore persists suggestion sessions keyed by token.
type SessionStore interface {
	Get(ctx context.Context, token string) (*models.SuggestionSession, error)
	Save(ctx context.Context, sess *models.SuggestionSession, ttl time.Duration) error
	Delete(ctx context.Context, token string) error
}

// RedisSessionStore stores sessions as JSON blobs with a TTL, so abandoned
// sessions evict themselves without any sweeper.
type RedisSessionStore struct {
	Client *redis.Client
}

func NewRedisSessionStore(client *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{Client: client}
}

func sessionKey(token string) string {
	return utils.SessionCachePrefix + token
}

// Get returns (nil, nil) when the token does not exist, which covers both
// never-issued tokens and sessions already evicted by Redis.
func (s *RedisSessionStore) Get(ctx context.Context, token string) (*models.SuggestionSession, error) {
	data, err := s.Client.Get(ctx, sessionKey(token)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch suggestion session: %w", err)
	}
	var sess models.SuggestionSession
	if err := json.Unmarshal([]byte(data), &sess); err != nil {
		return nil, fmt.Errorf("failed to parse suggestion session: %w", err)
	}
	return &sess, nil
}

func (s *RedisSessionStore) Save(ctx context.Context, sess *models.SuggestionSession, ttl time.Duration) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to marshal suggestion session: %w", err)
	}
	if err := s.Client.Set(ctx, sessionKey(sess.Token), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store suggestion session: %w", err)
	}
	return nil
}

func (s *RedisSessionStore) Delete(ctx context.Context, token string) error {
	if err := s.Client.Del(ctx, sessionKey(token)).Err(); err != nil {
		return fmt.Errorf("failed to delete suggestion session: %w", err)
	}
	return nil
}
