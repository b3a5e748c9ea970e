package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"trading-journal/internal/core/domain"
)

const sessionKeyPrefix = "session:"

// RedisSessionRepository implements domain.SessionRepository on Redis.
// Sessions are stored as JSON values whose key TTL mirrors the session
// expiry, so Redis evicts expired sessions on its own; the lazy cleanup in
// the session manager then only ever sees a miss.
type RedisSessionRepository struct {
	client *redis.Client
}

// NewRedisSessionRepository creates a Redis-backed session repository.
func NewRedisSessionRepository(client *redis.Client) *RedisSessionRepository {
	return &RedisSessionRepository{client: client}
}

type redisSession struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

func sessionKey(id string) string {
	return sessionKeyPrefix + id
}

// Create inserts a new session.
func (r *RedisSessionRepository) Create(ctx context.Context, s domain.SessionRow) error {
	ttl := time.Until(s.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("session expiry %v is in the past", s.ExpiresAt)
	}

	data, err := json.Marshal(redisSession{ID: s.ID, UserID: s.UserID, ExpiresAt: s.ExpiresAt})
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	return r.client.Set(ctx, sessionKey(s.ID), data, ttl).Err()
}

// Get looks up a session by id.
// Returns (nil, nil) when the id does not match any session.
func (r *RedisSessionRepository) Get(ctx context.Context, id string) (*domain.SessionRow, error) {
	val, err := r.client.Get(ctx, sessionKey(id)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var s redisSession
	if err := json.Unmarshal([]byte(val), &s); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}

	return &domain.SessionRow{ID: s.ID, UserID: s.UserID, ExpiresAt: s.ExpiresAt}, nil
}

// UpdateExpiry extends the session's expiry. Updating an absent session is
// a no-op.
func (r *RedisSessionRepository) UpdateExpiry(ctx context.Context, id string, expiresAt time.Time) error {
	cur, err := r.Get(ctx, id)
	if err != nil || cur == nil {
		return err
	}

	cur.ExpiresAt = expiresAt
	return r.Create(ctx, *cur)
}

// Delete removes the session. Deleting an absent session is a no-op.
func (r *RedisSessionRepository) Delete(ctx context.Context, id string) error {
	return r.client.Del(ctx, sessionKey(id)).Err()
}
