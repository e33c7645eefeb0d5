package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/campusdesk/campusdesk/core"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisConfig holds Redis connection settings for the session store.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
	TTL      time.Duration
}

// RedisStore implements core.SessionStore on Redis. Sessions are stored as
// JSON values under a prefixed key with a TTL, so idle conversations expire
// in the backend without the routing core needing an expiry policy.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

var _ core.SessionStore = (*RedisStore)(nil)

// NewRedisStore creates a Redis-backed session store.
func NewRedisStore(cfg *RedisConfig) *RedisStore {
	if cfg == nil {
		cfg = &RedisConfig{
			Addr:   "localhost:6379",
			Prefix: "campusdesk:session:",
			TTL:    24 * time.Hour,
		}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return &RedisStore{client: client, prefix: cfg.Prefix, ttl: cfg.TTL}
}

// NewRedisStoreFromClient wraps an existing client, e.g. one shared with a cache.
func NewRedisStoreFromClient(client *redis.Client, prefix string, ttl time.Duration) *RedisStore {
	if prefix == "" {
		prefix = "campusdesk:session:"
	}
	return &RedisStore{client: client, prefix: prefix, ttl: ttl}
}

// Load fetches and decodes a session, returning (nil, nil) when absent.
func (s *RedisStore) Load(ctx context.Context, id string) (*core.Session, error) {
	raw, err := s.client.Get(ctx, s.key(id)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var sess core.Session
	if err := json.Unmarshal([]byte(raw), &sess); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	return &sess, nil
}

// Save encodes and persists a session snapshot, refreshing its TTL.
func (s *RedisStore) Save(ctx context.Context, sess *core.Session) error {
	if sess == nil || sess.ID == "" {
		return fmt.Errorf("session must have an id")
	}

	raw, err := json.Marshal(sess.Clone())
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := s.client.Set(ctx, s.key(sess.ID), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// NewID returns a fresh opaque session identifier.
func (s *RedisStore) NewID() string { return uuid.NewString() }

func (s *RedisStore) key(id string) string { return s.prefix + id }
