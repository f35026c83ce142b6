// Package session provides cookie-session management backed by Redis.
//
// The browser cookie carries only an opaque session id; the authenticated
// user id lives server-side in the session payload. When Redis is not
// available the store falls back to the middleware's in-memory storage,
// which is acceptable for development only.
package session

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/redis/go-redis/v9"
)

// Duration is how long an issued session stays valid.
const Duration = 24 * time.Hour

// UserIDKey is the session key holding the authenticated user's id.
const UserIDKey = "userID"

// FlashKey is the session key holding the pending one-time flash message.
const FlashKey = "flash"

// NewStore builds the session store. A nil Redis client selects the in-memory
// fallback storage.
func NewStore(rdb *redis.Client) *session.Store {
	cfg := session.Config{
		Expiration:     Duration,
		KeyLookup:      "cookie:blog_session",
		CookieHTTPOnly: true,
		CookieSameSite: "Lax",
	}
	if rdb != nil {
		cfg.Storage = NewRedisStorage(rdb)
	}
	return session.New(cfg)
}

const keyPrefix = "sess:"

// RedisStorage implements fiber.Storage on top of go-redis so sessions
// survive process restarts.
type RedisStorage struct {
	rdb *redis.Client
}

// NewRedisStorage wraps an established Redis client.
func NewRedisStorage(rdb *redis.Client) *RedisStorage {
	return &RedisStorage{rdb: rdb}
}

func (s *RedisStorage) Get(key string) ([]byte, error) {
	val, err := s.rdb.Get(context.Background(), keyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	return val, err
}

func (s *RedisStorage) Set(key string, val []byte, exp time.Duration) error {
	return s.rdb.Set(context.Background(), keyPrefix+key, val, exp).Err()
}

func (s *RedisStorage) Delete(key string) error {
	return s.rdb.Del(context.Background(), keyPrefix+key).Err()
}

// Reset removes every stored session but leaves unrelated keys in the same
// Redis database alone.
func (s *RedisStorage) Reset() error {
	ctx := context.Background()
	iter := s.rdb.Scan(ctx, 0, keyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := s.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

func (s *RedisStorage) Close() error {
	return nil
}
