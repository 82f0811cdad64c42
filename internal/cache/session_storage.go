package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mandeell/Mandel-Blog-Complete/internal/observability"

	"github.com/redis/go-redis/v9"
)

const (
	// SessionKeyPrefix namespaces server-side session records.
	SessionKeyPrefix = "session:%s"
	// CSRFKeyPrefix namespaces CSRF token records.
	CSRFKeyPrefix = "csrf:%s"
	// DefaultSessionTTL applies when the session middleware passes no expiry.
	DefaultSessionTTL = 7 * 24 * time.Hour
	opTimeout         = 3 * time.Second
)

// SessionKey returns the Redis key holding the session with the given ID.
func SessionKey(id string) string {
	return fmt.Sprintf(SessionKeyPrefix, id)
}

// SessionStorage adapts a Redis client to fiber.Storage so the session and
// CSRF middleware can keep their state server-side.
type SessionStorage struct {
	rdb    *redis.Client
	keyFmt string
}

// NewSessionStorage returns a fiber.Storage for session records backed by rdb.
func NewSessionStorage(rdb *redis.Client) *SessionStorage {
	return &SessionStorage{rdb: rdb, keyFmt: SessionKeyPrefix}
}

// NewCSRFStorage returns a fiber.Storage for CSRF tokens backed by rdb.
func NewCSRFStorage(rdb *redis.Client) *SessionStorage {
	return &SessionStorage{rdb: rdb, keyFmt: CSRFKeyPrefix}
}

func (s *SessionStorage) key(id string) string {
	return fmt.Sprintf(s.keyFmt, id)
}

// Get returns nil, nil when the key does not exist.
func (s *SessionStorage) Get(key string) ([]byte, error) {
	if key == "" {
		return nil, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	ctx, span := observability.StartRedisSpan(ctx, "session.get")

	val, err := s.rdb.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		val, err = nil, nil
	}
	observability.EndSpan(span, err)
	return val, err
}

func (s *SessionStorage) Set(key string, val []byte, exp time.Duration) error {
	if key == "" || len(val) == 0 {
		return nil
	}
	if exp <= 0 {
		exp = DefaultSessionTTL
	}
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	ctx, span := observability.StartRedisSpan(ctx, "session.set")

	err := s.rdb.Set(ctx, s.key(key), val, exp).Err()
	observability.EndSpan(span, err)
	return err
}

func (s *SessionStorage) Delete(key string) error {
	if key == "" {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	return s.rdb.Del(ctx, s.key(key)).Err()
}

// Reset removes every record under this storage's prefix, leaving other keys untouched.
func (s *SessionStorage) Reset() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	iter := s.rdb.Scan(ctx, 0, s.key("*"), 100).Iterator()
	for iter.Next(ctx) {
		if err := s.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

// Close is a no-op: the client is shared and closed by its owner.
func (s *SessionStorage) Close() error {
	return nil
}
