// Package cache provides the Redis client and Redis-backed storage used for sessions and rate limits.
package cache

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/mandeell/Mandel-Blog-Complete/internal/middleware"
	"github.com/mandeell/Mandel-Blog-Complete/internal/observability"

	"github.com/redis/go-redis/v9"
)

const pingTimeout = 5 * time.Second

// Connect returns a pinged client for addr, which may be host:port or a
// redis:// URL. Redis is optional for the blog: an empty address, a bad URL
// or a failed ping is logged and yields nil.
func Connect(addr string) *redis.Client {
	opts, err := options(addr)
	if err != nil {
		middleware.Logger.Warn("redis disabled: invalid REDIS_URL", slog.String("error", err.Error()))
		return nil
	}
	if opts == nil {
		middleware.Logger.Info("redis disabled: REDIS_URL is empty")
		return nil
	}

	rdb := redis.NewClient(opts)
	rdb.AddHook(errorCounter{})

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		middleware.Logger.Warn("redis disabled: ping failed",
			slog.String("addr", opts.Addr),
			slog.String("error", err.Error()),
		)
		_ = rdb.Close()
		return nil
	}

	middleware.Logger.Info("redis connected", slog.String("addr", opts.Addr))
	return rdb
}

// options returns nil, nil for an empty address.
func options(addr string) (*redis.Options, error) {
	addr = strings.TrimSpace(addr)
	switch {
	case addr == "":
		return nil, nil
	case strings.Contains(addr, "://"):
		return redis.ParseURL(addr)
	default:
		return &redis.Options{Addr: addr}, nil
	}
}

// errorCounter feeds blog_redis_errors_total. A cache miss is not an error.
type errorCounter struct{}

func (errorCounter) DialHook(next redis.DialHook) redis.DialHook { return next }

func (errorCounter) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		err := next(ctx, cmd)
		countError(cmd.Name(), err)
		return err
	}
}

func (errorCounter) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		err := next(ctx, cmds)
		countError("pipeline", err)
		return err
	}
}

func countError(command string, err error) {
	if err != nil && !errors.Is(err, redis.Nil) {
		observability.RedisErrors.WithLabelValues(command).Inc()
	}
}
