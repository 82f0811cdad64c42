package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// Limit is a fixed-window request budget for one named action.
type Limit struct {
	Name   string
	Max    int
	Window time.Duration
}

// Budgets for the form posts that create accounts, sessions, mail and comments.
var (
	LoginLimit    = Limit{Name: "login", Max: 10, Window: 5 * time.Minute}
	RegisterLimit = Limit{Name: "register", Max: 5, Window: 10 * time.Minute}
	ContactLimit  = Limit{Name: "contact", Max: 5, Window: 10 * time.Minute}
	CommentLimit  = Limit{Name: "comment", Max: 10, Window: time.Minute}
)

var errNoRateLimitStore = errors.New("rate limit store is not configured")

// Key is the Redis counter for caller under l.
func (l Limit) Key(caller string) string {
	return "rl:" + l.Name + ":" + caller
}

// Allow counts one hit for caller and reports whether it fits the budget.
// The window starts at the first hit and is not extended by later ones.
func (l Limit) Allow(ctx context.Context, rdb *redis.Client, caller string) (bool, error) {
	if rdb == nil {
		return false, errNoRateLimitStore
	}
	key := l.Key(caller)
	var hits *redis.IntCmd
	_, err := rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		hits = p.Incr(ctx, key)
		p.ExpireNX(ctx, key, l.Window)
		return nil
	})
	if err != nil {
		return false, err
	}
	return hits.Val() <= int64(l.Max), nil
}

// rateLimitsBypassed keeps local and test runs unthrottled.
func rateLimitsBypassed() bool {
	switch os.Getenv("APP_ENV") {
	case "", "development", "test":
		return true
	}
	return false
}

// RateLimit enforces l per signed-in account, or per client IP for visitors.
// A missing or failing Redis lets the request through.
func RateLimit(rdb *redis.Client, l Limit) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if rateLimitsBypassed() {
			return c.Next()
		}

		caller := "ip:" + c.IP()
		if uid, ok := c.Locals("userID").(uint); ok && uid != 0 {
			caller = fmt.Sprintf("user:%d", uid)
		}

		allowed, err := l.Allow(c.UserContext(), rdb, caller)
		if err != nil {
			if !errors.Is(err, errNoRateLimitStore) {
				Logger.WarnContext(c.UserContext(), "rate limit check failed, allowing request",
					slog.String("limit", l.Name),
					slog.String("error", err.Error()),
				)
			}
			return c.Next()
		}
		if !allowed {
			return fiber.NewError(fiber.StatusTooManyRequests, "Too many requests, please try again later.")
		}
		return c.Next()
	}
}
