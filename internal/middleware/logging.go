// Package middleware provides the request pipeline shared by every route:
// structured logging, request context, rate limiting, tracing and transport policy.
package middleware

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/mandeell/Mandel-Blog-Complete/internal/models"

	"github.com/gofiber/fiber/v2"
)

// Logger is the process-wide structured logger. Log with the *Context
// methods so request fields are attached.
var Logger *slog.Logger

type contextKey string

// Request-scoped values copied onto every record logged with that context.
const (
	RequestIDKey contextKey = "request_id"
	UserIDKey    contextKey = "user_id"
	TraceIDKey   contextKey = "trace_id"
)

var contextKeys = []contextKey{RequestIDKey, UserIDKey, TraceIDKey}

// ctxHandler copies the request-scoped values found in ctx onto each record.
type ctxHandler struct {
	slog.Handler
}

func (h ctxHandler) Handle(ctx context.Context, r slog.Record) error {
	for _, key := range contextKeys {
		if v := ctx.Value(key); v != nil {
			r.AddAttrs(slog.Any(string(key), v))
		}
	}
	return h.Handler.Handle(ctx, r)
}

func (h ctxHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return ctxHandler{h.Handler.WithAttrs(attrs)}
}

func (h ctxHandler) WithGroup(name string) slog.Handler {
	return ctxHandler{h.Handler.WithGroup(name)}
}

func init() {
	ConfigureLogger(os.Stdout, os.Getenv("APP_ENV"), os.Getenv("LOG_LEVEL"))
}

// ConfigureLogger replaces Logger. Production logs are JSON, anything else is text.
func ConfigureLogger(w io.Writer, env, level string) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil {
		lvl = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: lvl}

	var handler slog.Handler = slog.NewTextHandler(w, opts)
	if env = strings.ToLower(env); env == "production" || env == "prod" {
		handler = slog.NewJSONHandler(w, opts)
	}
	Logger = slog.New(ctxHandler{handler})
}

// ContextMiddleware moves the request id and trace id from Fiber locals into
// the request context. The identity middleware adds the user id later.
func ContextMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		if rid, ok := c.Locals("requestid").(string); ok {
			ctx = context.WithValue(ctx, RequestIDKey, rid)
		}
		if tid, ok := c.Locals("traceID").(string); ok {
			ctx = context.WithValue(ctx, TraceIDKey, tid)
		}
		c.SetUserContext(ctx)
		return c.Next()
	}
}

// StructuredLogger writes one line per request once the handler chain has run.
// Server errors log at error level and client errors at warn.
func StructuredLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		// The app error handler has not run yet, so derive the status it will render.
		status := c.Response().StatusCode()
		if err != nil {
			status = models.StatusFor(err)
		}

		attrs := []any{
			slog.Int("status", status),
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.String("ip", c.IP()),
			slog.Duration("latency", time.Since(start)),
		}
		if err != nil {
			attrs = append(attrs, slog.String("error", err.Error()))
		}

		level := slog.LevelInfo
		switch {
		case status >= fiber.StatusInternalServerError:
			level = slog.LevelError
		case status >= fiber.StatusBadRequest:
			level = slog.LevelWarn
		}
		Logger.Log(c.UserContext(), level, "request", attrs...)
		return err
	}
}
