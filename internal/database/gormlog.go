package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mandeell/Mandel-Blog-Complete/internal/middleware"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// slowQuery is the latency above which a statement is logged at warn.
const slowQuery = 200 * time.Millisecond

// queryLogger routes GORM output through the request-aware slog logger, so
// SQL lines carry the same request_id as the handler that issued them.
type queryLogger struct {
	level logger.LogLevel
	slow  time.Duration
}

// NewGormLogger returns the GORM logger shared by every connection. Only
// failing and slow statements are logged.
func NewGormLogger() logger.Interface {
	return queryLogger{level: logger.Warn, slow: slowQuery}
}

func (q queryLogger) LogMode(level logger.LogLevel) logger.Interface {
	q.level = level
	return q
}

func (q queryLogger) Info(ctx context.Context, msg string, args ...interface{}) {
	q.printf(ctx, logger.Info, slog.LevelInfo, msg, args)
}

func (q queryLogger) Warn(ctx context.Context, msg string, args ...interface{}) {
	q.printf(ctx, logger.Warn, slog.LevelWarn, msg, args)
}

func (q queryLogger) Error(ctx context.Context, msg string, args ...interface{}) {
	q.printf(ctx, logger.Error, slog.LevelError, msg, args)
}

func (q queryLogger) printf(ctx context.Context, need logger.LogLevel, lvl slog.Level, msg string, args []interface{}) {
	if q.level < need {
		return
	}
	middleware.Logger.Log(ctx, lvl, fmt.Sprintf(msg, args...))
}

func (q queryLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if q.level == logger.Silent {
		return
	}
	took := time.Since(begin)

	var (
		lvl slog.Level
		msg string
	)
	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound) && q.level >= logger.Error:
		lvl, msg = slog.LevelError, "sql failed"
	case q.slow > 0 && took > q.slow && q.level >= logger.Warn:
		lvl, msg = slog.LevelWarn, "sql slow"
	case q.level >= logger.Info:
		lvl, msg = slog.LevelDebug, "sql"
	default:
		return
	}

	stmt, rows := fc()
	attrs := []any{slog.String("sql", stmt), slog.Int64("rows", rows), slog.Duration("took", took)}
	if err != nil && lvl == slog.LevelError {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	middleware.Logger.Log(ctx, lvl, msg, attrs...)
}
