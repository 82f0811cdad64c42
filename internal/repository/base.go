// Package repository implements the data access layer for the application.
package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/mandeell/Mandel-Blog-Complete/internal/observability"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// pgUniqueViolation is the PostgreSQL SQLSTATE for unique_violation.
const pgUniqueViolation = "23505"

// startOp opens a repository span and latency observation; call the returned func when done.
func startOp(ctx context.Context, db *gorm.DB, method, table string) (context.Context, func(error)) {
	ctx, span := observability.StartRepositorySpan(ctx, db.Dialector.Name(), method, table)
	done := observability.TrackQuery(method, table)
	return ctx, func(err error) {
		done()
		if isNotFound(err) {
			err = nil
		}
		observability.EndSpan(span, err)
	}
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// isUniqueConstraintError checks if a DB error is a unique constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, pgUniqueViolation)
}
