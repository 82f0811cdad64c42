package database

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mandeell/Mandel-Blog-Complete/internal/config"
	"github.com/mandeell/Mandel-Blog-Complete/internal/middleware"

	"gorm.io/gorm"
)

// Schema modes selected with DB_SCHEMA_MODE.
const (
	SchemaModeHybrid = "hybrid"
	SchemaModeSQL    = "sql"
	SchemaModeAuto   = "auto"
)

// SchemaPlan is what ApplySchema will do for a given config and driver.
type SchemaPlan struct {
	Mode        string
	Driver      string
	RunSQL      bool
	AutoMigrate bool
}

// SchemaStatus adds the migration bookkeeping to a plan.
type SchemaStatus struct {
	SchemaPlan
	Environment       string
	AppliedVersions   []int
	PendingMigrations []Migration
}

// PlanSchema decides between SQL migrations and GORM AutoMigrate.
//
// The embedded SQL is PostgreSQL DDL, so any other driver gets AutoMigrate
// regardless of mode. On PostgreSQL, hybrid runs both outside production-like
// environments, and auto mode is refused in production unless
// DB_AUTOMIGRATE_ALLOW_DESTRUCTIVE is set.
func PlanSchema(cfg *config.Config, driver string) (SchemaPlan, error) {
	plan := SchemaPlan{Mode: strings.ToLower(strings.TrimSpace(cfg.DBSchemaMode)), Driver: driver}
	if plan.Mode == "" {
		plan.Mode = SchemaModeHybrid
	}
	switch plan.Mode {
	case SchemaModeHybrid, SchemaModeSQL, SchemaModeAuto:
	default:
		return plan, fmt.Errorf("unsupported DB_SCHEMA_MODE %q", plan.Mode)
	}

	if driver != "postgres" {
		plan.AutoMigrate = true
		return plan, nil
	}

	prodLike := isProdLike(cfg.Env)
	switch plan.Mode {
	case SchemaModeSQL:
		plan.RunSQL = true
	case SchemaModeHybrid:
		plan.RunSQL, plan.AutoMigrate = true, !prodLike
	case SchemaModeAuto:
		if prodLike && !cfg.DBAutoMigrateAllowDestructive {
			return plan, fmt.Errorf("refusing DB_SCHEMA_MODE=auto in %q without DB_AUTOMIGRATE_ALLOW_DESTRUCTIVE=true", cfg.Env)
		}
		plan.AutoMigrate = true
	}
	return plan, nil
}

func isProdLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "production", "prod", "staging", "stage":
		return true
	}
	return false
}

// ApplySchema brings the blog tables up to date according to DB_SCHEMA_MODE.
func ApplySchema(ctx context.Context, db *gorm.DB, cfg *config.Config) error {
	plan, err := PlanSchema(cfg, db.Dialector.Name())
	if err != nil {
		return err
	}

	if plan.RunSQL {
		if err := RunMigrations(ctx, db); err != nil {
			return fmt.Errorf("run sql migrations: %w", err)
		}
	}
	if plan.AutoMigrate {
		middleware.Logger.Info("running GORM AutoMigrate",
			slog.String("mode", plan.Mode),
			slog.String("driver", plan.Driver),
			slog.String("env", cfg.Env),
		)
		if err := db.WithContext(ctx).AutoMigrate(PersistentModels()...); err != nil {
			return fmt.Errorf("auto-migrate: %w", err)
		}
	}
	return nil
}

// GetSchemaStatus reports the plan and, when SQL migrations are in play,
// which versions are applied and pending.
func GetSchemaStatus(ctx context.Context, db *gorm.DB, cfg *config.Config) (*SchemaStatus, error) {
	plan, err := PlanSchema(cfg, db.Dialector.Name())
	if err != nil {
		return nil, err
	}
	status := &SchemaStatus{SchemaPlan: plan, Environment: cfg.Env}
	if !plan.RunSQL {
		return status, nil
	}

	migrator, err := NewMigrator(db)
	if err != nil {
		return nil, err
	}
	if status.AppliedVersions, err = migrator.Applied(ctx); err != nil {
		return nil, err
	}
	if status.PendingMigrations, err = migrator.Pending(ctx); err != nil {
		return nil, err
	}
	return status, nil
}
