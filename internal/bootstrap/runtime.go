// Package bootstrap wires the runtime dependencies shared by the server and the CLI tools.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mandeell/Mandel-Blog-Complete/internal/cache"
	"github.com/mandeell/Mandel-Blog-Complete/internal/config"
	"github.com/mandeell/Mandel-Blog-Complete/internal/database"
	"github.com/mandeell/Mandel-Blog-Complete/internal/middleware"
	"github.com/mandeell/Mandel-Blog-Complete/internal/models"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// InitRuntime connects to the database and Redis and ensures the bootstrap admin.
// The Redis client is nil when Redis is not configured or unreachable.
func InitRuntime(cfg *config.Config) (*gorm.DB, *redis.Client, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	r := cache.Connect(cfg.RedisURL)

	if err := EnsureBootstrapAdmin(context.Background(), cfg, db); err != nil {
		return nil, nil, fmt.Errorf("failed to bootstrap admin account: %w", err)
	}

	return db, r, nil
}

// EnsureBootstrapAdmin creates the configured admin account, or grants both
// roles to it when it already exists. It is a no-op without BOOTSTRAP_ADMIN_EMAIL.
func EnsureBootstrapAdmin(ctx context.Context, cfg *config.Config, db *gorm.DB) error {
	if cfg == nil || db == nil {
		return nil
	}
	email := strings.TrimSpace(cfg.BootstrapAdminEmail)
	if email == "" {
		return nil
	}

	name := strings.TrimSpace(cfg.BootstrapAdminName)
	if name == "" {
		name = "Administrator"
	}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		findErr := tx.Where("email = ?", email).First(&user).Error
		switch {
		case errors.Is(findErr, gorm.ErrRecordNotFound):
			if cfg.BootstrapAdminPassword == "" {
				return fmt.Errorf("BOOTSTRAP_ADMIN_PASSWORD must be set to create %s", email)
			}
			hashed, err := bcrypt.GenerateFromPassword([]byte(cfg.BootstrapAdminPassword), bcrypt.DefaultCost)
			if err != nil {
				return fmt.Errorf("hash bootstrap password: %w", err)
			}
			user = models.User{
				Email:    email,
				Password: string(hashed),
				Name:     name,
				Phone:    "",
				Agent:    true,
				Admin:    true,
			}
			return tx.Create(&user).Error
		case findErr != nil:
			return findErr
		default:
			return tx.Model(&models.User{}).Where("id = ?", user.ID).
				Updates(map[string]any{"agent": true, "admin": true}).Error
		}
	})
	if err != nil {
		return err
	}

	middleware.Logger.Info("bootstrap admin ensured", slog.String("email", email))
	return nil
}
