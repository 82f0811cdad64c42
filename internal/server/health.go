package server

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

const readinessTimeout = 5 * time.Second

// probe reports one dependency's state: "healthy", "unhealthy" or "disabled".
type probe func(ctx context.Context) string

// LivenessCheck answers as long as the process can serve requests.
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "up", "time": time.Now()})
}

// ReadinessCheck pings the database and, when configured, Redis. Any
// unhealthy dependency turns the whole response into a 503.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), readinessTimeout)
	defer cancel()

	probes := map[string]probe{
		"database": s.probeDatabase,
		"redis":    s.probeRedis,
	}
	checks := fiber.Map{}
	overall, code := "healthy", fiber.StatusOK
	for name, run := range probes {
		state := run(ctx)
		checks[name] = state
		if state == "unhealthy" {
			overall, code = "unhealthy", fiber.StatusServiceUnavailable
		}
	}

	return c.Status(code).JSON(fiber.Map{
		"status": overall,
		"checks": checks,
		"time":   time.Now(),
	})
}

func (s *Server) probeDatabase(ctx context.Context) string {
	sqlDB, err := s.db.DB()
	if err != nil || sqlDB.PingContext(ctx) != nil {
		return "unhealthy"
	}
	return "healthy"
}

func (s *Server) probeRedis(ctx context.Context) string {
	switch {
	case s.redis == nil:
		return "disabled"
	case s.redis.Ping(ctx).Err() != nil:
		return "unhealthy"
	default:
		return "healthy"
	}
}
