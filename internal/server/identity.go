package server

import (
	"context"
	"log/slog"

	"github.com/mandeell/Mandel-Blog-Complete/internal/auth"
	"github.com/mandeell/Mandel-Blog-Complete/internal/featureflags"
	"github.com/mandeell/Mandel-Blog-Complete/internal/middleware"
	"github.com/mandeell/Mandel-Blog-Complete/internal/models"
	"github.com/mandeell/Mandel-Blog-Complete/internal/observability"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"go.opentelemetry.io/otel/attribute"
)

const localsSession = "session"

// SessionMiddleware loads the session once per request and commits it after the
// handler chain returns. Fiber releases a session on Save, so handlers must not
// save it themselves. When the store cannot be read the request continues
// without a session and is served as anonymous.
func (s *Server) SessionMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := s.sessions.Get(c)
		if err != nil {
			middleware.Logger.WarnContext(c.UserContext(), "session store unavailable, serving anonymously",
				slog.String("error", err.Error()),
			)
			return c.Next()
		}
		c.Locals(localsSession, sess)

		err = c.Next()

		c.Locals(localsSession, nil)
		if serr := commitSession(sess); serr != nil && err == nil {
			err = serr
		}
		return err
	}
}

// commitSession persists sess. An empty session is not stored: a fresh one is
// dropped and an existing one is destroyed together with its cookie.
func commitSession(sess *session.Session) error {
	if len(sess.Keys()) == 0 {
		if sess.Fresh() {
			return nil
		}
		return sess.Destroy()
	}
	return sess.Save()
}

func sessionFrom(c *fiber.Ctx) *session.Session {
	sess, _ := c.Locals(localsSession).(*session.Session)
	return sess
}

// flash queues a message for the next rendered page.
func flash(c *fiber.Ctx, category, message string) {
	if sess := sessionFrom(c); sess != nil {
		auth.AddFlash(sess, category, message)
	}
}

// LoadIdentity resolves the session's account and exposes it to handlers, the
// request context and the request span.
func (s *Server) LoadIdentity() fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess := sessionFrom(c)
		if sess == nil {
			return c.Next()
		}
		id := auth.AccountID(sess)
		if id == 0 {
			return c.Next()
		}

		user, err := s.userService.GetUserByID(c.UserContext(), id)
		if err != nil {
			if models.HasCode(err, models.CodeNotFound) {
				sess.Delete(auth.SessionAccountKey)
				return c.Next()
			}
			return err
		}

		c.Locals(auth.LocalsAccount, user)
		c.Locals("userID", user.ID)
		ctx := auth.WithAccount(c.UserContext(), user)
		ctx = context.WithValue(ctx, middleware.UserIDKey, user.ID)
		c.SetUserContext(ctx)
		observability.AddTraceAttributesToContext(ctx, attribute.Int64("user.id", int64(user.ID)))

		return c.Next()
	}
}

// RequireAuthenticated sends anonymous visitors to the login page.
func (s *Server) RequireAuthenticated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if auth.Current(c) == nil {
			flash(c, auth.FlashInfo, "Please log in to access this page.")
			return c.Redirect("/login")
		}
		return c.Next()
	}
}

// RequireAgent rejects accounts without the agent flag with 403.
func (s *Server) RequireAgent() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !auth.IsAgent(auth.Current(c)) {
			return models.NewForbiddenError("Agent access required")
		}
		return c.Next()
	}
}

// RequireAdmin rejects accounts without the admin flag with 403.
func (s *Server) RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !auth.IsAdmin(auth.Current(c)) {
			return models.NewForbiddenError("Admin access required")
		}
		return c.Next()
	}
}

// registrationGate closes /register to non-admins while admin_only_registration is on.
func (s *Server) registrationGate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if s.featureFlags.On(featureflags.AdminOnlyRegistration) && !auth.IsAdmin(auth.Current(c)) {
			return models.NewForbiddenError("Registration is closed")
		}
		return c.Next()
	}
}
