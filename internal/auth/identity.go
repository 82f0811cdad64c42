package auth

import (
	"context"

	"github.com/mandeell/Mandel-Blog-Complete/internal/models"

	"github.com/gofiber/fiber/v2"
)

// LocalsAccount is the Fiber locals key holding the current *models.User.
const LocalsAccount = "account"

type accountKey struct{}

// WithAccount returns ctx carrying the current account.
func WithAccount(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, accountKey{}, user)
}

// AccountFrom returns the account carried by ctx, if any.
func AccountFrom(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(accountKey{}).(*models.User)
	return user, ok && user != nil
}

// Current returns the signed-in account for the request, or nil when anonymous.
func Current(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(LocalsAccount).(*models.User)
	return user
}

// IsAgent reports whether user holds the agent flag. Admin does not imply agent.
func IsAgent(user *models.User) bool {
	return user != nil && user.Agent
}

// IsAdmin reports whether user holds the admin flag.
func IsAdmin(user *models.User) bool {
	return user != nil && user.Admin
}
