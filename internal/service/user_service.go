// Package service holds the business rules between the HTTP handlers and the repositories.
package service

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/mandeell/Mandel-Blog-Complete/internal/auth"
	"github.com/mandeell/Mandel-Blog-Complete/internal/models"
	"github.com/mandeell/Mandel-Blog-Complete/internal/observability"
	"github.com/mandeell/Mandel-Blog-Complete/internal/repository"
)

type UserService struct {
	userRepo repository.UserRepository
}

// RegisterInput is a validated registration. Actor is the signed-in account
// submitting the form, or nil for anonymous sign-up.
type RegisterInput struct {
	Name     string
	Email    string
	Phone    string
	Password string
	Agent    bool
	Admin    bool
	Actor    *models.User
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// Register creates an account. Role flags are honored only when an admin registers
// someone; otherwise both are forced off. A taken email returns models.ErrEmailTaken.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	existing, err := s.userRepo.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewConflictError("Email already registered", models.ErrEmailTaken)
	}

	hashed, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	byAdmin := auth.IsAdmin(in.Actor)
	user := &models.User{
		Name:     in.Name,
		Email:    in.Email,
		Phone:    in.Phone,
		Password: hashed,
		Agent:    byAdmin && in.Agent,
		Admin:    byAdmin && in.Admin,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	observability.Registrations.WithLabelValues(strconv.FormatBool(byAdmin)).Inc()
	return user, nil
}

// Authenticate checks credentials, returning models.ErrUserNotFound or
// models.ErrIncorrectPassword on failure.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	ctx, span := observability.StartServiceSpan(ctx, "UserService", "Authenticate")
	user, err := s.userRepo.GetByEmail(ctx, email)
	observability.EndSpan(span, err)
	if err != nil {
		return nil, err
	}
	if user == nil {
		observability.LoginAttempts.WithLabelValues("unknown_email").Inc()
		return nil, models.ErrUserNotFound
	}
	if !auth.CheckPassword(user.Password, password) {
		observability.LoginAttempts.WithLabelValues("bad_password").Inc()
		return nil, models.ErrIncorrectPassword
	}
	observability.LoginAttempts.WithLabelValues("success").Inc()
	return user, nil
}

func (s *UserService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *UserService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.userRepo.List(ctx)
}

// SetRoleByEmail grants or revokes one role on the account with email.
func (s *UserService) SetRoleByEmail(ctx context.Context, email string, role models.Role, enabled bool) (*models.User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, models.NewValidationError("email is required")
	}
	if !role.Valid() {
		return nil, models.NewValidationError("unknown role " + string(role))
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewNotFoundError("User", email)
	}
	if err := s.userRepo.SetRole(ctx, user.ID, role, enabled); err != nil {
		return nil, err
	}
	return s.userRepo.GetByID(ctx, user.ID)
}

// IsEmailTaken reports whether err means the email is already registered.
func IsEmailTaken(err error) bool {
	return errors.Is(err, models.ErrEmailTaken)
}
