package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/mandeell/Mandel-Blog-Complete/internal/models"

	"gorm.io/gorm"
)

// UserRepository defines persistence operations for accounts.
type UserRepository interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	SetRole(ctx context.Context, id uint, role models.Role, enabled bool) error
	List(ctx context.Context) ([]models.User, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a new UserRepository implementation.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (user *models.User, err error) {
	ctx, end := startOp(ctx, r.db, "GetByID", "users")
	defer func() { end(err) }()

	var u models.User
	if err = r.db.WithContext(ctx).First(&u, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("User", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &u, nil
}

// GetByEmail matches the email exactly as stored. A missing account is (nil, nil).
func (r *userRepository) GetByEmail(ctx context.Context, email string) (user *models.User, err error) {
	ctx, end := startOp(ctx, r.db, "GetByEmail", "users")
	defer func() { end(err) }()

	var u models.User
	if err = r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &u, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) (err error) {
	ctx, end := startOp(ctx, r.db, "Create", "users")
	defer func() { end(err) }()

	if err = r.db.WithContext(ctx).Create(user).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("Email already registered", models.ErrEmailTaken)
		}
		return models.NewInternalError(err)
	}
	return nil
}

// SetRole flips a single permission flag, leaving the other untouched.
func (r *userRepository) SetRole(ctx context.Context, id uint, role models.Role, enabled bool) (err error) {
	if !role.Valid() {
		return models.NewValidationError(fmt.Sprintf("unknown role %q", role))
	}

	ctx, end := startOp(ctx, r.db, "SetRole", "users")
	defer func() { end(err) }()

	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update(string(role), enabled)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("User", id)
	}
	return nil
}

func (r *userRepository) List(ctx context.Context) (users []models.User, err error) {
	ctx, end := startOp(ctx, r.db, "List", "users")
	defer func() { end(err) }()

	if err = r.db.WithContext(ctx).Order("id asc").Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}
