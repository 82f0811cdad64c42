package repository

import (
	"context"
	"errors"

	"github.com/mandeell/Mandel-Blog-Complete/internal/models"

	"gorm.io/gorm"
)

// CommentRepository defines interface for comment operations
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id uint) (*models.Comment, error)
	ListByPost(ctx context.Context, postID uint) ([]models.Comment, error)
	Delete(ctx context.Context, id uint) error
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) (err error) {
	ctx, end := startOp(ctx, r.db, "Create", "comments")
	defer func() { end(err) }()

	if err = r.db.WithContext(ctx).Omit("User").Create(comment).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *commentRepository) GetByID(ctx context.Context, id uint) (comment *models.Comment, err error) {
	ctx, end := startOp(ctx, r.db, "GetByID", "comments")
	defer func() { end(err) }()

	var c models.Comment
	if err = r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Comment", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &c, nil
}

// ListByPost returns a post's comments oldest first, each with its author.
func (r *commentRepository) ListByPost(ctx context.Context, postID uint) (comments []models.Comment, err error) {
	ctx, end := startOp(ctx, r.db, "ListByPost", "comments")
	defer func() { end(err) }()

	err = r.db.WithContext(ctx).Preload("User").Where("post_id = ?", postID).Order("id asc").Find(&comments).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return comments, nil
}

func (r *commentRepository) Delete(ctx context.Context, id uint) (err error) {
	ctx, end := startOp(ctx, r.db, "Delete", "comments")
	defer func() { end(err) }()

	res := r.db.WithContext(ctx).Delete(&models.Comment{}, id)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Comment", id)
	}
	return nil
}
