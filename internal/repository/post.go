package repository

import (
	"context"
	"errors"

	"github.com/mandeell/Mandel-Blog-Complete/internal/models"

	"gorm.io/gorm"
)

// ErrDuplicateTitle is the conflict message for a reused post title.
const ErrDuplicateTitle = "A post with this title already exists."

// PostRepository defines persistence operations for posts.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	List(ctx context.Context) ([]models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id uint) error
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository returns a new PostRepository implementation.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) (err error) {
	ctx, end := startOp(ctx, r.db, "Create", "posts")
	defer func() { end(err) }()

	if err = r.db.WithContext(ctx).Omit("User", "Comments").Create(post).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError(ErrDuplicateTitle, err)
		}
		return models.NewInternalError(err)
	}
	return nil
}

// GetByID loads a post with its author. Comments are read separately
// through CommentRepository.ListByPost.
func (r *postRepository) GetByID(ctx context.Context, id uint) (post *models.Post, err error) {
	ctx, end := startOp(ctx, r.db, "GetByID", "posts")
	defer func() { end(err) }()

	var p models.Post
	err = r.db.WithContext(ctx).
		Preload("User").
		First(&p, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &p, nil
}

// List returns every post, newest id first.
func (r *postRepository) List(ctx context.Context) (posts []models.Post, err error) {
	ctx, end := startOp(ctx, r.db, "List", "posts")
	defer func() { end(err) }()

	if err = r.db.WithContext(ctx).Order("id desc").Find(&posts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

// Update writes the editable columns only; date and owner are never touched.
func (r *postRepository) Update(ctx context.Context, post *models.Post) (err error) {
	ctx, end := startOp(ctx, r.db, "Update", "posts")
	defer func() { end(err) }()

	res := r.db.WithContext(ctx).
		Model(&models.Post{ID: post.ID}).
		Select("title", "subtitle", "body", "author", "img_url", "updated_at").
		Omit("User", "Comments").
		Updates(post)
	if res.Error != nil {
		if isUniqueConstraintError(res.Error) {
			return models.NewConflictError(ErrDuplicateTitle, res.Error)
		}
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Post", post.ID)
	}
	return nil
}

// Delete removes the post and its comments in one transaction.
func (r *postRepository) Delete(ctx context.Context, id uint) (err error) {
	ctx, end := startOp(ctx, r.db, "Delete", "posts")
	defer func() { end(err) }()

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return models.NewInternalError(err)
		}
		res := tx.Delete(&models.Post{}, id)
		if res.Error != nil {
			return models.NewInternalError(res.Error)
		}
		if res.RowsAffected == 0 {
			return models.NewNotFoundError("Post", id)
		}
		return nil
	})
}
