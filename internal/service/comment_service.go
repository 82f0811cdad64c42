package service

import (
	"context"

	"github.com/mandeell/Mandel-Blog-Complete/internal/models"
	"github.com/mandeell/Mandel-Blog-Complete/internal/observability"
	"github.com/mandeell/Mandel-Blog-Complete/internal/repository"
)

type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
}

func NewCommentService(commentRepo repository.CommentRepository, postRepo repository.PostRepository) *CommentService {
	return &CommentService{commentRepo: commentRepo, postRepo: postRepo}
}

// CreateComment attaches text to postID as author.
func (s *CommentService) CreateComment(ctx context.Context, author *models.User, postID uint, text string) (*models.Comment, error) {
	if author == nil {
		return nil, models.NewUnauthorizedError("Please log in to access this page.")
	}
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		Text:       sanitizeHTML(text),
		AuthorName: author.Name,
		UserID:     author.ID,
		PostID:     postID,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	observability.RecordContentEvent("comment", "create")
	return comment, nil
}

// ListComments returns the comments shown under a post, oldest first.
func (s *CommentService) ListComments(ctx context.Context, postID uint) ([]models.Comment, error) {
	return s.commentRepo.ListByPost(ctx, postID)
}

// DeleteComment removes the comment and returns it so callers can return to its post.
func (s *CommentService) DeleteComment(ctx context.Context, id uint) (*models.Comment, error) {
	comment, err := s.commentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.commentRepo.Delete(ctx, id); err != nil {
		return nil, err
	}

	observability.RecordContentEvent("comment", "delete")
	return comment, nil
}
