package service

import (
	"context"
	"time"

	"github.com/mandeell/Mandel-Blog-Complete/internal/models"
	"github.com/mandeell/Mandel-Blog-Complete/internal/observability"
	"github.com/mandeell/Mandel-Blog-Complete/internal/repository"
)

type PostService struct {
	postRepo repository.PostRepository
	now      func() time.Time
}

// PostInput is a validated post form. Author is the byline shown on the post.
type PostInput struct {
	Title    string
	Subtitle string
	Author   string
	ImageURL string
	Body     string
}

func NewPostService(postRepo repository.PostRepository) *PostService {
	return &PostService{postRepo: postRepo, now: time.Now}
}

func (s *PostService) ListPosts(ctx context.Context) ([]models.Post, error) {
	return s.postRepo.List(ctx)
}

func (s *PostService) GetPost(ctx context.Context, id uint) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, id)
}

// CreatePost stores a post owned by owner with today's date.
func (s *PostService) CreatePost(ctx context.Context, owner *models.User, in PostInput) (*models.Post, error) {
	if owner == nil {
		return nil, models.NewUnauthorizedError("Please log in to access this page.")
	}

	post := &models.Post{
		Title:      in.Title,
		Subtitle:   in.Subtitle,
		Date:       models.FormatPostDate(s.now().UTC()),
		Body:       sanitizeHTML(in.Body),
		AuthorName: in.Author,
		ImageURL:   in.ImageURL,
		UserID:     owner.ID,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	observability.RecordContentEvent("post", "create")
	return post, nil
}

// UpdatePost changes the editable fields. Any agent may edit any post; the
// date and the owning account stay as they were.
func (s *PostService) UpdatePost(ctx context.Context, id uint, in PostInput) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	post.Title = in.Title
	post.Subtitle = in.Subtitle
	post.AuthorName = in.Author
	post.ImageURL = in.ImageURL
	post.Body = sanitizeHTML(in.Body)

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}

	observability.RecordContentEvent("post", "update")
	return post, nil
}

// DeletePost removes the post together with its comments.
func (s *PostService) DeletePost(ctx context.Context, id uint) error {
	if err := s.postRepo.Delete(ctx, id); err != nil {
		return err
	}
	observability.RecordContentEvent("post", "delete")
	return nil
}
