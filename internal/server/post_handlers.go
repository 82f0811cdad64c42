package server

import (
	"fmt"

	"github.com/mandeell/Mandel-Blog-Complete/internal/auth"
	"github.com/mandeell/Mandel-Blog-Complete/internal/models"
	"github.com/mandeell/Mandel-Blog-Complete/internal/repository"
	"github.com/mandeell/Mandel-Blog-Complete/internal/service"
	"github.com/mandeell/Mandel-Blog-Complete/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// Index lists every post, newest first.
func (s *Server) Index(c *fiber.Ctx) error {
	posts, err := s.postService.ListPosts(c.UserContext())
	if err != nil {
		return err
	}
	return s.render(c, fiber.StatusOK, "index", fiber.Map{"Posts": posts})
}

func (s *Server) About(c *fiber.Ctx) error {
	return s.render(c, fiber.StatusOK, "about", fiber.Map{"Title": "About"})
}

func (s *Server) ShowPost(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	return s.renderPost(c, fiber.StatusOK, id, &validation.CommentForm{}, nil)
}

func (s *Server) renderPost(c *fiber.Ctx, status int, id uint, form *validation.CommentForm, errs validation.FieldErrors) error {
	post, err := s.postService.GetPost(c.UserContext(), id)
	if err != nil {
		return err
	}
	if post.Comments, err = s.commentService.ListComments(c.UserContext(), id); err != nil {
		return err
	}
	data := fiber.Map{
		"Title": post.Title,
		"Post":  post,
		"Form":  form,
	}
	if errs != nil {
		data["Errors"] = errs
	}
	return s.render(c, status, "post", data)
}

func (s *Server) NewPostPage(c *fiber.Ctx) error {
	form := &validation.PostForm{Author: auth.Current(c).Name}
	return s.renderPostForm(c, fiber.StatusOK, form, nil, 0)
}

func (s *Server) CreatePost(c *fiber.Ctx) error {
	form, errs, err := parsePostForm(c)
	if err != nil {
		return err
	}
	if len(errs) > 0 {
		return s.renderPostForm(c, fiber.StatusUnprocessableEntity, form, errs, 0)
	}

	_, err = s.postService.CreatePost(c.UserContext(), auth.Current(c), postInput(form))
	if models.HasCode(err, models.CodeConflict) {
		return s.renderPostForm(c, fiber.StatusUnprocessableEntity, form, titleTaken(), 0)
	}
	if err != nil {
		return err
	}
	return c.Redirect("/")
}

func (s *Server) EditPostPage(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	post, err := s.postService.GetPost(c.UserContext(), id)
	if err != nil {
		return err
	}

	form := &validation.PostForm{
		Title:    post.Title,
		Subtitle: post.Subtitle,
		Author:   post.AuthorName,
		ImageURL: post.ImageURL,
		Body:     post.Body,
	}
	return s.renderPostForm(c, fiber.StatusOK, form, nil, post.ID)
}

// UpdatePost applies an edit. Any agent may edit any post.
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	form, errs, err := parsePostForm(c)
	if err != nil {
		return err
	}
	if len(errs) > 0 {
		return s.renderPostForm(c, fiber.StatusUnprocessableEntity, form, errs, id)
	}

	post, err := s.postService.UpdatePost(c.UserContext(), id, postInput(form))
	if models.HasCode(err, models.CodeConflict) {
		return s.renderPostForm(c, fiber.StatusUnprocessableEntity, form, titleTaken(), id)
	}
	if err != nil {
		return err
	}
	return c.Redirect(fmt.Sprintf("/post/%d", post.ID))
}

func (s *Server) DeletePost(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := s.postService.DeletePost(c.UserContext(), id); err != nil {
		return err
	}
	return c.Redirect("/")
}

// renderPostForm shows the create form when id is 0 and the edit form otherwise.
func (s *Server) renderPostForm(c *fiber.Ctx, status int, form *validation.PostForm, errs validation.FieldErrors, id uint) error {
	data := fiber.Map{
		"Title":  "New Post",
		"Form":   form,
		"IsEdit": id != 0,
		"Action": "/add_new_post",
	}
	if id != 0 {
		data["Title"] = "Edit Post"
		data["Action"] = fmt.Sprintf("/edit_post/%d", id)
	}
	if errs != nil {
		data["Errors"] = errs
	}
	return s.render(c, status, "make-post", data)
}

func parsePostForm(c *fiber.Ctx) (*validation.PostForm, validation.FieldErrors, error) {
	form := new(validation.PostForm)
	if err := c.BodyParser(form); err != nil {
		return nil, nil, fiber.ErrBadRequest
	}
	form.Normalize()
	return form, validation.Struct(form), nil
}

func postInput(form *validation.PostForm) service.PostInput {
	return service.PostInput{
		Title:    form.Title,
		Subtitle: form.Subtitle,
		Author:   form.Author,
		ImageURL: form.ImageURL,
		Body:     form.Body,
	}
}

func titleTaken() validation.FieldErrors {
	errs := validation.FieldErrors{}
	errs.Add("title", repository.ErrDuplicateTitle)
	return errs
}
