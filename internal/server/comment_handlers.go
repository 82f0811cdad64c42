package server

import (
	"fmt"

	"github.com/mandeell/Mandel-Blog-Complete/internal/auth"
	"github.com/mandeell/Mandel-Blog-Complete/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// CreateComment posts a comment on the post being viewed and returns to it.
func (s *Server) CreateComment(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	form := new(validation.CommentForm)
	if err := c.BodyParser(form); err != nil {
		return fiber.ErrBadRequest
	}
	form.Normalize()
	if errs := validation.Struct(form); len(errs) > 0 {
		return s.renderPost(c, fiber.StatusUnprocessableEntity, id, form, errs)
	}

	if _, err := s.commentService.CreateComment(c.UserContext(), auth.Current(c), id, form.Text); err != nil {
		return err
	}
	return c.Redirect(fmt.Sprintf("/post/%d", id))
}

// DeleteComment removes a comment and returns to its post.
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	comment, err := s.commentService.DeleteComment(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.Redirect(fmt.Sprintf("/post/%d", comment.PostID))
}
