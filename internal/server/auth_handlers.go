package server

import (
	"errors"
	"fmt"

	"github.com/mandeell/Mandel-Blog-Complete/internal/auth"
	"github.com/mandeell/Mandel-Blog-Complete/internal/models"
	"github.com/mandeell/Mandel-Blog-Complete/internal/service"
	"github.com/mandeell/Mandel-Blog-Complete/internal/validation"

	"github.com/gofiber/fiber/v2"
)

func (s *Server) RegisterPage(c *fiber.Ctx) error {
	return s.render(c, fiber.StatusOK, "register", fiber.Map{
		"Title": "Register",
		"Form":  &validation.RegisterForm{},
	})
}

// Register creates an account. Anonymous registrants are signed in as the new
// account; an admin registering someone else stays signed in as themselves.
func (s *Server) Register(c *fiber.Ctx) error {
	form := new(validation.RegisterForm)
	if err := c.BodyParser(form); err != nil {
		return fiber.ErrBadRequest
	}
	form.Normalize()
	form.Agent = formBool(c, "agent")
	form.Admin = formBool(c, "admin")

	if errs := validation.Struct(form); len(errs) > 0 {
		return s.render(c, fiber.StatusUnprocessableEntity, "register", fiber.Map{
			"Title":  "Register",
			"Form":   form,
			"Errors": errs,
		})
	}

	actor := auth.Current(c)
	user, err := s.userService.Register(c.UserContext(), service.RegisterInput{
		Name:     form.Name,
		Email:    form.Email,
		Phone:    form.Phone,
		Password: form.Password,
		Agent:    form.Agent,
		Admin:    form.Admin,
		Actor:    actor,
	})
	if err != nil {
		if service.IsEmailTaken(err) {
			flash(c, auth.FlashInfo, "Email already registered. Login instead.")
			return c.Redirect("/login")
		}
		return err
	}

	if auth.IsAdmin(actor) {
		flash(c, auth.FlashSuccess, fmt.Sprintf("Account created for %s.", user.Email))
		return c.Redirect("/")
	}

	if err := auth.Login(sessionFrom(c), user.ID); err != nil {
		return err
	}
	return c.Redirect("/")
}

func (s *Server) LoginPage(c *fiber.Ctx) error {
	return s.render(c, fiber.StatusOK, "login", fiber.Map{
		"Title": "Log In",
		"Form":  &validation.LoginForm{},
	})
}

func (s *Server) Login(c *fiber.Ctx) error {
	form := new(validation.LoginForm)
	if err := c.BodyParser(form); err != nil {
		return fiber.ErrBadRequest
	}
	form.Normalize()

	if errs := validation.Struct(form); len(errs) > 0 {
		return s.render(c, fiber.StatusUnprocessableEntity, "login", fiber.Map{
			"Title":  "Log In",
			"Form":   form,
			"Errors": errs,
		})
	}

	user, err := s.userService.Authenticate(c.UserContext(), form.Email, form.Password)
	switch {
	case errors.Is(err, models.ErrUserNotFound):
		flash(c, auth.FlashWarning, "User not found.")
		return c.Redirect("/login")
	case errors.Is(err, models.ErrIncorrectPassword):
		flash(c, auth.FlashDanger, "Incorrect Password. Please try again")
		return c.Redirect("/login")
	case err != nil:
		return err
	}

	if err := auth.Login(sessionFrom(c), user.ID); err != nil {
		return err
	}
	return c.Redirect("/")
}

// Logout drops the whole session, including its server-side record.
func (s *Server) Logout(c *fiber.Ctx) error {
	if sess := sessionFrom(c); sess != nil {
		if err := sess.Destroy(); err != nil {
			return err
		}
	}
	return c.Redirect("/")
}
