package server

import (
	"github.com/mandeell/Mandel-Blog-Complete/internal/auth"
	"github.com/mandeell/Mandel-Blog-Complete/internal/notifications"
	"github.com/mandeell/Mandel-Blog-Complete/internal/validation"

	"github.com/gofiber/fiber/v2"
)

func (s *Server) ContactPage(c *fiber.Ctx) error {
	return s.render(c, fiber.StatusOK, "contact", fiber.Map{
		"Title": "Contact",
		"Form":  &validation.ContactForm{},
	})
}

// SubmitContact mails the message to the site owner. Delivery failures are
// reported with a flash; the visitor is redirected back either way.
func (s *Server) SubmitContact(c *fiber.Ctx) error {
	form := new(validation.ContactForm)
	if err := c.BodyParser(form); err != nil {
		return fiber.ErrBadRequest
	}
	form.Normalize()

	if errs := validation.Struct(form); len(errs) > 0 {
		flash(c, auth.FlashDanger, "Please correct the errors in the form.")
		return s.render(c, fiber.StatusUnprocessableEntity, "contact", fiber.Map{
			"Title":  "Contact",
			"Form":   form,
			"Errors": errs,
		})
	}

	err := s.contactService.Submit(c.UserContext(), notifications.Contact{
		Name:    form.Name,
		Email:   form.Email,
		Phone:   form.Phone,
		Message: form.Message,
	})
	if err != nil {
		flash(c, auth.FlashDanger, "Failed to send message. Please try again later.")
	} else {
		flash(c, auth.FlashSuccess, "Message sent successfully!")
	}
	return c.Redirect("/contact")
}
