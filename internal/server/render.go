package server

import (
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mandeell/Mandel-Blog-Complete/internal/auth"
	"github.com/mandeell/Mandel-Blog-Complete/internal/middleware"
	"github.com/mandeell/Mandel-Blog-Complete/internal/models"
	"github.com/mandeell/Mandel-Blog-Complete/internal/validation"
	"github.com/mandeell/Mandel-Blog-Complete/web"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/gofiber/template/html/v2"
)

func newViewEngine() *html.Engine {
	engine := html.NewFileSystem(http.FS(web.Templates()), ".html")
	// Post bodies and comments are sanitized before they are stored.
	engine.AddFunc("safe", func(s string) template.HTML {
		return template.HTML(s) // #nosec G203
	})
	engine.AddFunc("fieldError", func(errs validation.FieldErrors, field string) string {
		return errs.First(field)
	})
	engine.AddFunc("gravatar", gravatarURL)
	return engine
}

func gravatarURL(email string) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email)))) // #nosec G401
	return fmt.Sprintf("https://www.gravatar.com/avatar/%s?s=100&d=retro&r=g", hex.EncodeToString(sum[:]))
}

// render executes a page template inside the main layout. It adds the current
// identity, the CSRF token and any queued flashes, which are consumed here.
func (s *Server) render(c *fiber.Ctx, status int, name string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}

	user := auth.Current(c)
	data["CurrentUser"] = user
	data["IsAuthenticated"] = user != nil
	data["IsAgent"] = auth.IsAgent(user)
	data["IsAdmin"] = auth.IsAdmin(user)
	data["Year"] = time.Now().Year()
	if _, ok := data["Errors"]; !ok {
		data["Errors"] = validation.FieldErrors{}
	}
	if sess := sessionFrom(c); sess != nil {
		data["Flashes"] = auth.PopFlashes(sess)
	}
	if token, ok := c.Locals(csrfContextKey).(string); ok {
		data["CSRFToken"] = token
	}

	return c.Status(status).Render(name, data)
}

// handleError is the Fiber ErrorHandler. Every failure becomes an HTML error page.
func (s *Server) handleError(c *fiber.Ctx, err error) error {
	status := models.StatusFor(err)

	if status == fiber.StatusUnauthorized {
		return c.Redirect("/login")
	}
	if status >= fiber.StatusInternalServerError {
		middleware.Logger.ErrorContext(c.UserContext(), "rendering error page",
			slog.Int("status", status),
			slog.String("path", c.Path()),
			slog.String("error", err.Error()),
		)
	}

	var page string
	switch status {
	case fiber.StatusNotFound:
		page = "404"
	case fiber.StatusForbidden:
		page = "403"
	case fiber.StatusTooManyRequests:
		page = "429"
	default:
		page = "500"
	}

	data := fiber.Map{
		"Title":  utils.StatusMessage(status),
		"Status": status,
	}
	if rerr := s.render(c, status, page, data); rerr != nil {
		middleware.Logger.ErrorContext(c.UserContext(), "error page failed to render",
			slog.String("error", errors.Join(err, rerr).Error()),
		)
		c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
		return c.Status(status).SendString(utils.StatusMessage(status))
	}
	return nil
}
