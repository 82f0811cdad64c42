// Package server wires the blog's HTTP routes, page rendering and request guards.
package server

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mandeell/Mandel-Blog-Complete/internal/bootstrap"
	"github.com/mandeell/Mandel-Blog-Complete/internal/cache"
	"github.com/mandeell/Mandel-Blog-Complete/internal/config"
	"github.com/mandeell/Mandel-Blog-Complete/internal/featureflags"
	"github.com/mandeell/Mandel-Blog-Complete/internal/middleware"
	"github.com/mandeell/Mandel-Blog-Complete/internal/notifications"
	"github.com/mandeell/Mandel-Blog-Complete/internal/repository"
	"github.com/mandeell/Mandel-Blog-Complete/internal/service"
	"github.com/mandeell/Mandel-Blog-Complete/web"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/encryptcookie"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/gofiber/template/html/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const (
	sessionCookieName = "blog_session"
	csrfCookieName    = "csrf_"
	csrfFormField     = "csrf_token"
	csrfContextKey    = "csrf"
)

// Server owns the blog's dependencies. Its methods are the route handlers.
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	views          *html.Engine
	sessions       *session.Store
	userRepo       repository.UserRepository
	postRepo       repository.PostRepository
	commentRepo    repository.CommentRepository
	featureFlags   *featureflags.Manager
	userService    *service.UserService
	postService    *service.PostService
	commentService *service.CommentService
	contactService *service.ContactService
}

// NewServer connects to the configured database, Redis and SMTP relay.
func NewServer(cfg *config.Config) (*Server, error) {
	db, redisClient, err := bootstrap.InitRuntime(cfg)
	if err != nil {
		return nil, err
	}

	timeout := time.Duration(cfg.SMTPTimeoutSeconds) * time.Second
	sender := notifications.NewSMTPSender(notifications.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		Timeout:  timeout,
	})
	notifier := notifications.NewNotifier(sender, cfg.ContactToEmail, timeout)

	return NewServerWithDeps(cfg, db, redisClient, notifier)
}

// NewServerWithDeps assembles a Server around connections opened elsewhere.
// redisClient may be nil, in which case sessions live in memory and rate limits fail open.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, notifier service.ContactNotifier) (*Server, error) {
	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics("blog"),
		views:          newViewEngine(),
		userRepo:       repository.NewUserRepository(db),
		postRepo:       repository.NewPostRepository(db),
		commentRepo:    repository.NewCommentRepository(db),
		featureFlags:   featureflags.NewManager(cfg.FeatureFlags),
	}
	server.sessions = server.newSessionStore()

	server.userService = service.NewUserService(server.userRepo)
	server.postService = service.NewPostService(server.postRepo)
	server.commentService = service.NewCommentService(server.commentRepo, server.postRepo)
	server.contactService = service.NewContactService(notifier)

	if flags := server.featureFlags.String(); flags != "" {
		middleware.Logger.Info("feature flags", slog.String("flags", flags))
	}
	return server, nil
}

func (s *Server) newSessionStore() *session.Store {
	ttl := time.Duration(s.config.SessionTTLHours) * time.Hour
	if ttl <= 0 {
		ttl = cache.DefaultSessionTTL
	}

	cfg := session.Config{
		Expiration:     ttl,
		KeyLookup:      "cookie:" + sessionCookieName,
		CookieHTTPOnly: true,
		CookieSameSite: fiber.CookieSameSiteLaxMode,
		CookieSecure:   s.config.IsProduction(),
		KeyGenerator:   uuid.NewString,
	}
	if s.redis != nil {
		cfg.Storage = cache.NewSessionStorage(s.redis)
	}
	return session.New(cfg)
}

// cookieKey derives the AES-256 key encryptcookie expects from SECRET_KEY.
func cookieKey(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return base64.StdEncoding.EncodeToString(sum[:])
}

// NewApp builds the Fiber application with the full middleware chain and routes.
func (s *Server) NewApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "Mandel's Blog",
		Views:        s.views,
		ViewsLayout:  "layouts/main",
		ErrorHandler: s.handleError,
	})
	s.app = app

	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	return app
}

// SetupMiddleware installs the middleware every request passes through.
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New(), requestid.New(), middleware.TracingMiddleware(), middleware.ContextMiddleware())

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers. Post images and the stylesheet CDN are cross-origin.
	app.Use(helmet.New(helmet.Config{
		CrossOriginEmbedderPolicy: "unsafe-none",
		CrossOriginResourcePolicy: "cross-origin",
	}))

	// Needs the request id placed in the context above.
	app.Use(middleware.StructuredLogger())

	app.Use(middleware.RequireHTTPS(s.config.IsProduction()))

	// Coarse per-IP flood guard. The per-form budgets live in middleware.RateLimit.
	app.Use(limiter.New(limiter.Config{
		Max:               100,
		Expiration:        time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		Next: func(c *fiber.Ctx) bool {
			return s.config.IsTest() || strings.HasPrefix(c.Path(), "/static/")
		},
		LimitReached: func(*fiber.Ctx) error {
			return fiber.NewError(fiber.StatusTooManyRequests, "Too many requests, please try again later.")
		},
	}))
}

// pageMiddleware is the per-page chain: cookie encryption, session, CSRF and identity.
// Health, metrics and static routes are registered before it and never touch the session.
func (s *Server) pageMiddleware() []fiber.Handler {
	return []fiber.Handler{
		encryptcookie.New(encryptcookie.Config{
			Key:    cookieKey(s.config.SecretKey),
			Except: []string{csrfCookieName},
		}),
		s.SessionMiddleware(),
		s.csrfMiddleware(),
		s.LoadIdentity(),
	}
}

func (s *Server) csrfMiddleware() fiber.Handler {
	cfg := csrf.Config{
		KeyLookup:      "form:" + csrfFormField,
		CookieName:     csrfCookieName,
		CookieSameSite: fiber.CookieSameSiteLaxMode,
		CookieSecure:   s.config.IsProduction(),
		CookieHTTPOnly: true,
		Expiration:     time.Hour,
		ContextKey:     csrfContextKey,
		Next: func(c *fiber.Ctx) bool {
			return s.config.IsTest()
		},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			middleware.Logger.WarnContext(c.UserContext(), "csrf check failed",
				slog.String("path", c.Path()),
				slog.String("error", err.Error()),
			)
			return fiber.ErrForbidden
		},
	}
	if s.redis != nil {
		cfg.Storage = cache.NewCSRFStorage(s.redis)
	}
	return csrf.New(cfg)
}

// SetupRoutes registers probes, metrics and static files ahead of the
// session-backed page group.
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	app.Use("/static", filesystem.New(filesystem.Config{
		Root:   http.FS(web.Static()),
		MaxAge: 3600,
	}))

	pages := app.Group("", s.pageMiddleware()...)

	pages.Get("/", s.Index)
	pages.Get("/about", s.About)

	pages.Get("/post/:id", s.ShowPost)
	pages.Post("/post/:id", s.RequireAuthenticated(),
		middleware.RateLimit(s.redis, middleware.CommentLimit), s.CreateComment)

	pages.Get("/register", s.registrationGate(), s.RegisterPage)
	pages.Post("/register", s.registrationGate(),
		middleware.RateLimit(s.redis, middleware.RegisterLimit), s.Register)
	pages.Get("/login", s.LoginPage)
	pages.Post("/login", middleware.RateLimit(s.redis, middleware.LoginLimit), s.Login)
	pages.Get("/logout", s.Logout)

	pages.Get("/add_new_post", s.RequireAuthenticated(), s.RequireAgent(), s.NewPostPage)
	pages.Post("/add_new_post", s.RequireAuthenticated(), s.RequireAgent(), s.CreatePost)
	pages.Get("/edit_post/:id", s.RequireAuthenticated(), s.RequireAgent(), s.EditPostPage)
	pages.Post("/edit_post/:id", s.RequireAuthenticated(), s.RequireAgent(), s.UpdatePost)
	pages.Get("/delete/:id", s.RequireAuthenticated(), s.RequireAdmin(), s.DeletePost)
	pages.Get("/delete_comment/:id", s.RequireAdmin(), s.DeleteComment)

	pages.Get("/contact", s.ContactPage)
	pages.Post("/contact", middleware.RateLimit(s.redis, middleware.ContactLimit), s.SubmitContact)

	pages.Get("/admin/monitor", s.RequireAdmin(), monitor.New(monitor.Config{
		Title: "Mandel's Blog Metrics",
	}))
}

// Start builds the app and blocks serving on the configured port.
func (s *Server) Start() error {
	app := s.NewApp()
	middleware.Logger.Info("listening", slog.String("port", s.config.Port))
	return app.Listen(":" + s.config.Port)
}

// Shutdown drains in-flight requests, then releases the database and Redis
// connections. Every step runs even if an earlier one fails.
func (s *Server) Shutdown(ctx context.Context) error {
	var errs []error
	if s.app != nil {
		errs = append(errs, s.app.ShutdownWithContext(ctx))
	}
	sqlDB, err := s.db.DB()
	if err == nil {
		err = sqlDB.Close()
	}
	errs = append(errs, err)
	if s.redis != nil {
		errs = append(errs, s.redis.Close())
	}

	if err := errors.Join(errs...); err != nil {
		middleware.Logger.Error("shutdown finished with errors", slog.String("error", err.Error()))
		return err
	}
	middleware.Logger.Info("shutdown complete")
	return nil
}
