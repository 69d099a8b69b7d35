// Package server contains the HTTP and WebSocket handlers of the blog interaction API.
package server

import (
	"context"
	"errors"
	"fmt"
	"time"

	_ "github.com/namgiho96/giho-blog/docs" // swagger docs
	"github.com/namgiho96/giho-blog/internal/auth"
	"github.com/namgiho96/giho-blog/internal/config"
	"github.com/namgiho96/giho-blog/internal/content"
	"github.com/namgiho96/giho-blog/internal/database"
	"github.com/namgiho96/giho-blog/internal/featureflags"
	"github.com/namgiho96/giho-blog/internal/middleware"
	"github.com/namgiho96/giho-blog/internal/models"
	"github.com/namgiho96/giho-blog/internal/notifications"
	"github.com/namgiho96/giho-blog/internal/redisstore"
	"github.com/namgiho96/giho-blog/internal/repository"
	"github.com/namgiho96/giho-blog/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// OAuthProvider runs the sign-in code exchange against an identity provider.
type OAuthProvider interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*models.AuthUser, error)
}

// Deps are the already-initialized collaborators of a Server. Nil DB and Redis
// are valid: the placeholder stores and in-process event fan-out take over.
type Deps struct {
	DB      *gorm.DB
	Replica *gorm.DB
	Redis   *redis.Client
	// Stores overrides the store selection derived from DB.
	Stores  *service.Stores
	Library *content.Library
	// OAuth overrides the GitHub provider built from config.
	OAuth   OAuthProvider
}

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	replica        *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	shutdownCtx    context.Context
	shutdownFn     context.CancelFunc
	stores         service.Stores
	library        *content.Library
	issuer         *auth.Issuer
	authenticator  *auth.Authenticator
	oauth          OAuthProvider
	notifier       *notifications.Notifier
	hub            *notifications.Hub
	featureFlags   *featureflags.Flags
}

// NewServer connects the configured database and Redis and builds a Server.
// Without DB credentials the placeholder stores are used.
func NewServer(ctx context.Context, cfg *config.Config) (*Server, error) {
	deps := Deps{}

	if cfg.StoreConfigured() {
		db, err := database.Connect(cfg)
		if err != nil {
			return nil, fmt.Errorf("database connection failed: %w", err)
		}
		replica, err := database.ConnectReplica(cfg)
		if err != nil {
			return nil, fmt.Errorf("read replica connection failed: %w", err)
		}
		deps.DB, deps.Replica = db, replica
	} else {
		middleware.Logger.Warn("database not configured, serving placeholder interaction data")
	}

	redisClient, err := redisstore.Connect(ctx, cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}
	deps.Redis = redisClient

	library, err := content.Load(cfg.ContentDir)
	if err != nil {
		return nil, fmt.Errorf("load content: %w", err)
	}
	deps.Library = library

	return NewServerWithDeps(cfg, deps), nil
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
func NewServerWithDeps(cfg *config.Config, deps Deps) *Server {
	s := &Server{
		config:         cfg,
		db:             deps.DB,
		replica:        deps.Replica,
		redis:          deps.Redis,
		promMiddleware: middleware.InitMetrics("giho-blog-api"),
		library:        deps.Library,
		featureFlags:   featureflags.Parse(cfg.FeatureFlags),
		issuer:         auth.NewIssuer(cfg.JWTSecret, time.Duration(cfg.SessionTTLHours)*time.Hour),
		oauth:          deps.OAuth,
	}

	switch {
	case deps.Stores != nil:
		s.stores = *deps.Stores
	case deps.DB != nil:
		// Counters are read from the primary; the replica serves comment lists.
		s.stores = service.NewLiveStores(
			repository.NewCounterRepository(deps.DB),
			repository.NewCommentRepository(deps.DB, deps.Replica),
		)
	default:
		s.stores = service.NewPlaceholderStores()
	}

	if s.library == nil {
		s.library = content.Empty()
	}

	var revocations auth.Revocations
	if deps.Redis != nil {
		revocations = redisstore.NewTokenBlocklist(deps.Redis)
	}
	s.authenticator = auth.NewAuthenticator(s.issuer, revocations)

	if s.oauth == nil && cfg.AuthConfigured() {
		s.oauth = auth.NewGitHubProvider(cfg.GitHubClientID, cfg.GitHubClientSecret,
			cfg.SiteURL+"/auth/callback", auth.GitHubOptions{})
	}

	s.notifier = notifications.NewNotifier(deps.Redis)
	s.hub = notifications.NewHub(s.notifier)

	return s
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	app.Use(middleware.TracingMiddleware())

	// Identity must be resolved before the context middleware copies it for logging.
	app.Use(middleware.OptionalAuth(s.authenticator, s.config.SessionCookieName))
	app.Use(middleware.ContextMiddleware())

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers
	app.Use(helmet.New())

	app.Use(middleware.StructuredLogger())

	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:3000"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, Upgrade, Connection, Sec-WebSocket-Key, Sec-WebSocket-Version",
		AllowMethods:     "GET,POST,PATCH,DELETE,OPTIONS",
		AllowCredentials: origins != "*",
		MaxAge:           86400,
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	api := app.Group("/api")
	api.Get("/swagger/*", swagger.HandlerDefault)

	posts := api.Group("/posts")
	posts.Get("/", s.ListPosts)
	// Specific /:slug/:resource routes before the generic /:slug route
	posts.Get("/:slug/likes", s.GetLikes)
	posts.Post("/:slug/likes", s.ToggleLike)
	posts.Get("/:slug/views", s.GetViews)
	posts.Post("/:slug/views", s.RecordView)
	posts.Get("/:slug/comments", s.ListComments)
	posts.Post("/:slug/comments", s.CreateComment)
	posts.Get("/:slug", s.GetPost)

	comments := api.Group("/comments")
	comments.Patch("/:id", s.UpdateComment)
	comments.Delete("/:id", s.DeleteComment)

	api.Get("/auth/session", s.GetSession)
	api.Get("/ws/posts/:slug", s.requireLiveUpdates, s.PostEventsHandler())

	authRoutes := app.Group("/auth")
	authRoutes.Get("/login", s.Login)
	authRoutes.Get("/callback", s.AuthCallback)
	authRoutes.Post("/logout", s.Logout)
}

// App returns the Fiber app, building it on first use.
func (s *Server) App() *fiber.App {
	if s.app != nil {
		return s.app
	}
	app := fiber.New(fiber.Config{
		AppName:      "giho-blog API",
		ErrorHandler: s.errorHandler,
	})
	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	s.app = app
	return app
}

func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(models.ErrorResponse{Error: fe.Message})
	}
	middleware.Logger.ErrorContext(c.UserContext(), "unhandled error", "error", err)
	return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
}

// Start wires Redis fan-out and serves HTTP until the app is shut down.
func (s *Server) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	s.shutdownCtx = ctx
	s.shutdownFn = cancel

	app := s.App()

	if s.notifier.Enabled() {
		if err := s.hub.StartWiring(s.shutdownCtx); err != nil {
			middleware.Logger.Error("failed to start interaction fan-out", "error", err)
		}
	}

	middleware.Logger.Info("server starting",
		"port", s.config.Port,
		"live_store", s.stores.Live,
		"posts", s.library.Len(),
	)
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.shutdownFn != nil {
		s.shutdownFn()
	}

	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			middleware.Logger.Error("error shutting down HTTP server", "error", err)
		}
	}

	if err := s.hub.Shutdown(ctx); err != nil {
		middleware.Logger.Error("error shutting down websocket hub", "error", err)
	}

	for _, db := range []*gorm.DB{s.db, s.replica} {
		if db == nil {
			continue
		}
		if sqlDB, err := db.DB(); err == nil {
			if cerr := sqlDB.Close(); cerr != nil {
				middleware.Logger.Error("error closing sql DB", "error", cerr)
			}
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			middleware.Logger.Error("error closing redis", "error", rerr)
		}
	}

	middleware.Logger.Info("server shutdown complete")
	return nil
}
