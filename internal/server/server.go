// Package server contains the HTTP handlers for the application's API endpoints.
package server

import (
	"context"
	"fmt"
	"log"
	"time"

	"guildboard/internal/auth"
	"guildboard/internal/cache"
	"guildboard/internal/config"
	"guildboard/internal/database"
	"guildboard/internal/mail"
	"guildboard/internal/middleware"
	"guildboard/internal/models"
	"guildboard/internal/notify"
	"guildboard/internal/repository"
	"guildboard/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	asynqClient    *asynq.Client

	userRepo     repository.UserRepository
	profileRepo  repository.ProfileRepository
	categoryRepo repository.CategoryRepository
	postRepo     repository.PostRepository
	responseRepo repository.ResponseRepository

	mailer     mail.Mailer
	google     *auth.GoogleProvider
	dispatcher *notify.Dispatcher

	postService     *service.PostService
	responseService *service.ResponseService
	categoryService *service.CategoryService
	profileService  *service.ProfileService
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)
	redisClient := cache.GetClient()

	var asynqClient *asynq.Client
	if opt, err := notify.RedisConnOpt(cfg.RedisURL); err == nil {
		asynqClient = asynq.NewClient(opt)
	} else {
		log.Printf("WARNING: task queue disabled, cannot parse REDIS_URL: %v", err)
	}

	mailer := mail.NewSMTPMailer(cfg)

	return newServer(cfg, db, redisClient, asynqClient, mailer), nil
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis and
// optionally performs explicit seeding.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, mailer mail.Mailer) *Server {
	return newServer(cfg, db, redisClient, nil, mailer)
}

func newServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, asynqClient *asynq.Client, mailer mail.Mailer) *Server {
	userRepo := repository.NewUserRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	postRepo := repository.NewPostRepository(db)
	responseRepo := repository.NewResponseRepository(db)

	prom := middleware.InitMetrics("guildboard-api")

	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: prom,
		asynqClient:    asynqClient,
		userRepo:       userRepo,
		profileRepo:    profileRepo,
		categoryRepo:   categoryRepo,
		postRepo:       postRepo,
		responseRepo:   responseRepo,
		mailer:         mailer,
		google: auth.NewGoogleProvider(auth.GoogleConfig{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURL,
		}),
	}

	var enqueuer notify.Enqueuer
	if asynqClient != nil {
		enqueuer = asynqClient
	}
	server.dispatcher = notify.NewDispatcher(enqueuer, mailer, categoryRepo, postRepo, cfg.SiteDomain)

	server.postService = service.NewPostService(postRepo, profileRepo, categoryRepo, userRepo, server.dispatcher)
	server.responseService = service.NewResponseService(responseRepo, postRepo, profileRepo, userRepo, mailer)
	server.categoryService = service.NewCategoryService(categoryRepo)
	server.profileService = service.NewProfileService(profileRepo, userRepo, cfg.AvatarDir)

	return server
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Context middleware to propagate request ID and user ID
	app.Use(middleware.ContextMiddleware())

	// Prometheus metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers
	app.Use(helmet.New())

	// Structured logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400,
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	// Auth routes
	authGroup := api.Group("/auth")
	authGroup.Post("/signup", middleware.RateLimit(
		s.redis, 3, 10*time.Minute, "signup"), s.Signup)
	authGroup.Post("/login", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "login"), s.Login)
	authGroup.Get("/verify/:token", s.VerifyEmail)
	authGroup.Get("/google/login", s.GoogleLogin)
	authGroup.Get("/google/callback", s.GoogleCallback)

	// Public category routes
	categories := api.Group("/categories")
	categories.Get("/", s.GetCategories)

	// Public post routes
	posts := api.Group("/posts")
	posts.Get("/", s.GetPosts)
	posts.Get("/:id/responses", s.GetResponses)
	posts.Get("/:id", s.GetPost)

	// Protected routes
	protected := api.Group("", middleware.AuthRequired)

	// Subscriptions. Specific /subscriptions route before generic /:id.
	protectedCategories := protected.Group("/categories")
	protectedCategories.Get("/subscriptions", s.GetMySubscriptions)
	protectedCategories.Post("/:id/subscribe", middleware.RateLimit(
		s.redis, 10, time.Minute, "subscribe"), s.SubscribeCategory)
	categories.Get("/:id", s.GetCategory)

	// Post authoring
	protectedPosts := protected.Group("/posts")
	protectedPosts.Post("/", middleware.RateLimit(
		s.redis, 5, 5*time.Minute, "create_post"), s.CreatePost)
	protectedPosts.Put("/:id", s.UpdatePost)
	protectedPosts.Delete("/:id", s.DeletePost)

	// Responses under their post
	protectedPosts.Post("/:postId/responses", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "create_response"), s.CreateResponse)
	protectedPosts.Put("/:postId/responses/:id", s.UpdateResponse)
	protectedPosts.Delete("/:postId/responses/:id", s.DeleteResponse)
	protectedPosts.Post("/:postId/responses/:id/accept", s.AcceptResponse)
	protectedPosts.Post("/:postId/responses/:id/reject", s.RejectResponse)

	// Responses received on my posts
	protected.Get("/responses/received", s.GetReceivedResponses)

	// Profile routes
	profile := protected.Group("/profile")
	profile.Get("/me", s.GetMyProfile)
	profile.Put("/me", s.UpdateMyProfile)
	profile.Post("/me/avatar", s.UploadAvatar)

	// Public user posts listing
	api.Get("/users/:id/posts", s.GetUserPosts)
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// Start starts the server
func (s *Server) Start() error {
	app := fiber.New(fiber.Config{
		AppName: "Guild Board API",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})
	s.app = app

	s.SetupMiddleware(app)
	s.SetupRoutes(app)

	log.Printf("Server starting on port %s...", s.config.Port)
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			log.Printf("error shutting down HTTP server: %v", err)
		}
	}

	if s.asynqClient != nil {
		if cerr := s.asynqClient.Close(); cerr != nil {
			log.Printf("error closing task queue client: %v", cerr)
		}
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Printf("error closing sql DB: %v", cerr)
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			log.Printf("error closing redis: %v", rerr)
		}
	}

	log.Println("Server shutdown complete")
	return nil
}
