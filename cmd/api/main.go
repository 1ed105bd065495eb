// Package main is the entrypoint for the SpecForge API server.
package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/specforge/specforge/internal/cache"
	"github.com/specforge/specforge/internal/config"
	"github.com/specforge/specforge/internal/handler"
	"github.com/specforge/specforge/internal/mailer"
	"github.com/specforge/specforge/internal/metrics"
	"github.com/specforge/specforge/internal/middleware"
	"github.com/specforge/specforge/internal/provider"
	"github.com/specforge/specforge/internal/repository"
	"github.com/specforge/specforge/internal/server"
	"github.com/specforge/specforge/internal/service"
)

func main() {
	// Initialize context
	ctx := context.Background()

	// Load .env if present (development convenience; no-op in production)
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize logger
	logger := initLogger(cfg)

	// Initialize database
	repo, err := repository.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error(
			"failed to connect to database",
			slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
			slog.String("database_url", redactURL(cfg.DatabaseURL)),
		)
		os.Exit(1)
	}
	defer repo.Close()
	logger.Info("connected to database")

	// Initialize cache
	cacheClient, err := cache.New(ctx, cfg.RedisURL)
	if err != nil {
		logger.Error(
			"failed to connect to Redis",
			slog.String("error", sanitizeError(err, cfg.RedisURL)),
			slog.String("redis_url", redactURL(cfg.RedisURL)),
		)
		os.Exit(1)
	}
	defer cacheClient.Close()
	logger.Info("connected to Redis")

	// Initialize AI provider
	aiClient := newProviderClient(cfg)
	if cfg.AIAPIKey == "" {
		logger.Warn("AI_API_KEY not set, spec generation will store configuration errors")
	}
	logger.Info("ai provider configured", "provider", aiClient.Name())

	// Initialize services
	metricsRecorder := metrics.NewInMemory()
	mail := mailer.NewLogMailer(logger)
	authService := service.NewAuthService(repo, mail, logger, cfg.JWTSecret, cfg.JWTExpiry)
	memberService := service.NewMemberService(repo, logger)
	projectService := service.NewProjectService(repo, repo)
	specService := service.NewSpecService(repo, repo, repo, aiClient, logger, metricsRecorder)

	// Initialize handlers
	h := handler.New()
	healthHandler := handler.NewHealthHandler(repo, cacheClient)
	authHandler := handler.NewAuthHandler(authService, logger)
	memberHandler := handler.NewMemberHandler(memberService, logger)
	projectHandler := handler.NewProjectHandler(projectService, logger)
	specHandler := handler.NewSpecHandler(specService, logger)

	// Setup router
	r := setupRouter(h, healthHandler, authHandler, memberHandler, projectHandler, specHandler, cacheClient, cfg, logger)

	// Create and run server
	srv := server.New(
		r,
		cfg.AppPort,
		cfg.ReadTimeout,
		cfg.WriteTimeout,
		cfg.ShutdownTimeout,
		logger,
	)

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
		"ai_provider", cfg.AIProvider,
	)

	if err := srv.Run(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// newProviderClient builds the configured AI provider adapter.
// Config.Load already rejected unknown provider names.
func newProviderClient(cfg *config.Config) provider.Client {
	switch cfg.AIProvider {
	case config.ProviderChat:
		return provider.NewChatClient(provider.ChatConfig{
			APIKey:   cfg.AIAPIKey,
			Endpoint: cfg.AIEndpoint,
			Model:    cfg.AIModel,
			Timeout:  cfg.AITimeout,
		})
	default:
		return provider.NewGenerateClient(provider.GenerateConfig{
			APIKey:   cfg.AIAPIKey,
			Endpoint: cfg.AIEndpoint,
			Model:    cfg.AIModel,
			Timeout:  cfg.AITimeout,
		})
	}
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	level := parseLogLevel(cfg.LogLevel)

	opts := &slog.HandlerOptions{
		Level: level,
	}

	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// setupRouter configures the chi router with all routes and middleware.
func setupRouter(
	h *handler.Handler,
	healthHandler *handler.HealthHandler,
	authHandler *handler.AuthHandler,
	memberHandler *handler.MemberHandler,
	projectHandler *handler.ProjectHandler,
	specHandler *handler.SpecHandler,
	cacheClient *cache.Cache,
	cfg *config.Config,
	logger *slog.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))
	securityCfg := middleware.DefaultSecurityConfig()
	securityCfg.IsDevelopment = cfg.IsDevelopment()
	r.Use(middleware.Security(securityCfg))
	if origins := cfg.GetCORSAllowedOrigins(); len(origins) > 0 {
		corsCfg := middleware.DefaultCORSConfig()
		corsCfg.AllowedOrigins = origins
		r.Use(middleware.CORS(corsCfg))
	}
	r.Use(middleware.MaxBodySize(cfg.MaxRequestBodySize))

	// Health endpoints (no auth required)
	r.Get("/healthz", healthHandler.Healthz)
	r.Get("/readyz", healthHandler.Readyz)

	// Root info endpoint
	r.Get("/", h.Hello)

	// Auth middleware configuration
	authCfg := middleware.AuthConfig{
		Logger:    logger,
		JWTSecret: cfg.JWTSecret,
	}

	// Rate limit middleware configuration
	rateLimitCfg := middleware.RateLimitConfig{
		Logger:        logger,
		Cache:         cacheClient,
		MemberEnabled: cfg.RateLimitAPIEnabled,
		MemberRPM:     cfg.RateLimitAPIRPM,
		MemberBurst:   cfg.RateLimitAPIBurst,
		AuthEnabled:   cfg.RateLimitAuthEnabled,
		AuthRPM:       cfg.RateLimitAuthRPM,
		AuthBurst:     cfg.RateLimitAuthBurst,
	}

	r.Route("/api/v1", func(r chi.Router) {
		// Public auth endpoints, IP rate limited against brute force
		r.Route("/auth", func(r chi.Router) {
			r.Use(middleware.RateLimitIP(rateLimitCfg))
			r.Post("/signup", authHandler.Signup)
			r.Post("/signin", authHandler.Signin)
			r.Post("/forgot-password", authHandler.ForgotPassword)
			r.Post("/reset-password", authHandler.ResetPassword)
		})

		// Everything below requires a valid session token
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(authCfg))
			r.Use(middleware.RateLimitMember(rateLimitCfg))

			r.Route("/members/me", func(r chi.Router) {
				r.Get("/", memberHandler.Me)
				r.Put("/", memberHandler.UpdateMe)
				r.Put("/password", memberHandler.ChangePassword)
			})

			r.Route("/projects", func(r chi.Router) {
				r.Post("/", projectHandler.Create)
				r.Get("/", projectHandler.List)
				r.Get("/{projectID}", projectHandler.Get)
				r.Put("/{projectID}", projectHandler.Update)
				r.Delete("/{projectID}", projectHandler.Delete)

				r.Post("/{projectID}/specs", specHandler.Generate)
				r.Get("/{projectID}/specs", specHandler.List)
			})

			r.Route("/specs", func(r chi.Router) {
				r.Post("/refine", specHandler.Refine)
				r.Put("/{specID}", specHandler.Update)
				r.Delete("/{specID}", specHandler.Delete)
			})
		})
	})

	// 404 and 405 handlers
	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	return r
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s]+`)

func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	return parsed.String()
}

func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
