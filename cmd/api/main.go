// Package main is the entrypoint for the LexicaNext vocabulary API server.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/lrydzkowski/LexicaNext-sub002/internal/auth"
	"github.com/lrydzkowski/LexicaNext-sub002/internal/cache"
	"github.com/lrydzkowski/LexicaNext-sub002/internal/config"
	"github.com/lrydzkowski/LexicaNext-sub002/internal/handler"
	"github.com/lrydzkowski/LexicaNext-sub002/internal/metrics"
	"github.com/lrydzkowski/LexicaNext-sub002/internal/middleware"
	"github.com/lrydzkowski/LexicaNext-sub002/internal/repository"
	"github.com/lrydzkowski/LexicaNext-sub002/internal/repository/memory"
	"github.com/lrydzkowski/LexicaNext-sub002/internal/server"
	"github.com/lrydzkowski/LexicaNext-sub002/internal/service"
)

// storage is a set store that can report its health.
type storage interface {
	service.Store
	handler.HealthChecker
}

func main() {
	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load(".env")
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := initLogger(cfg)

	srv, err := build(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to start", "error", err)
		os.Exit(1)
	}

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
		"storage", cfg.StorageDriver,
		"redis", cfg.RedisEnabled(),
	)

	if err := srv.Run(ctx); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// build connects the configured backends and returns a ready server.
func build(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*server.Server, error) {
	var shutdowns []func(srv *server.Server)

	store, closeStore, err := openStorage(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	shutdowns = append(shutdowns, func(srv *server.Server) {
		srv.OnShutdown("storage", func(context.Context) error {
			closeStore()
			return nil
		})
	})

	var cacheClient *cache.Cache
	if cfg.RedisEnabled() {
		cacheClient, err = cache.New(ctx, cfg.RedisURL, cache.Options{
			SetTTL:  cfg.SetCacheTTL,
			AuthTTL: cfg.AuthCacheTTL,
		})
		if err != nil {
			closeStore()
			return nil, fmt.Errorf("connect redis %s: %s", redactURL(cfg.RedisURL), sanitizeError(err, cfg.RedisURL))
		}
		logger.Info("connected to Redis")
		shutdowns = append(shutdowns, func(srv *server.Server) {
			srv.OnShutdown("redis", func(context.Context) error {
				return cacheClient.Close()
			})
		})
	} else {
		logger.Warn("REDIS_URL not set; set cache and rate limiting are disabled")
	}

	matcher := auth.NewKeyMatcher(cfg.APIKey)
	if matcher.Len() == 0 {
		logger.Warn("no API keys configured; every /api/v1 request will be rejected", "section", config.APIKeySectionName)
	}

	r := setupRouter(routerDeps{
		Config:  cfg,
		Logger:  logger,
		Store:   store,
		Cache:   cacheClient,
		Metrics: metrics.NewPrometheus(),
		Matcher: matcher,
	})

	srv := server.New(
		r,
		cfg.AppPort,
		cfg.ReadTimeout,
		cfg.WriteTimeout,
		cfg.ShutdownTimeout,
		logger,
	)
	for _, register := range shutdowns {
		register(srv)
	}
	return srv, nil
}

// openStorage returns the store selected by STORAGE_DRIVER and its close func.
func openStorage(ctx context.Context, cfg *config.Config, logger *slog.Logger) (storage, func(), error) {
	switch cfg.StorageDriver {
	case config.StorageMemory:
		logger.Warn("using in-memory storage; data is lost on restart")
		return memory.New(), func() {}, nil
	default:
		repo, err := repository.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("connect database %s: %s", redactURL(cfg.DatabaseURL), sanitizeError(err, cfg.DatabaseURL))
		}
		logger.Info("connected to database")
		return repo, repo.Close, nil
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
	switch strings.ToLower(level) {
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

// routerDeps are the components the router is assembled from.
// Cache is nil when Redis is disabled.
type routerDeps struct {
	Config  *config.Config
	Logger  *slog.Logger
	Store   storage
	Cache   *cache.Cache
	Metrics *metrics.PrometheusRecorder
	Matcher *auth.KeyMatcher
}

// setupRouter configures the chi router with all routes and middleware.
func setupRouter(deps routerDeps) *chi.Mux {
	cfg, logger := deps.Config, deps.Logger

	// Interfaces stay untyped nil when Redis is disabled.
	var (
		setCache service.SetCache
		keyCache middleware.VerifiedKeyCache
		limiter  middleware.RateLimiter
		cacheHC  handler.HealthChecker
	)
	if deps.Cache != nil {
		setCache = deps.Cache
		keyCache = deps.Cache
		limiter = deps.Cache
		cacheHC = deps.Cache
	}

	setService := service.NewSetService(deps.Store, setCache, deps.Metrics)

	h := handler.New(logger)
	healthHandler := handler.NewHealthHandler(deps.Store, cacheHC)
	setHandler := handler.NewSetHandler(setService, logger)
	wordHandler := handler.NewWordHandler(setService, logger)

	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))
	r.Use(deps.Metrics.Middleware)
	r.Use(middleware.Security(middleware.SecurityConfig{
		IsDevelopment:      cfg.IsDevelopment(),
		MaxRequestBodySize: cfg.MaxRequestBodySize,
	}))
	r.Use(middleware.MaxBodySize(cfg.MaxRequestBodySize))

	// Health endpoints (no auth required)
	r.Get("/healthz", healthHandler.Healthz)
	r.Get("/readyz", healthHandler.Readyz)
	r.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())

	// Root info endpoint
	r.Get("/", h.Hello)

	authCfg := middleware.AuthConfig{
		Logger:      logger,
		Matcher:     deps.Matcher,
		Cache:       keyCache,
		Metrics:     deps.Metrics,
		MinDuration: middleware.DefaultMinAuthDuration,
	}

	rateLimitCfg := middleware.RateLimitConfig{
		Logger:            logger,
		Limiter:           limiter,
		Metrics:           deps.Metrics,
		Enabled:           cfg.RateLimitAPIEnabled && limiter != nil,
		RequestsPerMinute: cfg.RateLimitAPIRPM,
		Burst:             cfg.RateLimitAPIBurst,
	}

	// API v1 routes (require an API key and a user id)
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(authCfg))
		r.Use(middleware.RequireUser)
		r.Use(middleware.RateLimitAPI(rateLimitCfg))

		r.Route("/sets", func(r chi.Router) {
			r.Get("/", setHandler.List)
			r.Post("/", setHandler.Create)
			r.Post("/delete", setHandler.DeleteMany)
			r.Get("/{setId}", setHandler.Get)
			r.Put("/{setId}", setHandler.Update)
			r.Delete("/{setId}", setHandler.Delete)
		})

		r.Delete("/words/{wordId}", wordHandler.Delete)
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
