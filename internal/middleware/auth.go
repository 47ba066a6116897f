package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/lrydzkowski/LexicaNext-sub002/internal/auth"
	"github.com/lrydzkowski/LexicaNext-sub002/internal/cache"
	"github.com/lrydzkowski/LexicaNext-sub002/internal/metrics"
)

// DefaultMinAuthDuration is the minimum time spent on a rejected request.
const DefaultMinAuthDuration = 200 * time.Millisecond

// VerifiedKeyCache remembers keys that already passed matching.
type VerifiedKeyCache interface {
	GetVerifiedKey(ctx context.Context, keyHash string) (*cache.VerifiedKey, error)
	SetVerifiedKey(ctx context.Context, keyHash string, key *cache.VerifiedKey) error
}

// AuthConfig holds configuration for the auth middleware.
type AuthConfig struct {
	Logger  *slog.Logger
	Matcher *auth.KeyMatcher
	Cache   VerifiedKeyCache // optional
	Metrics metrics.Recorder // optional
	// MinDuration pads failed attempts so they take a constant time.
	MinDuration time.Duration
}

// Auth returns a middleware that authenticates API requests against the
// configured ApiKey section and injects the caller identity into the request.
func Auth(cfg AuthConfig) func(http.Handler) http.Handler {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.NewNoop()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			startTime := time.Now()

			fail := func(reason string) {
				cfg.Metrics.IncAuthFailure(reason)
				cfg.Logger.Warn("authentication failed",
					slog.String("reason", reason),
					slog.String("ip", r.RemoteAddr),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				if elapsed := time.Since(startTime); elapsed < cfg.MinDuration {
					time.Sleep(cfg.MinDuration - elapsed)
				}
				writeError(w, http.StatusUnauthorized, CodeUnauthorized, "Invalid or missing API key")
			}

			key := extractAPIKey(r)
			if key == "" {
				fail(metrics.AuthReasonMissingKey)
				return
			}

			cacheKey := cfg.Matcher.CacheKey(key)
			cacheHit := false
			if cfg.Cache != nil {
				if cached, _ := cfg.Cache.GetVerifiedKey(r.Context(), cacheKey); cached != nil {
					cacheHit = true
				}
			}

			if !cacheHit {
				if !cfg.Matcher.Match(key) {
					fail(metrics.AuthReasonInvalidKey)
					return
				}
				if cfg.Cache != nil {
					if err := cfg.Cache.SetVerifiedKey(r.Context(), cacheKey, &cache.VerifiedKey{KeyID: auth.KeyID(key)}); err != nil {
						cfg.Logger.Warn("failed to cache verified key", slog.String("error", err.Error()))
					}
				}
			}

			identity := &auth.Identity{KeyID: auth.KeyID(key)}

			cfg.Logger.Debug("authentication successful",
				slog.String("key_id", identity.KeyID),
				slog.Bool("cache_hit", cacheHit),
				slog.String("request_id", GetRequestID(r.Context())),
			)

			recordIdentity(r.Context(), identity)
			ctx := auth.ContextWithIdentity(r.Context(), identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractAPIKey extracts the API key from the request.
// Supports both "Authorization: Bearer <key>" and "X-API-Key: <key>" headers.
func extractAPIKey(r *http.Request) string {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		if token, ok := strings.CutPrefix(authHeader, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}

	return strings.TrimSpace(r.Header.Get("X-API-Key"))
}
