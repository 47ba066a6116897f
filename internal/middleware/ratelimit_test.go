package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/lrydzkowski/LexicaNext-sub002/internal/auth"
	"github.com/lrydzkowski/LexicaNext-sub002/internal/cache"
	"github.com/lrydzkowski/LexicaNext-sub002/internal/metrics"
)

// countingLimiter allows the first n calls per key.
type countingLimiter struct {
	allow int
	calls map[string]int
	err   error
}

func (l *countingLimiter) CheckAPIRateLimit(_ context.Context, keyID string, _, _ int) (*cache.RateLimitResult, error) {
	if l.err != nil {
		return nil, l.err
	}
	if l.calls == nil {
		l.calls = make(map[string]int)
	}
	l.calls[keyID]++
	allowed := l.calls[keyID] <= l.allow
	res := &cache.RateLimitResult{Allowed: allowed, Remaining: int64(l.allow - l.calls[keyID]), ResetAt: time.Now()}
	if !allowed {
		res.Remaining = 0
		res.RetryAfter = 3 * time.Second
	}
	return res, nil
}

func rateLimitedRequest(handler http.Handler, keyID string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/sets", nil)
	if keyID != "" {
		req = req.WithContext(auth.ContextWithIdentity(req.Context(), &auth.Identity{KeyID: keyID}))
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestRateLimitAPI(t *testing.T) {
	t.Parallel()

	limiter := &countingLimiter{allow: 2}
	recorder := metrics.NewInMemory()
	handler := RateLimitAPI(RateLimitConfig{
		Logger:            discardLogger,
		Limiter:           limiter,
		Metrics:           recorder,
		Enabled:           true,
		RequestsPerMinute: 60,
		Burst:             2,
	})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	for i := 0; i < 2; i++ {
		rec := rateLimitedRequest(handler, "kid")
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d", i, rec.Code)
		}
		if rec.Header().Get("X-RateLimit-Limit") != "60" {
			t.Errorf("missing rate limit headers")
		}
	}

	rec := rateLimitedRequest(handler, "kid")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", rec.Code)
	}
	if rec.Header().Get("Retry-After") != "3" {
		t.Errorf("Retry-After = %q, want 3", rec.Header().Get("Retry-After"))
	}
	if recorder.Snapshot().AuthFailures[metrics.AuthReasonRateLimit] != 1 {
		t.Error("expected rate limit metric")
	}

	if rec := rateLimitedRequest(handler, "other"); rec.Code != http.StatusOK {
		t.Errorf("other key should not be limited, got %d", rec.Code)
	}
}

func TestRateLimitAPI_PassThrough(t *testing.T) {
	t.Parallel()

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	tests := []struct {
		name  string
		cfg   RateLimitConfig
		keyID string
	}{
		{"disabled", RateLimitConfig{Enabled: false, Limiter: &countingLimiter{}, RequestsPerMinute: 1}, "kid"},
		{"no limiter", RateLimitConfig{Enabled: true, RequestsPerMinute: 1}, "kid"},
		{"no identity", RateLimitConfig{Enabled: true, Limiter: &countingLimiter{}, RequestsPerMinute: 1}, ""},
		{"limiter error fails open", RateLimitConfig{Enabled: true, Limiter: &countingLimiter{err: errors.New("down")}, RequestsPerMinute: 1}, "kid"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			tt.cfg.Logger = discardLogger
			if rec := rateLimitedRequest(RateLimitAPI(tt.cfg)(next), tt.keyID); rec.Code != http.StatusOK {
				t.Errorf("status = %d, want 200", rec.Code)
			}
		})
	}
}
