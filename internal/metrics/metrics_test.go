package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestInMemoryRecorder(t *testing.T) {
	t.Parallel()

	m := NewInMemory()
	m.IncSetCacheHit()
	m.IncSetCacheMiss()
	m.IncSetCacheMiss()
	m.IncSetCreated()
	m.IncSetUpdated()
	m.IncSetsDeleted(3)
	m.IncSetsDeleted(0)
	m.IncWordDeleted()
	m.IncAuthFailure(AuthReasonInvalidKey)
	m.IncAuthFailure(AuthReasonInvalidKey)

	s := m.Snapshot()
	if s.SetCacheHits != 1 || s.SetCacheMisses != 2 {
		t.Errorf("unexpected cache counters: %+v", s)
	}
	if s.SetsCreated != 1 || s.SetsUpdated != 1 || s.SetsDeleted != 3 || s.WordsDeleted != 1 {
		t.Errorf("unexpected set counters: %+v", s)
	}
	if s.AuthFailures[AuthReasonInvalidKey] != 2 {
		t.Errorf("unexpected auth failures: %v", s.AuthFailures)
	}
}

func TestNoopRecorder(t *testing.T) {
	t.Parallel()

	r := NewNoop()
	r.IncSetCreated()
	r.IncSetsDeleted(5)
	r.IncAuthFailure(AuthReasonMissingKey)
}

func TestPrometheusRecorder_Counters(t *testing.T) {
	t.Parallel()

	p := NewPrometheus()
	p.IncSetCreated()
	p.IncSetsDeleted(2)
	p.IncSetCacheHit()
	p.IncAuthFailure(AuthReasonRateLimit)

	if got := testutil.ToFloat64(p.setsCreated); got != 1 {
		t.Errorf("sets_created_total = %v, want 1", got)
	}
	if got := testutil.ToFloat64(p.setsDeleted); got != 2 {
		t.Errorf("sets_deleted_total = %v, want 2", got)
	}
	if got := testutil.ToFloat64(p.setCache.WithLabelValues("hit")); got != 1 {
		t.Errorf("set cache hits = %v, want 1", got)
	}
	if got := testutil.ToFloat64(p.authFailures.WithLabelValues(AuthReasonRateLimit)); got != 1 {
		t.Errorf("auth failures = %v, want 1", got)
	}
}

func TestPrometheusRecorder_Middleware(t *testing.T) {
	t.Parallel()

	p := NewPrometheus()
	r := chi.NewRouter()
	r.Use(p.Middleware)
	r.Get("/sets/{setId}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	r.Get("/ok", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	for _, path := range []string{"/sets/a", "/sets/b", "/ok"} {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, http.NoBody))
	}

	if got := testutil.ToFloat64(p.httpRequestsTotal.WithLabelValues("GET", "/sets/{setId}", "404")); got != 2 {
		t.Errorf("expected 2 requests for route pattern, got %v", got)
	}
	if got := testutil.ToFloat64(p.httpRequestsTotal.WithLabelValues("GET", "/ok", "200")); got != 1 {
		t.Errorf("expected 1 ok request, got %v", got)
	}
}

func TestPrometheusRecorder_Handler(t *testing.T) {
	t.Parallel()

	p := NewPrometheus()
	p.IncWordDeleted()

	rr := httptest.NewRecorder()
	p.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "lexica_words_deleted_total 1") {
		t.Errorf("metrics output missing counter:\n%s", rr.Body.String())
	}
}
