package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "lexica"

// PrometheusRecorder exports metrics through its own registry.
type PrometheusRecorder struct {
	registry *prometheus.Registry

	setCache     *prometheus.CounterVec
	setsCreated  prometheus.Counter
	setsUpdated  prometheus.Counter
	setsDeleted  prometheus.Counter
	wordsDeleted prometheus.Counter
	authFailures *prometheus.CounterVec

	httpRequestDuration *prometheus.HistogramVec
	httpRequestsTotal   *prometheus.CounterVec
}

// NewPrometheus creates a recorder with a fresh registry that also carries
// the Go runtime and process collectors.
func NewPrometheus() *PrometheusRecorder {
	p := &PrometheusRecorder{
		registry: prometheus.NewRegistry(),
		setCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "set_cache_requests_total",
			Help:      "Set cache lookups by result",
		}, []string{"result"}),
		setsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sets_created_total",
			Help:      "Number of sets created",
		}),
		setsUpdated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sets_updated_total",
			Help:      "Number of sets updated",
		}),
		setsDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sets_deleted_total",
			Help:      "Number of sets requested for deletion",
		}),
		wordsDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "words_deleted_total",
			Help:      "Number of words deleted",
		}),
		authFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auth_failures_total",
			Help:      "Rejected API requests by reason",
		}, []string{"reason"}),
		httpRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"method", "path", "status"}),
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),
	}

	p.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		p.setCache,
		p.setsCreated,
		p.setsUpdated,
		p.setsDeleted,
		p.wordsDeleted,
		p.authFailures,
		p.httpRequestDuration,
		p.httpRequestsTotal,
	)

	return p
}

// Handler serves the registry in the Prometheus exposition format.
func (p *PrometheusRecorder) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}

// IncSetCacheHit increments cache hit counter.
func (p *PrometheusRecorder) IncSetCacheHit() { p.setCache.WithLabelValues("hit").Inc() }

// IncSetCacheMiss increments cache miss counter.
func (p *PrometheusRecorder) IncSetCacheMiss() { p.setCache.WithLabelValues("miss").Inc() }

// IncSetCreated increments set created counter.
func (p *PrometheusRecorder) IncSetCreated() { p.setsCreated.Inc() }

// IncSetUpdated increments set updated counter.
func (p *PrometheusRecorder) IncSetUpdated() { p.setsUpdated.Inc() }

// IncSetsDeleted adds count to the set deleted counter.
func (p *PrometheusRecorder) IncSetsDeleted(count int) {
	if count > 0 {
		p.setsDeleted.Add(float64(count))
	}
}

// IncWordDeleted increments word deleted counter.
func (p *PrometheusRecorder) IncWordDeleted() { p.wordsDeleted.Inc() }

// IncAuthFailure increments the failure counter for reason.
func (p *PrometheusRecorder) IncAuthFailure(reason string) {
	p.authFailures.WithLabelValues(reason).Inc()
}

// Middleware records HTTP request duration and count, labelled by chi route pattern.
func (p *PrometheusRecorder) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(ww, r)

		path := "unknown"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			path = rctx.RoutePattern()
		}
		status := strconv.Itoa(ww.status)

		p.httpRequestDuration.WithLabelValues(r.Method, path, status).Observe(time.Since(start).Seconds())
		p.httpRequestsTotal.WithLabelValues(r.Method, path, status).Inc()
	})
}

// statusWriter captures the response status code.
type statusWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (w *statusWriter) WriteHeader(status int) {
	if !w.wroteHeader {
		w.status = status
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(status)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	w.wroteHeader = true
	return w.ResponseWriter.Write(b)
}
