package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/lrydzkowski/LexicaNext-sub002/internal/auth"
)

// responseWriter wraps http.ResponseWriter to capture status code.
type responseWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func wrapResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{ResponseWriter: w, status: http.StatusOK}
}

func (rw *responseWriter) WriteHeader(code int) {
	if rw.wroteHeader {
		return
	}
	rw.status = code
	rw.wroteHeader = true
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.wroteHeader {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

// Logger returns a middleware that logs one structured line per request.
// Credentials are never logged; the caller is identified by key id.
func Logger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// Identity is attached by inner middleware; collect it through a holder.
			holder := &identityHolder{}
			wrapped := wrapResponseWriter(w)
			next.ServeHTTP(wrapped, r.WithContext(withIdentityHolder(r.Context(), holder)))

			duration := time.Since(start)

			attrs := []slog.Attr{
				slog.String("request_id", GetRequestID(r.Context())),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status_code", wrapped.status),
				slog.Float64("duration_ms", float64(duration.Microseconds())/1000),
				slog.String("remote_addr", r.RemoteAddr),
				slog.String("user_agent", r.UserAgent()),
			}

			if id := holder.identity; id != nil {
				attrs = append(attrs, slog.String("key_id", id.KeyID))
				if id.UserID != "" {
					attrs = append(attrs, slog.String("user_id", id.UserID))
				}
			}

			level := slog.LevelInfo
			if wrapped.status >= 500 {
				level = slog.LevelError
			} else if wrapped.status >= 400 {
				level = slog.LevelWarn
			}

			logger.LogAttrs(r.Context(), level, "http request", attrs...)
		})
	}
}

const identityHolderKey contextKey = "identity_holder"

// identityHolder lets the outer Logger see the identity resolved by inner middleware.
type identityHolder struct {
	identity *auth.Identity
}

func withIdentityHolder(ctx context.Context, h *identityHolder) context.Context {
	return context.WithValue(ctx, identityHolderKey, h)
}

// recordIdentity publishes id to the enclosing Logger, if any.
func recordIdentity(ctx context.Context, id *auth.Identity) {
	if h, ok := ctx.Value(identityHolderKey).(*identityHolder); ok {
		h.identity = id
	}
}
