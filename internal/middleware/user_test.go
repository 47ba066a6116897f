package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/lrydzkowski/LexicaNext-sub002/internal/auth"
)

func TestRequireUser(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		userID     string
		wantStatus int
	}{
		{"valid", "user-1", http.StatusOK},
		{"trimmed", "  user-1 ", http.StatusOK},
		{"missing", "", http.StatusBadRequest},
		{"inner space", "user 1", http.StatusBadRequest},
		{"too long", strings.Repeat("u", maxUserIDLength+1), http.StatusBadRequest},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var gotUser string
			handler := RequireUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotUser = auth.UserIDFromContext(r.Context())
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.userID != "" {
				req.Header.Set(UserIDHeader, tt.userID)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantStatus == http.StatusOK && gotUser != "user-1" {
				t.Errorf("user id = %q, want user-1", gotUser)
			}
			if tt.wantStatus == http.StatusBadRequest {
				var body errorBody
				_ = json.NewDecoder(rec.Body).Decode(&body)
				if body.Code != CodeMissingUser {
					t.Errorf("code = %q, want %q", body.Code, CodeMissingUser)
				}
			}
		})
	}
}

func TestRequireUser_KeepsKeyID(t *testing.T) {
	t.Parallel()

	var got *auth.Identity
	handler := RequireUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = auth.IdentityFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(auth.ContextWithIdentity(req.Context(), &auth.Identity{KeyID: "kid"}))
	req.Header.Set(UserIDHeader, "u1")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if got == nil || got.KeyID != "kid" || got.UserID != "u1" {
		t.Fatalf("unexpected identity: %+v", got)
	}
}
