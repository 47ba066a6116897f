package middleware

import (
	"net/http"
	"strings"
	"unicode"

	"github.com/lrydzkowski/LexicaNext-sub002/internal/auth"
)

// UserIDHeader carries the id of the user a request acts for.
const UserIDHeader = "X-User-ID"

const maxUserIDLength = 128

// RequireUser reads the owner id from X-User-ID and adds it to the caller
// identity. Must be applied after Auth.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := strings.TrimSpace(r.Header.Get(UserIDHeader))
		if !validUserID(userID) {
			writeError(w, http.StatusBadRequest, CodeMissingUser, "X-User-ID header is missing or invalid")
			return
		}

		identity := auth.Identity{}
		if current := auth.IdentityFromContext(r.Context()); current != nil {
			identity = *current
		}
		identity.UserID = userID

		recordIdentity(r.Context(), &identity)
		ctx := auth.ContextWithIdentity(r.Context(), &identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func validUserID(id string) bool {
	if id == "" || len(id) > maxUserIDLength {
		return false
	}
	for _, r := range id {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return false
		}
	}
	return true
}
