package middleware

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"expense-tracker-api/internal/auth"
	"expense-tracker-api/internal/http/respond"
)

// Context key type to avoid collisions.
type contextKey string

const userIDKey contextKey = "userID"

// UserID retrieves the authenticated caller's identifier from the request context.
func UserID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok
}

// RequireAuth rejects requests without a valid bearer token and attaches the
// resolved user ID to the request context. Only the identifier is attached;
// downstream handlers never see the token or any profile fields.
func RequireAuth(tokens *auth.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || strings.TrimSpace(token) == "" {
				respond.Error(w, http.StatusUnauthorized, "authorization required")
				return
			}

			userID, err := tokens.Verify(strings.TrimSpace(token))
			if err != nil {
				// Expired vs malformed matters for debugging, never for the caller.
				if errors.Is(err, auth.ErrTokenExpired) {
					log.Printf("auth: expired token from %s", r.RemoteAddr)
				}
				respond.Error(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
