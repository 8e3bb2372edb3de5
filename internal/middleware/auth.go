// Package middleware provides HTTP middlewares for authentication,
// logging, and rate limiting.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/reelplan/reelplan/internal/models"
)

type ctxKey string

const userKey ctxKey = "user"

// Authenticator resolves bearer tokens to accounts.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (models.Account, error)
}

// TokenAuth is a middleware that enforces bearer-token authentication.
//
// It extracts the token from the Authorization header, resolves it
// through the Authenticator, and stores the account ID in the request
// context, so it can be used downstream as the authenticated user ID.
func TokenAuth(auth Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				http.Error(w, "missing bearer token", http.StatusUnauthorized)
				return
			}
			acc, err := auth.Authenticate(r.Context(), token)
			if err != nil {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}
			ctx := context.WithValue(r.Context(), userKey, acc.ID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserIDFromContext extracts the authenticated user ID from the
// request context. Returns an empty string if not found.
func GetUserIDFromContext(ctx context.Context) string {
	val := ctx.Value(userKey)
	if s, ok := val.(string); ok {
		return s
	}
	return ""
}
