package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/infrastructure/auth"
)

// ContextKey is the type for context keys
type ContextKey string

const (
	// UserContextKey is the context key for the authenticated user
	UserContextKey ContextKey = "user"
)

// TokenVerifier turns a bearer token into claims.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// Auth rejects requests without a valid bearer token and puts the caller
// into the request context.
func Auth(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeError(w, http.StatusUnauthorized, "unauthorized", "missing authorization header")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
				writeError(w, http.StatusUnauthorized, "unauthorized", "invalid authorization header format")
				return
			}

			claims, err := verifier.Verify(parts[1])
			if err != nil {
				details := "invalid token"
				if errors.Is(err, domain.ErrExpiredToken) {
					details = "token has expired"
				}
				writeError(w, http.StatusUnauthorized, "unauthorized", details)
				return
			}

			user := &domain.User{
				ID:       claims.UserID,
				Username: claims.Username,
			}

			ctx := context.WithValue(r.Context(), UserContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserFromContext extracts the authenticated user from context
func GetUserFromContext(ctx context.Context) (*domain.User, bool) {
	user, ok := ctx.Value(UserContextKey).(*domain.User)
	return user, ok
}

// WithUser returns a context carrying user, as Auth would.
func WithUser(ctx context.Context, user *domain.User) context.Context {
	return context.WithValue(ctx, UserContextKey, user)
}
