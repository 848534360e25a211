package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/filesapi/auth/internal/handlers/render"
	"github.com/filesapi/auth/internal/handlers/userctx"
	"github.com/filesapi/auth/internal/models"
)

type authService interface {
	// Verify access token and cross-check it against the live session
	Authenticate(ctx context.Context, access string) (models.AuthUser, error)
}

// BearerToken extracts the token from the standard authorization header.
// Empty string if the header is absent or not a bearer one.
func BearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(auth, "Bearer "); ok {
		return token
	}
	return ""
}

// AuthMiddleware is the access guard: it admits a request only if the
// presented access token verifies and its session is still alive with the
// same version. It mutates nothing; identity is attached to the context.
func AuthMiddleware(as authService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := BearerToken(r)
			if token == "" {
				render.ServiceError(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			user, err := as.Authenticate(r.Context(), token)
			if err != nil {
				render.ServiceError(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := userctx.New(r.Context(), user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
