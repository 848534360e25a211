package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/filesapi/auth/internal/handlers/middleware"
	"github.com/filesapi/auth/internal/logger"
	"github.com/filesapi/auth/internal/models"
)

// chain applies middlewares in the given order: m1(m2(...(h)))
func chain(h http.Handler, mds ...func(next http.Handler) http.Handler) http.Handler {
	for i := len(mds) - 1; i >= 0; i-- {
		h = mds[i](h)
	}
	return h
}

func NewRouter(
	authService authService,
	userService userService,
	logger logger.Logger,
) http.Handler {
	withAuth := middleware.AuthMiddleware(authService)

	apiauth := http.NewServeMux()

	apiauth.Handle("POST /register", handleRegister(userService, logger))
	apiauth.Handle("POST /login", handleLogin(userService, logger))
	apiauth.Handle("POST /refresh", handleTokenRefresh(authService, logger))
	apiauth.Handle("POST /logout", handleLogout(authService, logger))

	apiauth.Handle("GET /me", withAuth(handleUserMe(userService, logger)))

	root := http.NewServeMux()
	root.Handle("/api/auth/", http.StripPrefix("/api/auth", apiauth))

	return chain(root,
		middleware.LoggerMiddleware(logger),
	)
}

type authService interface {
	// Exchange a valid refresh token for a fresh pair
	// Returns apperrors.ErrRefreshReused when replay is detected (session destroyed),
	// apperrors.ErrSessionRevoked when the session is gone, expired or version bumped,
	// apperrors.ErrInvalidCredential when the token itself does not verify
	Rotate(ctx context.Context, refresh string) (models.TokenPair, error)

	// Best-effort logout: invalid tokens are swallowed, not surfaced
	RevokeByAccessToken(ctx context.Context, access string) error

	// Access guard check, used by the auth middleware
	Authenticate(ctx context.Context, access string) (models.AuthUser, error)
}

type userService interface {
	// Register user; apperrors.ErrUserAlreadyExists if login is taken
	Register(ctx context.Context, username string, password string) (models.TokenPair, error)

	// Login user; apperrors.ErrUserNotFound for unknown user or wrong password
	Login(ctx context.Context, username string, password string) (models.TokenPair, error)

	GetByID(ctx context.Context, id uuid.UUID) (models.User, error)
}
