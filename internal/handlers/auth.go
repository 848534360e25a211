package handlers

import (
	"errors"
	"net/http"

	"github.com/filesapi/auth/internal/apperrors"
	"github.com/filesapi/auth/internal/handlers/middleware"
	"github.com/filesapi/auth/internal/handlers/render"
	"github.com/filesapi/auth/internal/logger"
)

type tokenPairResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

func handleRegister(userService userService, l logger.Logger) http.Handler {
	type request struct {
		Login    string `json:"login" validate:"required,min=2,max=50"`
		Password string `json:"password" validate:"required,min=8"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		pair, err := userService.Register(r.Context(), data.Login, data.Password)
		switch {
		case err == nil:
			render.JSON(w, tokenPairResponse{pair.Access.Value, pair.Refresh.Value})
		case errors.Is(err, apperrors.ErrUserAlreadyExists):
			render.ServiceError(w, "User already exists", http.StatusConflict)
		default:
			l.Error("Failed to register user", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

func handleLogin(userService userService, l logger.Logger) http.Handler {
	type request struct {
		Login    string `json:"login" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		pair, err := userService.Login(r.Context(), data.Login, data.Password)
		switch {
		case err == nil:
			render.JSON(w, tokenPairResponse{pair.Access.Value, pair.Refresh.Value})
		case errors.Is(err, apperrors.ErrUserNotFound):
			render.ServiceError(w, "Invalid login or password", http.StatusUnauthorized)
		default:
			l.Error("Failed to login user", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

func handleTokenRefresh(authService authService, l logger.Logger) http.Handler {
	type request struct {
		RefreshToken string `json:"refresh_token" validate:"required"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		pair, err := authService.Rotate(r.Context(), data.RefreshToken)
		switch {
		case err == nil:
			render.JSON(w, tokenPairResponse{pair.Access.Value, pair.Refresh.Value})
		case errors.Is(err, apperrors.ErrRefreshReused):
			// Session is already destroyed, full re-authentication required
			render.ServiceError(w, "Refresh token reuse detected", http.StatusForbidden)
		case errors.Is(err, apperrors.ErrSessionRevoked):
			render.ServiceError(w, "Session is revoked", http.StatusUnauthorized)
		case errors.Is(err, apperrors.ErrInvalidCredential):
			render.ServiceError(w, "Invalid refresh token", http.StatusUnauthorized)
		default:
			l.Error("Failed to rotate refresh token", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

// Logout is deliberately not guarded: a request with an already invalid
// access token should still behave as logged out, not as 401.
func handleLogout(authService authService, l logger.Logger) http.Handler {
	type response struct {
		Message string `json:"message"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		err := authService.RevokeByAccessToken(r.Context(), middleware.BearerToken(r))
		if err != nil {
			l.Error("Failed to revoke session", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, response{Message: "Logged out"})
	})
}
