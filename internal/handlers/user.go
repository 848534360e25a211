package handlers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/filesapi/auth/internal/handlers/render"
	"github.com/filesapi/auth/internal/handlers/userctx"
	"github.com/filesapi/auth/internal/logger"
)

func handleUserMe(userService userService, l logger.Logger) http.Handler {
	type response struct {
		ID       uuid.UUID `json:"id"`
		Username string    `json:"username"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authUser, ok := userctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		user, err := userService.GetByID(r.Context(), authUser.UserID)
		if err != nil {
			l.Error("Failed to load authenticated user", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, response{ID: user.ID, Username: user.Username})
	})
}
