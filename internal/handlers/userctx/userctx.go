package userctx

import (
	"context"

	"github.com/filesapi/auth/internal/models"
)

type ctxKey string

const userKey ctxKey = "user"

// Create a new context with the authenticated identity
func New(ctx context.Context, u models.AuthUser) context.Context {
	return context.WithValue(ctx, userKey, u)
}

// Extract the authenticated identity from the context
func FromContext(ctx context.Context) (models.AuthUser, bool) {
	u, ok := ctx.Value(userKey).(models.AuthUser)
	return u, ok
}
