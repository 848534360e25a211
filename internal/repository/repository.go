package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/filesapi/auth/internal/models"
)

// User repository interface
type UserRepo interface {
	// Create user
	// If user with username exists already has to return apperrors.ErrUserAlreadyExists
	CreateUser(ctx context.Context, username string, passwordHash string) (models.User, error)

	// Get user by it's id or username
	// If user not found must return apperrors.ErrUserNotFound
	GetUserByID(ctx context.Context, id uuid.UUID) (models.User, error)
	GetUserByUsername(ctx context.Context, username string) (models.User, error)
}

// Session repository interface
//
// Rotation safety lives here: SwapRefresh must be atomic per session, so two
// concurrent rotations of the same session can never both succeed.
type SessionRepo interface {
	// Create session owned by userID with version 1
	Create(ctx context.Context, userID uuid.UUID, refreshHash string, expiresAt time.Time) (models.Session, error)

	// Get session by id
	// If session not found must return apperrors.ErrSessionNotFound
	GetByID(ctx context.Context, id uuid.UUID) (models.Session, error)

	// Replace refresh hash unconditionally
	// No-op if session no longer exists: the caller detects absence on next lookup
	UpdateRefresh(ctx context.Context, id uuid.UUID, refreshHash string) error

	// Compare-and-swap refresh hash: replace current with next only if the
	// stored hash equals current
	// Must return apperrors.ErrRefreshHashMismatch if stored hash differs
	// Must return apperrors.ErrSessionNotFound if session does not exist
	SwapRefresh(ctx context.Context, id uuid.UUID, current string, next string) error

	// Remove session. Idempotent: revoking absent session is not an error
	Revoke(ctx context.Context, id uuid.UUID) error
}

// Storage aggregates the repositories over a single connection or transaction
type Storage interface {
	User() UserRepo
	Session() SessionRepo

	// Run fn in db transaction with storage bound to it
	InTx(ctx context.Context, fn func(s Storage) error) error
}
