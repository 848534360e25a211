package models

import (
	"time"

	"github.com/google/uuid"
)

// Session anchors the validity of a chain of refresh rotations.
// RefreshHash holds sha256 of the currently valid refresh token: at most one
// value matches at any time, any other presented value means the token is
// stale or stolen and the session must be destroyed.
type Session struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Version   int32
	CreatedAt time.Time
	ExpiresAt time.Time

	RefreshHash string
}

// AuthUser is the identity the access guard resolves and attaches
// to the request context
type AuthUser struct {
	UserID    uuid.UUID
	SessionID uuid.UUID
	Version   int32
}
