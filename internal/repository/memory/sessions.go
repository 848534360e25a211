// Package memory holds a volatile reference implementation of the session
// repository. Development and tests only: nothing survives a restart.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/filesapi/auth/internal/apperrors"
	"github.com/filesapi/auth/internal/models"
)

type SessionRepo struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]models.Session
}

func NewSessionRepo() *SessionRepo {
	return &SessionRepo{
		sessions: make(map[uuid.UUID]models.Session),
	}
}

func (r *SessionRepo) Create(_ context.Context, userID uuid.UUID, refreshHash string, expiresAt time.Time) (models.Session, error) {
	session := models.Session{
		ID:          uuid.New(),
		UserID:      userID,
		Version:     1,
		CreatedAt:   time.Now().Truncate(time.Second),
		ExpiresAt:   expiresAt,
		RefreshHash: refreshHash,
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[session.ID] = session

	return session, nil
}

func (r *SessionRepo) GetByID(_ context.Context, id uuid.UUID) (models.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.sessions[id]
	if !ok {
		return models.Session{}, apperrors.ErrSessionNotFound
	}
	return session, nil
}

func (r *SessionRepo) UpdateRefresh(_ context.Context, id uuid.UUID, refreshHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// No-op if session is gone: caller detects absence on next lookup
	session, ok := r.sessions[id]
	if !ok {
		return nil
	}

	session.RefreshHash = refreshHash
	r.sessions[id] = session
	return nil
}

// SwapRefresh does the read-compare-write under one lock, so concurrent
// rotations of the same session see exactly one winner.
func (r *SessionRepo) SwapRefresh(_ context.Context, id uuid.UUID, current string, next string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.sessions[id]
	if !ok {
		return apperrors.ErrSessionNotFound
	}
	if session.RefreshHash != current {
		return apperrors.ErrRefreshHashMismatch
	}

	session.RefreshHash = next
	r.sessions[id] = session
	return nil
}

func (r *SessionRepo) Revoke(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, id)
	return nil
}
