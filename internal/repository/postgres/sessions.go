package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/filesapi/auth/internal/apperrors"
	"github.com/filesapi/auth/internal/models"
)

type SessionRepo struct {
	db DBTX
}

const createSession = `-- name: CreateSession
INSERT INTO sessions (id, user_id, version, refresh_hash, expires_at)
VALUES ($1, $2, 1, $3, $4)
RETURNING id, user_id, version, created_at, expires_at, refresh_hash
`

func (r *SessionRepo) Create(ctx context.Context, userID uuid.UUID, refreshHash string, expiresAt time.Time) (models.Session, error) {
	rows, _ := r.db.Query(ctx, createSession, uuid.New(), userID, refreshHash, expiresAt)
	session, err := pgx.CollectOneRow(rows, rowToSession)
	if err != nil {
		return session, fmt.Errorf("db error: %w", err)
	}
	return session, nil
}

const getSession = `-- name: GetSession
SELECT id, user_id, version, created_at, expires_at, refresh_hash
FROM sessions
WHERE id = $1
`

func (r *SessionRepo) GetByID(ctx context.Context, id uuid.UUID) (models.Session, error) {
	rows, _ := r.db.Query(ctx, getSession, id)
	session, err := pgx.CollectOneRow(rows, rowToSession)

	switch {
	case err == nil:
		return session, nil
	case errors.Is(err, pgx.ErrNoRows):
		return session, apperrors.ErrSessionNotFound
	default:
		return session, fmt.Errorf("db error: %w", err)
	}
}

const updateRefresh = `-- name: UpdateRefresh
UPDATE sessions
SET refresh_hash = $2
WHERE id = $1
`

func (r *SessionRepo) UpdateRefresh(ctx context.Context, id uuid.UUID, refreshHash string) error {
	// Zero rows affected is fine: absent session is detected on next lookup
	_, err := r.db.Exec(ctx, updateRefresh, id, refreshHash)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

const swapRefresh = `-- name: SwapRefresh
UPDATE sessions
SET refresh_hash = $3
WHERE id = $1 AND refresh_hash = $2
`

// SwapRefresh replaces the stored hash only if it still equals current.
// The conditional update serializes concurrent rotations of one session
// at the database: exactly one of them swaps, the rest see a mismatch.
func (r *SessionRepo) SwapRefresh(ctx context.Context, id uuid.UUID, current string, next string) error {
	tag, err := r.db.Exec(ctx, swapRefresh, id, current, next)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	// Distinguish "session gone" from "hash changed under us"
	_, err = r.GetByID(ctx, id)
	switch {
	case err == nil:
		return apperrors.ErrRefreshHashMismatch
	case errors.Is(err, apperrors.ErrSessionNotFound):
		return apperrors.ErrSessionNotFound
	default:
		return err
	}
}

const revokeSession = `-- name: RevokeSession
DELETE FROM sessions
WHERE id = $1
`

func (r *SessionRepo) Revoke(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, revokeSession, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func rowToSession(row pgx.CollectableRow) (models.Session, error) {
	var s models.Session
	err := row.Scan(&s.ID, &s.UserID, &s.Version, &s.CreatedAt, &s.ExpiresAt, &s.RefreshHash)
	return s, err
}
