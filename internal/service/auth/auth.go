// Package auth implements the token issuance and session rotation core:
// password hashing, the access/refresh token codec and the session
// authority that makes refresh tokens single-use.
package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/filesapi/auth/internal/apperrors"
	"github.com/filesapi/auth/internal/models"
	"github.com/filesapi/auth/internal/repository"
)

// AuthService owns the session state machine. It holds no locks itself:
// rotation atomicity is delegated to SessionRepo.SwapRefresh.
type AuthService struct {
	codec    *TokenCodec
	sessions repository.SessionRepo
}

func NewAuthService(codec *TokenCodec, sessions repository.SessionRepo) (*AuthService, error) {
	if codec == nil {
		return nil, errors.New("token codec must not be nil")
	}
	if sessions == nil {
		return nil, errors.New("session repo must not be nil")
	}

	return &AuthService{
		codec:    codec,
		sessions: sessions,
	}, nil
}

// IssuePair creates a session and returns the access and refresh tokens
// bound to it.
//
// Issuance is two-step because the refresh token must embed the session id,
// which does not exist before the session row does: first the session is
// created with the hash of a throwaway refresh token, then the real pair is
// signed with the allocated id and the final hash committed. A session whose
// final hash could not be committed is revoked, never left with a
// placeholder that no presented token can match.
func (s *AuthService) IssuePair(ctx context.Context, userID uuid.UUID) (models.TokenPair, error) {
	var pair models.TokenPair

	placeholder, err := s.codec.SignRefresh(userID, uuid.New(), 1)
	if err != nil {
		return pair, err
	}

	session, err := s.sessions.Create(ctx, userID, hashToken(placeholder.Value), time.Now().Add(s.codec.RefreshTTL()))
	if err != nil {
		return pair, fmt.Errorf("error while creating session. Err: %w", err)
	}

	access, err := s.codec.SignAccess(userID, session.ID, session.Version)
	if err != nil {
		return pair, err
	}
	refresh, err := s.codec.SignRefresh(userID, session.ID, session.Version)
	if err != nil {
		return pair, err
	}

	if err := s.sessions.UpdateRefresh(ctx, session.ID, hashToken(refresh.Value)); err != nil {
		_ = s.sessions.Revoke(ctx, session.ID)
		return pair, fmt.Errorf("error while committing refresh hash. Err: %w", err)
	}

	return models.TokenPair{Access: access, Refresh: refresh}, nil
}

// Rotate exchanges a refresh token for a fresh pair. Refresh tokens are
// single-use: a successful rotation permanently invalidates the presented
// one. A presented token whose hash does not match the stored one is proof
// of staleness or theft, and either way the session is destroyed
// (fail-closed) and apperrors.ErrRefreshReused returned.
func (s *AuthService) Rotate(ctx context.Context, refresh string) (models.TokenPair, error) {
	var pair models.TokenPair

	claims, err := s.codec.VerifyRefresh(refresh)
	if err != nil {
		return pair, fmt.Errorf("%w: %w", apperrors.ErrInvalidCredential, err)
	}

	session, err := s.sessions.GetByID(ctx, claims.SessionID)
	switch {
	case errors.Is(err, apperrors.ErrSessionNotFound):
		return pair, apperrors.ErrSessionRevoked
	case err != nil:
		return pair, fmt.Errorf("error while loading session. Err: %w", err)
	}

	if !session.ExpiresAt.After(time.Now()) || session.Version != claims.Version {
		return pair, apperrors.ErrSessionRevoked
	}

	access, err := s.codec.SignAccess(session.UserID, session.ID, session.Version)
	if err != nil {
		return pair, err
	}
	next, err := s.codec.SignRefresh(session.UserID, session.ID, session.Version)
	if err != nil {
		return pair, err
	}

	err = s.sessions.SwapRefresh(ctx, session.ID, hashToken(refresh), hashToken(next.Value))
	switch {
	case err == nil:
		return models.TokenPair{Access: access, Refresh: next}, nil
	case errors.Is(err, apperrors.ErrRefreshHashMismatch):
		// Replay detected: stale or stolen, no way to tell which.
		// Destroy the session rather than guess.
		_ = s.sessions.Revoke(ctx, session.ID)
		return pair, apperrors.ErrRefreshReused
	case errors.Is(err, apperrors.ErrSessionNotFound):
		return pair, apperrors.ErrSessionRevoked
	default:
		return pair, fmt.Errorf("error while rotating refresh token. Err: %w", err)
	}
}

// Authenticate verifies an access token and cross-checks it against the
// live session record. Used by the access guard on every request.
func (s *AuthService) Authenticate(ctx context.Context, access string) (models.AuthUser, error) {
	claims, err := s.codec.VerifyAccess(access)
	if err != nil {
		return models.AuthUser{}, fmt.Errorf("%w: %w", apperrors.ErrInvalidCredential, err)
	}

	session, err := s.sessions.GetByID(ctx, claims.SessionID)
	switch {
	case errors.Is(err, apperrors.ErrSessionNotFound):
		return models.AuthUser{}, apperrors.ErrSessionRevoked
	case err != nil:
		return models.AuthUser{}, fmt.Errorf("error while loading session. Err: %w", err)
	}

	// Version mismatch rejects every access token minted before a bump,
	// even though its signature is still valid
	if !session.ExpiresAt.After(time.Now()) || session.Version != claims.Version {
		return models.AuthUser{}, apperrors.ErrSessionRevoked
	}

	return models.AuthUser{
		UserID:    session.UserID,
		SessionID: session.ID,
		Version:   session.Version,
	}, nil
}

// RevokeSession removes the session regardless of state. Idempotent.
func (s *AuthService) RevokeSession(ctx context.Context, id uuid.UUID) error {
	return s.sessions.Revoke(ctx, id)
}

// RevokeByAccessToken is the logout path: best-effort. A token that fails
// verification belongs to nobody, so there is nothing left to log out and
// no error is surfaced. Store failures still are.
func (s *AuthService) RevokeByAccessToken(ctx context.Context, access string) error {
	claims, err := s.codec.VerifyAccess(access)
	if err != nil {
		return nil
	}

	return s.sessions.Revoke(ctx, claims.SessionID)
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
