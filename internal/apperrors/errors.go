package apperrors

import (
	"errors"
)

var (
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrUserNotFound      = errors.New("user not found")

	// Token codec failures
	ErrInvalidSignature = errors.New("token signature is invalid")
	ErrTokenExpired     = errors.New("token is expired")
	ErrMalformedToken   = errors.New("token is malformed")

	// Session protocol failures
	// ErrRefreshReused means replay was detected and the session destroyed
	ErrInvalidCredential = errors.New("credential is invalid")
	ErrSessionRevoked    = errors.New("session is revoked")
	ErrRefreshReused     = errors.New("refresh token reuse detected")

	// Store level
	ErrSessionNotFound     = errors.New("session not found")
	ErrRefreshHashMismatch = errors.New("refresh hash does not match stored value")
)
