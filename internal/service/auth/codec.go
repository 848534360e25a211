package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/filesapi/auth/internal/apperrors"
	"github.com/filesapi/auth/internal/models"
)

const (
	defaultSigningMethod   = "HS256"
	defaultAccessTokenTTL  = 10 * time.Minute
	defaultRefreshTokenTTL = 24 * time.Hour
)

// Claims carried by both access and refresh tokens
type TokenClaims struct {
	jwt.RegisteredClaims
	UserID    uuid.UUID `json:"uid"`
	SessionID uuid.UUID `json:"sid"`
	Version   int32     `json:"ver"`
}

// Token codec config with sensible defaults
type CodecConfig struct {
	// Secrets to sign access and refresh tokens
	// Both required, must differ: a token of one kind must never verify
	// against the other kind's secret
	AccessSecret  string
	RefreshSecret string

	// JWT MAC (Message Authentication Code) algorithm
	// If not set than default is used
	Alg string

	// Access and refresh token lifetimes
	// If not set than default is used
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// TokenCodec signs and verifies the two token kinds against their own
// secrets. There is no operation that crosses kinds.
type TokenCodec struct {
	accessKey  string
	refreshKey string

	alg jwt.SigningMethod

	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewTokenCodec(cfg CodecConfig) (*TokenCodec, error) {
	if cfg.AccessSecret == "" || cfg.RefreshSecret == "" {
		return nil, errors.New("both access and refresh secrets must not be empty")
	}
	if cfg.AccessSecret == cfg.RefreshSecret {
		return nil, errors.New("access and refresh secrets must differ")
	}

	if cfg.Alg == "" {
		cfg.Alg = defaultSigningMethod
	}
	alg := jwt.GetSigningMethod(cfg.Alg)
	if alg == nil {
		return nil, fmt.Errorf("unknown signing method %q", cfg.Alg)
	}

	setDefaultDuration := func(field *time.Duration, def time.Duration) {
		if *field == 0 {
			*field = def
		}
	}
	setDefaultDuration(&cfg.AccessTTL, defaultAccessTokenTTL)
	setDefaultDuration(&cfg.RefreshTTL, defaultRefreshTokenTTL)

	return &TokenCodec{
		accessKey:  cfg.AccessSecret,
		refreshKey: cfg.RefreshSecret,
		alg:        alg,
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
	}, nil
}

func (c *TokenCodec) AccessTTL() time.Duration  { return c.accessTTL }
func (c *TokenCodec) RefreshTTL() time.Duration { return c.refreshTTL }

func (c *TokenCodec) SignAccess(userID uuid.UUID, sessionID uuid.UUID, version int32) (models.IssuedToken, error) {
	return c.sign(userID, sessionID, version, c.accessKey, c.accessTTL)
}

func (c *TokenCodec) SignRefresh(userID uuid.UUID, sessionID uuid.UUID, version int32) (models.IssuedToken, error) {
	return c.sign(userID, sessionID, version, c.refreshKey, c.refreshTTL)
}

func (c *TokenCodec) VerifyAccess(token string) (TokenClaims, error) {
	return c.verify(token, c.accessKey)
}

func (c *TokenCodec) VerifyRefresh(token string) (TokenClaims, error) {
	return c.verify(token, c.refreshKey)
}

func (c *TokenCodec) sign(userID uuid.UUID, sessionID uuid.UUID, version int32, key string, ttl time.Duration) (models.IssuedToken, error) {
	now := time.Now().Truncate(time.Second)
	expiresAt := now.Add(ttl)

	token := jwt.NewWithClaims(
		c.alg,
		TokenClaims{
			RegisteredClaims: jwt.RegisteredClaims{
				ID:        uuid.NewString(),
				IssuedAt:  jwt.NewNumericDate(now),
				ExpiresAt: jwt.NewNumericDate(expiresAt),
			},
			UserID:    userID,
			SessionID: sessionID,
			Version:   version,
		},
	)

	signed, err := token.SignedString([]byte(key))
	if err != nil {
		return models.IssuedToken{}, fmt.Errorf("error while signing token. Err: %w", err)
	}

	return models.IssuedToken{Value: signed, ExpiresAt: expiresAt}, nil
}

func (c *TokenCodec) verify(token string, key string) (TokenClaims, error) {
	claims := TokenClaims{}

	_, err := jwt.ParseWithClaims(
		token,
		&claims,
		func(t *jwt.Token) (any, error) { return []byte(key), nil },
		// Tokens signed with any other method are rejected outright,
		// algorithm confusion is never a fallback
		jwt.WithValidMethods([]string{c.alg.Alg()}),
		// Missing exp claim is a protocol violation, not a benign default
		jwt.WithExpirationRequired(),
	)

	switch {
	case err == nil:
		return claims, nil
	case errors.Is(err, jwt.ErrTokenExpired):
		return TokenClaims{}, fmt.Errorf("%w: %w", apperrors.ErrTokenExpired, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return TokenClaims{}, fmt.Errorf("%w: %w", apperrors.ErrInvalidSignature, err)
	default:
		return TokenClaims{}, fmt.Errorf("%w: %w", apperrors.ErrMalformedToken, err)
	}
}
