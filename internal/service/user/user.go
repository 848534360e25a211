package user

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/filesapi/auth/internal/apperrors"
	"github.com/filesapi/auth/internal/models"
	"github.com/filesapi/auth/internal/repository"
	"github.com/filesapi/auth/internal/service/auth"
)

// TokenIssuer creates a session and mints the token pair for it
type TokenIssuer interface {
	IssuePair(ctx context.Context, userID uuid.UUID) (models.TokenPair, error)
}

// UserService handles the primary authentication: registration and login.
// Session bookkeeping belongs to the issuer, not here.
type UserService struct {
	hasher   auth.PasswordHasher
	issuer   TokenIssuer
	userRepo repository.UserRepo
}

func NewService(hasher auth.PasswordHasher, issuer TokenIssuer, userRepo repository.UserRepo) *UserService {
	if hasher == nil {
		hasher = auth.BcryptHasher{}
	}

	return &UserService{
		hasher:   hasher,
		issuer:   issuer,
		userRepo: userRepo,
	}
}

func (s *UserService) Register(ctx context.Context, username string, password string) (models.TokenPair, error) {
	var pair models.TokenPair

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return pair, fmt.Errorf("can't use this as password. Err: %w", err)
	}

	user, err := s.userRepo.CreateUser(ctx, username, hash)
	if err != nil {
		return pair, err
	}

	return s.issuer.IssuePair(ctx, user.ID)
}

func (s *UserService) Login(ctx context.Context, username string, password string) (models.TokenPair, error) {
	var pair models.TokenPair

	user, err := s.userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		// Unknown user and wrong password look the same to the caller
		return pair, apperrors.ErrUserNotFound
	}

	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		return pair, apperrors.ErrUserNotFound
	}

	return s.issuer.IssuePair(ctx, user.ID)
}

func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (models.User, error) {
	return s.userRepo.GetUserByID(ctx, id)
}
