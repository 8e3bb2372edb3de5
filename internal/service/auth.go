// Package service provides account and document business logic,
// delegating persistence to repository interfaces.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/reelplan/reelplan/internal/models"
	"github.com/reelplan/reelplan/internal/repository"
)

// ErrInvalidCredentials is returned for a bad email/password pair and for
// unknown tokens, so callers cannot distinguish the two.
var ErrInvalidCredentials = errors.New("service: invalid credentials")

// ErrEmailTaken is returned when signing up with an email that already
// has an account.
var ErrEmailTaken = errors.New("service: email already registered")

const minPasswordLength = 8

// AuthRepository defines the persistence operations required by the
// authentication service.
type AuthRepository interface {
	// EmailExists returns true if an account with the given email exists.
	EmailExists(ctx context.Context, email string) (bool, error)
	// CreateAccount inserts a new account.
	CreateAccount(ctx context.Context, acc models.Account) error
	// AccountByEmail fetches an account by email.
	AccountByEmail(ctx context.Context, email string) (models.Account, error)
	// SaveSession stores a bearer token for an account.
	SaveSession(ctx context.Context, token, userID string) error
	// AccountByToken resolves a bearer token to its account.
	AccountByToken(ctx context.Context, token string) (models.Account, error)
	// DeleteSession revokes a bearer token.
	DeleteSession(ctx context.Context, token string) error
}

// AuthService implements sign-up, sign-in, token resolution, and sign-out.
type AuthService struct {
	// repo performs the data-layer operations.
	repo AuthRepository
}

// NewAuthService constructs a new AuthService using the provided
// repository.
func NewAuthService(repo AuthRepository) *AuthService {
	return &AuthService{repo: repo}
}

// SignUp registers a new account and opens a session for it.
// Returns the account and its bearer token.
func (s *AuthService) SignUp(ctx context.Context, email, password string) (models.Account, string, error) {
	if email == "" {
		return models.Account{}, "", errors.New("service: empty email")
	}
	if len(password) < minPasswordLength {
		return models.Account{}, "", fmt.Errorf("service: password shorter than %d characters", minPasswordLength)
	}

	exists, err := s.repo.EmailExists(ctx, email)
	if err != nil {
		return models.Account{}, "", err
	}
	if exists {
		return models.Account{}, "", ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.Account{}, "", fmt.Errorf("hash password: %w", err)
	}

	acc := models.Account{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.repo.CreateAccount(ctx, acc); err != nil {
		return models.Account{}, "", err
	}

	token, err := s.openSession(ctx, acc.ID)
	if err != nil {
		return models.Account{}, "", err
	}
	return acc, token, nil
}

// SignIn verifies the credentials and opens a session.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (models.Account, string, error) {
	acc, err := s.repo.AccountByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return models.Account{}, "", ErrInvalidCredentials
	}
	if err != nil {
		return models.Account{}, "", err
	}
	if err := bcrypt.CompareHashAndPassword(acc.PasswordHash, []byte(password)); err != nil {
		return models.Account{}, "", ErrInvalidCredentials
	}

	token, err := s.openSession(ctx, acc.ID)
	if err != nil {
		return models.Account{}, "", err
	}
	return acc, token, nil
}

// Authenticate resolves a bearer token to its account.
func (s *AuthService) Authenticate(ctx context.Context, token string) (models.Account, error) {
	acc, err := s.repo.AccountByToken(ctx, token)
	if errors.Is(err, repository.ErrNotFound) {
		return models.Account{}, ErrInvalidCredentials
	}
	return acc, err
}

// SignOut revokes the bearer token.
func (s *AuthService) SignOut(ctx context.Context, token string) error {
	return s.repo.DeleteSession(ctx, token)
}

func (s *AuthService) openSession(ctx context.Context, userID string) (string, error) {
	token := uuid.NewString()
	if err := s.repo.SaveSession(ctx, token, userID); err != nil {
		return "", err
	}
	return token, nil
}
