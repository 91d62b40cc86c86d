package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ErlanBelekov/sections-api/internal/auth"
	"github.com/ErlanBelekov/sections-api/internal/domain"
	"github.com/ErlanBelekov/sections-api/internal/metrics"
	"github.com/ErlanBelekov/sections-api/internal/repository"
)

const defaultTokenTTL = 24 * time.Hour

type passwordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, encoded string) bool
}

type tokenService interface {
	Issue(subject string, ttl time.Duration) (string, domain.Claims, error)
	Verify(raw string) (domain.Claims, error)
}

type AuthUsecase struct {
	users    repository.UserRepository
	hasher   passwordHasher
	tokens   tokenService
	tokenTTL time.Duration

	// decoy is verified against when the username is unknown so that both
	// login failure paths cost one hash comparison.
	decoy string
}

const decoyPassword = "decoy-password-for-unknown-users"

// NewAuthUsecase hashes the decoy up front and fails if the hasher cannot.
func NewAuthUsecase(users repository.UserRepository, hasher passwordHasher, tokens tokenService, tokenTTL time.Duration) (*AuthUsecase, error) {
	if tokenTTL <= 0 {
		tokenTTL = defaultTokenTTL
	}
	decoy, err := hasher.Hash(decoyPassword)
	if err != nil {
		return nil, fmt.Errorf("hash decoy password: %w", err)
	}
	return &AuthUsecase{
		users:    users,
		hasher:   hasher,
		tokens:   tokens,
		tokenTTL: tokenTTL,
		decoy:    decoy,
	}, nil
}

type RegisterInput struct {
	Username string
	Password string
	Email    *string
}

// Register stores a new user with a hashed password. Returns
// domain.ErrUsernameTaken if the username is already in use.
func (u *AuthUsecase) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	hash, err := u.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	created, err := u.users.Create(ctx, &domain.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hash,
	})
	if err != nil {
		if errors.Is(err, domain.ErrUsernameTaken) {
			metrics.AuthAttemptsTotal.WithLabelValues("register", "conflict").Inc()
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	metrics.AuthAttemptsTotal.WithLabelValues("register", "success").Inc()
	return created, nil
}

type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
}

// Login checks credentials and returns a signed token. An unknown username
// and a wrong password both return domain.ErrUnauthorized.
func (u *AuthUsecase) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	user, err := u.VerifyCredentials(ctx, username, password)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			metrics.AuthAttemptsTotal.WithLabelValues("login", "unauthorized").Inc()
		}
		return nil, err
	}

	signed, claims, err := u.tokens.Issue(user.Username, u.tokenTTL)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	metrics.AuthAttemptsTotal.WithLabelValues("login", "success").Inc()
	return &LoginResult{Token: signed, ExpiresAt: claims.ExpiresAt, User: user}, nil
}

func (u *AuthUsecase) VerifyCredentials(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := u.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			u.hasher.Verify(password, u.decoy)
			return nil, domain.ErrUnauthorized
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if !u.hasher.Verify(password, user.PasswordHash) {
		return nil, domain.ErrUnauthorized
	}
	return user, nil
}

// CurrentUser resolves an Authorization header to the calling user.
func (u *AuthUsecase) CurrentUser(ctx context.Context, rawCredential string) (*domain.User, error) {
	return auth.Resolve(ctx, u.tokens, u.users, rawCredential)
}
