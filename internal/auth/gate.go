// Package auth turns an inbound bearer credential into a known user.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ErlanBelekov/sections-api/internal/domain"
)

// TokenVerifier is satisfied by *token.Service.
type TokenVerifier interface {
	Verify(raw string) (domain.Claims, error)
}

// UserFinder is satisfied by repository.UserRepository.
type UserFinder interface {
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	raw := strings.TrimSpace(header[len(prefix):])
	return raw, raw != ""
}

// Resolve maps a raw Authorization header to the calling user.
//
// A missing or invalid token and a token for an account that no longer exists
// all yield domain.ErrUnauthorized. Only storage failures come back as
// something else.
func Resolve(ctx context.Context, tokens TokenVerifier, users UserFinder, rawCredential string) (*domain.User, error) {
	raw, ok := BearerToken(rawCredential)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	claims, err := tokens.Verify(raw)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}

	user, err := users.FindByUsername(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, fmt.Errorf("resolve user: %w", err)
	}
	return user, nil
}
