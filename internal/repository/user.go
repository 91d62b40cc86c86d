package repository

import (
	"context"

	"github.com/ErlanBelekov/sections-api/internal/domain"
)

type UserRepository interface {
	// Create inserts a new user. The username uniqueness constraint is the
	// only arbiter of concurrent registrations: a losing insert returns
	// domain.ErrUsernameTaken.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)

	// FindByUsername is an exact, case-sensitive lookup.
	// Returns domain.ErrUserNotFound when no row matches.
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
}
