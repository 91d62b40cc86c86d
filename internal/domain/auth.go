package domain

import (
	"errors"
	"time"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrUsernameTaken = errors.New("username already exists")
	ErrTokenInvalid  = errors.New("token is invalid or expired")
	// ErrUnauthorized covers bad credentials, bad tokens and vanished accounts alike.
	ErrUnauthorized = errors.New("unauthorized")
)

type UserID int64

type User struct {
	ID           UserID
	Username     string
	Email        *string
	PasswordHash string
	CreatedAt    time.Time
}

// Claims is what a verified token tells us about the caller.
type Claims struct {
	ID        string
	Subject   string // username
	IssuedAt  time.Time
	ExpiresAt time.Time
}
