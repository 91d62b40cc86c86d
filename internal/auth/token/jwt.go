// Package token issues and verifies the HS256 bearer tokens handed out at login.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/ErlanBelekov/sections-api/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Service signs with a process-wide secret fixed at construction. It holds no
// other state, so it is safe for concurrent use.
type Service struct {
	key []byte
	now func() time.Time
}

func NewService(key []byte) *Service {
	return &Service{key: key, now: time.Now}
}

// WithClock returns a copy of s that reads time from now. Used by tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	return &Service{key: s.key, now: now}
}

// Issue signs a token for subject that expires at now+ttl.
func (s *Service) Issue(subject string, ttl time.Duration) (string, domain.Claims, error) {
	now := s.now()
	rc := jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, rc).SignedString(s.key)
	if err != nil {
		return "", domain.Claims{}, fmt.Errorf("sign jwt: %w", err)
	}
	return signed, toClaims(&rc), nil
}

// Verify checks signature, structure and expiry. It never touches storage.
// Every failure is reported as domain.ErrTokenInvalid.
func (s *Service) Verify(raw string) (domain.Claims, error) {
	var rc jwt.RegisteredClaims
	tok, err := jwt.ParseWithClaims(raw, &rc, func(t *jwt.Token) (any, error) {
		return s.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return domain.Claims{}, errors.Join(domain.ErrTokenInvalid, err)
	}
	if !tok.Valid || rc.Subject == "" {
		return domain.Claims{}, domain.ErrTokenInvalid
	}
	return toClaims(&rc), nil
}

func toClaims(rc *jwt.RegisteredClaims) domain.Claims {
	c := domain.Claims{ID: rc.ID, Subject: rc.Subject}
	if rc.IssuedAt != nil {
		c.IssuedAt = rc.IssuedAt.Time
	}
	if rc.ExpiresAt != nil {
		c.ExpiresAt = rc.ExpiresAt.Time
	}
	return c
}
