// Package memory keeps users and documents in process memory. It backs local
// runs and handler tests; state is lost on restart.
package memory

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/ErlanBelekov/sections-api/internal/domain"
)

// Store satisfies both repository.UserRepository and
// repository.DocumentRepository. A single mutex serialises every operation,
// so username checks and per-owner upserts are atomic.
type Store struct {
	mu         sync.Mutex
	now        func() time.Time
	users      map[string]*domain.User
	documents  map[domain.UserID]*domain.Document
	nextUserID domain.UserID
	nextDocID  domain.DocumentID
}

func NewStore() *Store {
	return &Store{
		now:       time.Now,
		users:     make(map[string]*domain.User),
		documents: make(map[domain.UserID]*domain.Document),
	}
}

// WithClock replaces the timestamp source.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
	return s
}

func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[u.Username]; exists {
		return nil, domain.ErrUsernameTaken
	}

	s.nextUserID++
	stored := &domain.User{
		ID:           s.nextUserID,
		Username:     u.Username,
		Email:        cloneString(u.Email),
		PasswordHash: u.PasswordHash,
		CreatedAt:    s.now().UTC(),
	}
	s.users[u.Username] = stored
	return copyUser(stored), nil
}

func (s *Store) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return copyUser(u), nil
}

func (s *Store) Upsert(ctx context.Context, ownerID domain.UserID, content json.RawMessage) (domain.SaveResult, error) {
	if err := ctx.Err(); err != nil {
		return domain.SaveResult{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	if d, ok := s.documents[ownerID]; ok {
		d.Content = cloneBytes(content)
		d.UpdatedAt = now
		return domain.SaveResult{Document: copyDocument(d)}, nil
	}

	s.nextDocID++
	d := &domain.Document{
		ID:        s.nextDocID,
		OwnerID:   ownerID,
		Content:   cloneBytes(content),
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.documents[ownerID] = d
	return domain.SaveResult{Document: copyDocument(d), Created: true}, nil
}

func (s *Store) GetByOwner(ctx context.Context, ownerID domain.UserID) (*domain.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.documents[ownerID]
	if !ok {
		return nil, domain.ErrDocumentNotFound
	}
	return copyDocument(d), nil
}

func copyUser(u *domain.User) *domain.User {
	c := *u
	c.Email = cloneString(u.Email)
	return &c
}

func copyDocument(d *domain.Document) *domain.Document {
	c := *d
	c.Content = cloneBytes(d.Content)
	return &c
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneBytes(b json.RawMessage) json.RawMessage {
	if b == nil {
		return nil
	}
	return append(json.RawMessage(nil), b...)
}
