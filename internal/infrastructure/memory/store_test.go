package memory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/ErlanBelekov/sections-api/internal/domain"
	"github.com/ErlanBelekov/sections-api/internal/repository"
)

var (
	_ repository.UserRepository     = (*Store)(nil)
	_ repository.DocumentRepository = (*Store)(nil)
)

func TestStore_CreateAssignsSequentialIDs(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	a, err := s.Create(ctx, &domain.User{Username: "alice", PasswordHash: "h1"})
	if err != nil {
		t.Fatalf("create alice: %v", err)
	}
	b, err := s.Create(ctx, &domain.User{Username: "bob", PasswordHash: "h2"})
	if err != nil {
		t.Fatalf("create bob: %v", err)
	}
	if a.ID != 1 || b.ID != 2 {
		t.Fatalf("expected ids 1 and 2, got %d and %d", a.ID, b.ID)
	}
	if a.CreatedAt.IsZero() {
		t.Error("expected created_at to be set")
	}
}

func TestStore_CreateDuplicateUsername(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	if _, err := s.Create(ctx, &domain.User{Username: "alice", PasswordHash: "h"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	_, err := s.Create(ctx, &domain.User{Username: "alice", PasswordHash: "other"})
	if !errors.Is(err, domain.ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}

	// Usernames are case-sensitive.
	if _, err := s.Create(ctx, &domain.User{Username: "Alice", PasswordHash: "h"}); err != nil {
		t.Fatalf("create Alice: %v", err)
	}
}

func TestStore_FindByUsername(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	email := "a@example.com"

	if _, err := s.Create(ctx, &domain.User{Username: "alice", Email: &email, PasswordHash: "h"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := s.FindByUsername(ctx, "alice")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.Email == nil || *got.Email != email {
		t.Errorf("expected email %q, got %v", email, got.Email)
	}

	*got.Email = "mutated"
	again, _ := s.FindByUsername(ctx, "alice")
	if *again.Email != email {
		t.Error("returned user aliases stored state")
	}

	if _, err := s.FindByUsername(ctx, "nobody"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestStore_UpsertReplacesInPlace(t *testing.T) {
	t0 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := t0
	s := NewStore().WithClock(func() time.Time { return clock })
	ctx := context.Background()

	first, err := s.Upsert(ctx, 1, json.RawMessage(`[{"v":1}]`))
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	if !first.Created {
		t.Fatal("expected first save to create")
	}

	clock = t0.Add(time.Minute)
	second, err := s.Upsert(ctx, 1, json.RawMessage(`[{"v":2}]`))
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if second.Created {
		t.Fatal("expected second save to update")
	}
	if second.Document.ID != first.Document.ID {
		t.Errorf("document id changed: %d -> %d", first.Document.ID, second.Document.ID)
	}
	if !second.Document.CreatedAt.Equal(t0) {
		t.Errorf("created_at moved to %v", second.Document.CreatedAt)
	}
	if !second.Document.UpdatedAt.Equal(clock) {
		t.Errorf("expected updated_at %v, got %v", clock, second.Document.UpdatedAt)
	}

	got, err := s.GetByOwner(ctx, 1)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(got.Content) != `[{"v":2}]` {
		t.Errorf("expected latest content, got %s", got.Content)
	}
}

func TestStore_GetByOwnerMissing(t *testing.T) {
	s := NewStore()
	if _, err := s.GetByOwner(context.Background(), 42); !errors.Is(err, domain.ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound, got %v", err)
	}
}

func TestStore_ConcurrentUpsertsKeepOneDocumentPerOwner(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	const writers = 50
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created int
		ids     = make(map[domain.DocumentID]struct{})
	)
	for i := range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := s.Upsert(ctx, 7, json.RawMessage(fmt.Sprintf(`[{"n":%d}]`, i)))
			if err != nil {
				t.Errorf("upsert: %v", err)
				return
			}
			mu.Lock()
			defer mu.Unlock()
			if res.Created {
				created++
			}
			ids[res.Document.ID] = struct{}{}
		}()
	}
	wg.Wait()

	if created != 1 {
		t.Errorf("expected exactly one create, got %d", created)
	}
	if len(ids) != 1 {
		t.Errorf("expected a single document id, got %d", len(ids))
	}
	if len(s.documents) != 1 {
		t.Errorf("expected one stored document, got %d", len(s.documents))
	}
}

func TestStore_ConcurrentRegisterSameUsername(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	const racers = 20
	results := make(chan error, racers)
	var wg sync.WaitGroup
	for range racers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Create(ctx, &domain.User{Username: "alice", PasswordHash: "h"})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var ok, taken int
	for err := range results {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, domain.ErrUsernameTaken):
			taken++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	if ok != 1 || taken != racers-1 {
		t.Errorf("expected 1 success and %d conflicts, got %d and %d", racers-1, ok, taken)
	}
}

func TestStore_CancelledContext(t *testing.T) {
	s := NewStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := s.Create(ctx, &domain.User{Username: "x"}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestStore_WithClockWhileSaving(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	fixed := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	var wg sync.WaitGroup
	for i := range 10 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.WithClock(func() time.Time { return fixed })
		}()
		go func() {
			defer wg.Done()
			if _, err := s.Upsert(ctx, domain.UserID(i+1), json.RawMessage(`[]`)); err != nil {
				t.Errorf("upsert: %v", err)
			}
		}()
	}
	wg.Wait()

	res, err := s.Upsert(ctx, 100, json.RawMessage(`[]`))
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if !res.Document.CreatedAt.Equal(fixed) {
		t.Errorf("created_at = %v, want %v", res.Document.CreatedAt, fixed)
	}
}
