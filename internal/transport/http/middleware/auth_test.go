package middleware_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ErlanBelekov/sections-api/internal/domain"
	"github.com/ErlanBelekov/sections-api/internal/reqctx"
	"github.com/ErlanBelekov/sections-api/internal/transport/http/middleware"
	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeResolver struct {
	currentUser func(ctx context.Context, raw string) (*domain.User, error)
}

func (f *fakeResolver) CurrentUser(ctx context.Context, raw string) (*domain.User, error) {
	return f.currentUser(ctx, raw)
}

// newEngine builds a minimal gin engine with the Auth middleware protecting GET /protected.
// The handler writes the resolved username so we can assert it was set.
func newEngine(r middleware.UserResolver) *gin.Engine {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	e := gin.New()
	e.GET("/protected", middleware.Auth(r, logger), func(c *gin.Context) {
		u, ok := reqctx.User(c.Request.Context())
		if !ok {
			c.Status(http.StatusTeapot)
			return
		}
		c.String(http.StatusOK, u.Username)
	})
	return e
}

func TestAuth_ResolvedUser_PassesThrough(t *testing.T) {
	var gotHeader string
	r := &fakeResolver{currentUser: func(_ context.Context, raw string) (*domain.User, error) {
		gotHeader = raw
		return &domain.User{ID: 1, Username: "alice"}, nil
	}}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer abc")
	newEngine(r).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if w.Body.String() != "alice" {
		t.Errorf("body = %q, want alice", w.Body.String())
	}
	if gotHeader != "Bearer abc" {
		t.Errorf("resolver got %q, want the raw header", gotHeader)
	}
}

func TestAuth_Unauthorized_Returns401(t *testing.T) {
	r := &fakeResolver{currentUser: func(context.Context, string) (*domain.User, error) {
		return nil, domain.ErrUnauthorized
	}}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	newEngine(r).ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
	if w.Header().Get("WWW-Authenticate") != "Bearer" {
		t.Errorf("missing WWW-Authenticate challenge")
	}
}

func TestAuth_StoreFailure_Returns500(t *testing.T) {
	r := &fakeResolver{currentUser: func(context.Context, string) (*domain.User, error) {
		return nil, errors.New("resolve user: connection refused")
	}}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer abc")
	newEngine(r).ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
}
