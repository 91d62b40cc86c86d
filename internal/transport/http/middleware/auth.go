package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/ErlanBelekov/sections-api/internal/domain"
	"github.com/ErlanBelekov/sections-api/internal/reqctx"
	"github.com/gin-gonic/gin"
)

const (
	errUnauthorized   = "Invalid authentication credentials"
	errInternalServer = "Internal server error"
)

// UserResolver is satisfied by *usecase.AuthUsecase.
type UserResolver interface {
	CurrentUser(ctx context.Context, rawCredential string) (*domain.User, error)
}

// Auth resolves the Authorization header to a user and stores it on the
// request context. Every resolution failure is the same 401.
func Auth(resolver UserResolver, logger *slog.Logger) gin.HandlerFunc {
	logger = logger.With("component", "auth_middleware")

	return func(c *gin.Context) {
		user, err := resolver.CurrentUser(c.Request.Context(), c.GetHeader("Authorization"))
		if err != nil {
			if errors.Is(err, domain.ErrUnauthorized) {
				c.Header("WWW-Authenticate", "Bearer")
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errUnauthorized})
				return
			}
			logger.ErrorContext(c.Request.Context(), "resolve current user", "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
			return
		}

		c.Request = c.Request.WithContext(reqctx.WithUser(c.Request.Context(), user))
		c.Next()
	}
}
