package httptransport

import (
	"log/slog"

	"github.com/ErlanBelekov/sections-api/internal/transport/http/handler"
	"github.com/ErlanBelekov/sections-api/internal/transport/http/middleware"
	"github.com/gin-gonic/gin"

	sloggin "github.com/samber/slog-gin"
)

func NewRouter(logger *slog.Logger, authHandler *handler.AuthHandler, documentHandler *handler.DocumentHandler, resolver middleware.UserResolver) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Security())
	r.Use(sloggin.New(logger))
	r.Use(middleware.Metrics())

	r.GET("/", handler.Root)

	api := r.Group("/api")
	api.POST("/register", authHandler.Register)
	api.POST("/login", authHandler.Login)

	// Protected routes
	authed := api.Group("", middleware.Auth(resolver, logger))
	authed.GET("/user/me", authHandler.Me)
	authed.GET("/sample-data", documentHandler.Sample)
	authed.POST("/save-data", documentHandler.Save)
	authed.GET("/get-data", documentHandler.Get)

	return r
}
