package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ErlanBelekov/sections-api/config"
	"github.com/ErlanBelekov/sections-api/internal/auth/password"
	"github.com/ErlanBelekov/sections-api/internal/auth/token"
	"github.com/ErlanBelekov/sections-api/internal/health"
	"github.com/ErlanBelekov/sections-api/internal/infrastructure/memory"
	"github.com/ErlanBelekov/sections-api/internal/infrastructure/postgres"
	ctxlog "github.com/ErlanBelekov/sections-api/internal/log"
	"github.com/ErlanBelekov/sections-api/internal/metrics"
	"github.com/ErlanBelekov/sections-api/internal/repository"
	"github.com/ErlanBelekov/sections-api/internal/sample"
	httptransport "github.com/ErlanBelekov/sections-api/internal/transport/http"
	"github.com/ErlanBelekov/sections-api/internal/transport/http/handler"
	"github.com/ErlanBelekov/sections-api/internal/usecase"
	"github.com/gin-gonic/gin"
	"github.com/lmittmann/tint"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := newLogger(cfg.Env, cfg.SlogLevel())

	if cfg.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	store, err := openStorage(ctx, cfg, logger)
	if err != nil {
		stop()
		log.Fatalf("storage: %v", err)
	}
	defer store.close()

	tokens := token.NewService([]byte(cfg.JWTSecret))
	authUsecase, err := usecase.NewAuthUsecase(store.users, password.NewDefault(), tokens, cfg.TokenTTL)
	if err != nil {
		stop()
		log.Fatalf("auth: %v", err)
	}
	authHandler := handler.NewAuthHandler(authUsecase, logger)

	documentUsecase := usecase.NewDocumentUsecase(store.documents, sample.NewFileSource(cfg.SampleDataPath))
	documentHandler := handler.NewDocumentHandler(documentUsecase, logger)

	metrics.Register()
	checker := health.NewChecker(logger, prometheus.DefaultRegisterer,
		health.Dependency{Name: cfg.Storage, Pinger: store.pinger},
	)

	srv := http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           httptransport.NewRouter(logger, authHandler, documentHandler, authUsecase),
		ReadHeaderTimeout: 10 * time.Second,
	}

	metricsSrv := metrics.NewServer(":"+cfg.MetricsPort, checker)

	go func() {
		logger.Info("server started", "port", cfg.Port, "storage", cfg.Storage)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	go func() {
		logger.Info("metrics server started", "port", cfg.MetricsPort)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", "error", err)
		}
	}()

	<-ctx.Done()
	stop()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", "error", err)
	}
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics server shutdown", "error", err)
	}
}

type storage struct {
	users     repository.UserRepository
	documents repository.DocumentRepository
	pinger    health.Pinger
	close     func()
}

func openStorage(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*storage, error) {
	if cfg.Storage == "memory" {
		logger.Warn("using in-memory storage; data is lost on restart")
		s := memory.NewStore()
		return &storage{users: s, documents: s, pinger: s, close: func() {}}, nil
	}

	if cfg.MigrateOnStart {
		if err := postgres.Migrate(cfg.DatabaseURL, logger.With("component", "migrate")); err != nil {
			return nil, fmt.Errorf("migrate: %w", err)
		}
	}

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("db: %w", err)
	}
	return &storage{
		users:     postgres.NewUserRepository(pool),
		documents: postgres.NewDocumentRepository(pool),
		pinger:    pool,
		close:     pool.Close,
	}, nil
}

func newLogger(env string, level slog.Level) *slog.Logger {
	var inner slog.Handler
	if env == "local" {
		inner = tint.NewHandler(os.Stdout, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		})
	} else {
		inner = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	}
	return slog.New(ctxlog.NewContextHandler(inner))
}
