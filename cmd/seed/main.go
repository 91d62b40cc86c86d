// seed registers a demo user and stores the bundled sample document for it.
// Run: go run ./cmd/seed
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/ErlanBelekov/sections-api/internal/auth/password"
	"github.com/ErlanBelekov/sections-api/internal/auth/token"
	"github.com/ErlanBelekov/sections-api/internal/domain"
	"github.com/ErlanBelekov/sections-api/internal/infrastructure/postgres"
	"github.com/ErlanBelekov/sections-api/internal/sample"
	"github.com/ErlanBelekov/sections-api/internal/usecase"
)

const (
	seedUsername = "demo"
	seedPassword = "demo-password"
	seedEmail    = "demo@sections.local"
)

func main() {
	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}
	secret := os.Getenv("JWT_SECRET")
	if len(secret) < 32 {
		log.Fatal("JWT_SECRET must be at least 32 bytes")
	}
	samplePath := os.Getenv("SAMPLE_DATA_PATH")
	if samplePath == "" {
		samplePath = "data/samples/new_sample.json"
	}

	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	if err := postgres.Migrate(dbURL, quiet); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	pool, err := postgres.NewPool(ctx, dbURL)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer pool.Close()

	users := postgres.NewUserRepository(pool)
	auth, err := usecase.NewAuthUsecase(users, password.NewDefault(), token.NewService([]byte(secret)), 24*time.Hour)
	if err != nil {
		log.Fatalf("auth: %v", err)
	}
	docs := usecase.NewDocumentUsecase(postgres.NewDocumentRepository(pool), sample.NewFileSource(samplePath))

	email := seedEmail
	_, err = auth.Register(ctx, usecase.RegisterInput{Username: seedUsername, Password: seedPassword, Email: &email})
	created := err == nil
	if err != nil && !errors.Is(err, domain.ErrUsernameTaken) {
		log.Fatalf("register: %v", err)
	}

	login, err := auth.Login(ctx, seedUsername, seedPassword)
	if err != nil {
		log.Fatalf("login as %s (was the password changed?): %v", seedUsername, err)
	}

	content, err := docs.Sample(ctx)
	if err != nil {
		log.Fatalf("sample: %v", err)
	}
	res, err := docs.Save(ctx, login.User, content)
	if err != nil {
		log.Fatalf("save: %v", err)
	}

	fmt.Println("Seed complete")
	fmt.Println()
	fmt.Printf("  User:         %s (created: %t)\n", seedUsername, created)
	fmt.Printf("  User ID:      %d\n", login.User.ID)
	fmt.Printf("  Document ID:  %d (created: %t)\n", res.Document.ID, res.Created)
	fmt.Printf("  Token expiry: %s\n", login.ExpiresAt.Format(time.RFC3339))
	fmt.Println()
	fmt.Println("How to test:")
	fmt.Println()
	fmt.Printf("    export JWT=%s\n", login.Token)
	fmt.Println("    curl -s http://localhost:8080/api/get-data -H \"Authorization: Bearer $JWT\"")
}
