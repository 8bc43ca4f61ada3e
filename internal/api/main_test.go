package api

import (
	"context"
	"errors"
	"io"
	"log"
	"os"
	"testing"
	"time"

	"serwer-kont/internal/config"
	"serwer-kont/internal/database"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

var testServer *Server

// fakeUploader stands in for the media store so the API tests only need a
// database container.
type fakeUploader struct{}

func (fakeUploader) Upload(_ context.Context, objectName string, _ io.Reader, _ int64, _ string) (string, error) {
	return "https://media.test/konta-media/" + objectName, nil
}

type failingUploader struct{}

func (failingUploader) Upload(_ context.Context, _ string, _ io.Reader, _ int64, _ string) (string, error) {
	return "", errors.New("media store unavailable")
}

func TestMain(m *testing.M) {
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:14-alpine",
		postgres.WithDatabase("test_api_db"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
		),
	)
	if err != nil {
		log.Fatalf("Could not start postgres: %s", err)
	}
	defer pgContainer.Terminate(ctx)

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		log.Fatalf("Could not get connection string: %s", err)
	}

	if err := database.RunMigrations(ctx, connStr); err != nil {
		log.Fatalf("Could not apply migrations: %s", err)
	}

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		log.Fatalf("Could not connect to database: %s", err)
	}

	store := database.NewStore(pool)
	cfg := &config.Config{
		JWT: config.JWTConfig{
			AccessSecret:  "api_test_access_secret",
			RefreshSecret: "api_test_refresh_secret",
			AccessTTL:     time.Hour,
			RefreshTTL:    240 * time.Hour,
		},
	}
	testServer = NewServer(cfg, store, fakeUploader{})

	os.Exit(m.Run())
}
