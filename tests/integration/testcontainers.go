// Package integration runs the action engine against a real PostgreSQL
// instance via testcontainers. These tests require Docker.
//
// Usage:
//
//	go test ./tests/integration/
//
// One container serves the whole package; each test works inside its own
// organization so tests never observe each other's rows.
package integration

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/addyhq/addy-backend/internal/db"
)

// TestContainer holds the PostgreSQL container and connection details.
type TestContainer struct {
	Container testcontainers.Container
	DB        *db.DB
	Config    *db.Config
}

var suiteContainer *TestContainer

func setupWithContext(ctx context.Context) (*TestContainer, error) {
	migrationsPath, err := filepath.Abs("../../migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to resolve migrations path: %w", err)
	}

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("addy_test"),
		postgres.WithUsername("addy_user"),
		postgres.WithPassword("addy_password"),
		testcontainers.WithWaitStrategy(
			wait.ForListeningPort("5432/tcp").WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start PostgreSQL container: %w", err)
	}

	host, err := pgContainer.Host(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get container host: %w", err)
	}
	port, err := pgContainer.MappedPort(ctx, "5432")
	if err != nil {
		return nil, fmt.Errorf("failed to get container port: %w", err)
	}

	config := &db.Config{
		Host:     host,
		Port:     port.Port(),
		User:     "addy_user",
		Password: "addy_password",
		Name:     "addy_test",
		SSLMode:  "disable",
	}

	database, err := db.Connect(config)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to test database: %w", err)
	}

	if err := runMigrations(database, migrationsPath); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &TestContainer{Container: pgContainer, DB: database, Config: config}, nil
}

// runMigrations applies every numbered SQL file in order.
func runMigrations(database *db.DB, migrationsPath string) error {
	files, err := filepath.Glob(filepath.Join(migrationsPath, "*.sql"))
	if err != nil {
		return err
	}
	sort.Strings(files)

	for _, file := range files {
		content, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", file, err)
		}
		if err := database.Exec(string(content)).Error; err != nil {
			return fmt.Errorf("failed to execute migration %s: %w", file, err)
		}
	}
	return nil
}
