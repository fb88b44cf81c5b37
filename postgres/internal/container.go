// Package internal contains test helpers for the postgres integration.
package internal

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	containerImage    = "postgres:16-alpine"
	containerDatabase = "eventstore"
	containerUser     = "postgres"
	containerPassword = "notasecret"
)

// PostgresContainer is a handle on a disposable Postgres instance
// started through testcontainers, used by the integration test suite.
type PostgresContainer struct {
	*postgres.PostgresContainer

	ConnectionDSN  string
	PostgresConfig *pgx.ConnConfig
}

// NewPostgresContainer starts a new disposable Postgres container and
// waits until it is ready to accept connections.
//
// Callers own the container lifecycle and should terminate it
// once the test run is over.
func NewPostgresContainer(ctx context.Context) (*PostgresContainer, error) {
	// Postgres restarts once during initialization, hence the log line
	// must be seen twice before the database is actually usable.
	readiness := wait.ForLog("database system is ready to accept connections").
		WithOccurrence(2).
		WithStartupTimeout(5 * time.Second)

	container, err := postgres.Run(ctx, containerImage,
		postgres.WithDatabase(containerDatabase),
		postgres.WithUsername(containerUser),
		postgres.WithPassword(containerPassword),
		testcontainers.WithWaitStrategy(readiness),
	)
	if err != nil {
		return nil, fmt.Errorf("internal.NewPostgresContainer: failed to start container, %w", err)
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, fmt.Errorf("internal.NewPostgresContainer: failed to get connection dsn, %w", err)
	}

	config, err := pgx.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("internal.NewPostgresContainer: failed to parse pgx config, %w", err)
	}

	return &PostgresContainer{
		PostgresContainer: container,
		ConnectionDSN:     dsn,
		PostgresConfig:    config,
	}, nil
}
