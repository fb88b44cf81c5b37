package postgres

import (
	"embed"
	"errors"
	"fmt"
	"net/url"

	"github.com/golang-migrate/migrate/v4"
	// Registers the postgres database driver used by migrate.
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

// migrationsTable keeps the Event Store migration history separate from
// any other go-migrate usage on the same database instance.
const migrationsTable = "eventstore_schema_migrations"

//go:embed migrations/*.sql
var migrationsFS embed.FS

// RunMigrations migrates the target database to the latest schema version
// required by the Event Store.
//
// Run it in the entrypoint of your application, before opening the
// connection pool handed to EventStore.
func RunMigrations(dsn string) error {
	u, err := url.Parse(dsn)
	if err != nil {
		return fmt.Errorf("postgres.RunMigrations: invalid dsn format, %w", err)
	}

	q := u.Query()
	q.Add("x-migrations-table", migrationsTable)
	u.RawQuery = q.Encode()

	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("postgres.RunMigrations: failed to read embedded migrations, %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, u.String())
	if err != nil {
		return fmt.Errorf("postgres.RunMigrations: failed to create migrate instance, %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("postgres.RunMigrations: failed to apply migrations, %w", err)
	}

	return nil
}
