package postgres_test

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Migorithm/DDD/internal/account"
	"github.com/Migorithm/DDD/internal/eventstoretest"
	"github.com/Migorithm/DDD/postgres"
	"github.com/Migorithm/DDD/postgres/internal"
)

func TestEventStore(t *testing.T) {
	if testing.Short() {
		t.SkipNow()
	}

	ctx := context.Background()

	container, err := internal.NewPostgresContainer(ctx)
	require.NoError(t, err)

	t.Cleanup(func() {
		assert.NoError(t, container.Terminate(context.Background()))
	})

	require.NoError(t, postgres.RunMigrations(container.ConnectionDSN))

	conn, err := pgxpool.New(ctx, container.ConnectionDSN)
	require.NoError(t, err)

	t.Cleanup(conn.Close)

	eventStore := postgres.EventStore{
		Conn:  conn,
		Serde: account.EventSerde,
	}

	eventstoretest.EventStore(eventStore)(t)
}
