package firestore_test

import (
	"context"
	"os"
	"testing"

	gfirestore "cloud.google.com/go/firestore"
	"github.com/stretchr/testify/require"

	"github.com/Migorithm/DDD/firestore"
	"github.com/Migorithm/DDD/internal/account"
	"github.com/Migorithm/DDD/internal/eventstoretest"
)

// Run this test against a Firestore emulator by setting both the
// FIRESTORE_EMULATOR_HOST and GOOGLE_PROJECT_ID environment variables.
func TestEventStore(t *testing.T) {
	if testing.Short() {
		t.SkipNow()
	}

	projectID, ok := os.LookupEnv("GOOGLE_PROJECT_ID")
	if !ok {
		t.Skip("GOOGLE_PROJECT_ID is not set")
	}

	ctx := context.Background()

	client, err := gfirestore.NewClient(ctx, projectID)
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, client.Close())
	})

	eventStore := firestore.EventStore{
		Client: client,
		Serde:  account.EventSerde,
	}

	eventstoretest.EventStore(eventStore)(t)
}
