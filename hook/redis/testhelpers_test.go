//go:build integration

package redis_test

import (
	"context"
	"strings"
	"testing"

	"github.com/marcelsud/webhook-workflow/hook/redis"
	"github.com/stretchr/testify/require"
	testcontainersredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

// startHookStore runs a throwaway Redis and returns a hook store connected to it.
// The container and the store are released when the test ends.
func startHookStore(t *testing.T, ctx context.Context) *redis.Repository {
	t.Helper()

	container, err := testcontainersredis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err, "starting redis container")
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("terminating redis container: %v", err)
		}
	})

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err, "reading redis address")

	repo, err := redis.NewRepository(strings.TrimPrefix(uri, "redis://"), "", 0)
	require.NoError(t, err, "connecting hook store")
	t.Cleanup(func() { repo.Close(context.Background()) })

	return repo
}
