package testutil

import (
	"context"
	"testing"

	"github.com/redis/go-redis/v9"
	redismodule "github.com/testcontainers/testcontainers-go/modules/redis"
)

// SetupRedisContainer starts a throwaway Redis instance for repository tests
// and registers its teardown on tb. Tests are skipped when Docker is not
// available.
func SetupRedisContainer(ctx context.Context, tb testing.TB) *redis.Client {
	tb.Helper()

	defer func() {
		if r := recover(); r != nil {
			tb.Skipf("failed to start redis container: %v", r)
		}
	}()

	container, err := redismodule.Run(ctx, "redis:8-alpine")
	if err != nil {
		tb.Skipf("failed to start redis container: %v", err)
	}

	endpoint, err := container.Endpoint(ctx, "")
	if err != nil {
		tb.Skipf("failed to get redis endpoint: %v", err)
	}

	client := redis.NewClient(&redis.Options{Addr: endpoint})

	tb.Cleanup(func() {
		if err := client.Close(); err != nil {
			tb.Logf("failed to close redis client: %v", err)
		}
		if err := container.Terminate(ctx); err != nil {
			tb.Logf("failed to terminate redis container: %v", err)
		}
	})

	return client
}
