package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskman-api/internal/cache"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const defaultTestRedisAddr = "localhost:6379"

func testRedisAddr() string {
	if addr := os.Getenv("TASKMAN_TEST_REDIS_ADDR"); addr != "" {
		return addr
	}
	return defaultTestRedisAddr
}

// setupTestCache skips the test when no Redis server is reachable.
func setupTestCache(t *testing.T) (*Cache, *goredis.Client) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	client, err := NewClient(ctx, testRedisAddr())
	if err != nil {
		t.Skipf("Redis not available at %s: %v", testRedisAddr(), err)
	}

	prefix := "taskman-test:" + uuid.NewString() + ":"
	c := NewCache(client, prefix, nil)
	t.Cleanup(func() {
		_ = c.DeletePrefix(context.Background(), "")
		_ = client.Close()
	})
	return c, client
}

type listing struct {
	Names []string `json:"names"`
	Total int64    `json:"total"`
}

func TestCache_SetGetDelete(t *testing.T) {
	c, _ := setupTestCache(t)
	ctx := context.Background()

	var got listing
	found, err := c.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.False(t, found)

	want := listing{Names: []string{"a", "b"}, Total: 2}
	require.NoError(t, c.Set(ctx, "k", want, time.Minute))

	found, err = c.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, want, got)

	require.NoError(t, c.Delete(ctx, "k"))
	found, err = c.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestCache_Ping(t *testing.T) {
	c, client := setupTestCache(t)
	require.NoError(t, c.Ping(context.Background()))

	require.NoError(t, client.Close())
	assert.Error(t, c.Ping(context.Background()))
}

func TestCache_NonPositiveTTLEvicts(t *testing.T) {
	c, client := setupTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", listing{Total: 1}, time.Minute))
	require.NoError(t, c.Set(ctx, "k", listing{Total: 2}, 0))

	n, err := client.Exists(ctx, c.prefix+"k").Result()
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestCache_DeletePrefix(t *testing.T) {
	c, _ := setupTestCache(t)
	ctx := context.Background()
	user := uuid.New()
	other := uuid.New()

	require.NoError(t, c.Set(ctx, cache.ListingKey(user), listing{Total: 1}, time.Minute))
	require.NoError(t, c.Set(ctx, cache.FilteredListingKey(user, "page=3"), listing{Total: 2}, time.Minute))
	require.NoError(t, c.Set(ctx, cache.ListingKey(other), listing{Total: 3}, time.Minute))

	require.NoError(t, c.DeletePrefix(ctx, cache.ListingKey(user)))

	var got listing
	found, _ := c.Get(ctx, cache.ListingKey(user), &got)
	assert.False(t, found)
	found, _ = c.Get(ctx, cache.FilteredListingKey(user, "page=3"), &got)
	assert.False(t, found)
	found, _ = c.Get(ctx, cache.ListingKey(other), &got)
	assert.True(t, found)
}

func TestEscapePattern(t *testing.T) {
	t.Parallel()
	assert.Equal(t, `tasks_abc`, escapePattern("tasks_abc"))
	assert.Equal(t, `a\*b\?c\[d\]\\`, escapePattern(`a*b?c[d]\`))
}

func TestNewCache_NilClientPanics(t *testing.T) {
	t.Parallel()
	assert.Panics(t, func() { NewCache(nil, "", nil) })
}
