package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Name  string   `json:"name"`
	Items []string `json:"items"`
}

func TestMemoryCache_SetGet(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c := NewMemoryCache()

	var got payload
	found, err := c.Get(ctx, "missing", &got)
	require.NoError(t, err)
	assert.False(t, found)

	in := payload{Name: "a", Items: []string{"x"}}
	require.NoError(t, c.Set(ctx, "k", in, time.Minute))
	in.Items[0] = "mutated"

	found, err = c.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, payload{Name: "a", Items: []string{"x"}}, got, "stored value must not alias the caller's")
}

func TestMemoryCache_NonPositiveTTLEvicts(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c := NewMemoryCache()

	require.NoError(t, c.Set(ctx, "k", payload{Name: "a"}, time.Minute))
	require.NoError(t, c.Set(ctx, "k", payload{Name: "b"}, 0))

	var got payload
	found, err := c.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, 0, c.Len())
}

func TestMemoryCache_Expiry(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewMemoryCache()
	c.now = func() time.Time { return now }

	require.NoError(t, c.Set(ctx, "k", payload{Name: "a"}, time.Minute))

	var got payload
	now = now.Add(59 * time.Second)
	found, _ := c.Get(ctx, "k", &got)
	assert.True(t, found)

	now = now.Add(time.Second)
	found, _ = c.Get(ctx, "k", &got)
	assert.False(t, found)
	assert.Equal(t, 0, c.Len())
}

func TestMemoryCache_DeleteAndPrefix(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c := NewMemoryCache()
	user := uuid.New()
	other := uuid.New()

	require.NoError(t, c.Set(ctx, ListingKey(user), 1, time.Minute))
	require.NoError(t, c.Set(ctx, FilteredListingKey(user, "page=2"), 2, time.Minute))
	require.NoError(t, c.Set(ctx, ListingKey(other), 3, time.Minute))

	require.NoError(t, c.DeletePrefix(ctx, ListingKey(user)))
	assert.Equal(t, 1, c.Len())

	require.NoError(t, c.Delete(ctx, ListingKey(other)))
	assert.Equal(t, 0, c.Len())
}

func TestMemoryCache_Concurrent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c := NewMemoryCache()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			var got int
			_ = c.Set(ctx, "k", i, time.Minute)
			_, _ = c.Get(ctx, "k", &got)
			_ = c.DeletePrefix(ctx, "k")
		}(i)
	}
	wg.Wait()
}

func TestKeys(t *testing.T) {
	t.Parallel()
	user := uuid.MustParse("6f1c2a3b-4d5e-4f60-8a7b-9c0d1e2f3a4b")

	assert.Equal(t, "tasks_6f1c2a3b-4d5e-4f60-8a7b-9c0d1e2f3a4b", ListingKey(user))

	a := FilteredListingKey(user, "page=1")
	assert.Equal(t, a, FilteredListingKey(user, "page=1"))
	assert.NotEqual(t, a, FilteredListingKey(user, "page=2"))
	assert.Contains(t, a, ListingKey(user)+":")
}
