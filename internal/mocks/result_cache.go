package mocks

import (
	"context"
	"time"

	"github.com/phrazzld/taskman-api/internal/cache"
	"github.com/stretchr/testify/mock"
)

// MockResultCache is a testify mock of cache.ResultCache.
type MockResultCache struct {
	mock.Mock
}

var _ cache.ResultCache = (*MockResultCache)(nil)

// Get implements cache.ResultCache.Get
func (m *MockResultCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	args := m.Called(ctx, key, dest)
	return args.Bool(0), args.Error(1)
}

// Set implements cache.ResultCache.Set
func (m *MockResultCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

// Delete implements cache.ResultCache.Delete
func (m *MockResultCache) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// DeletePrefix implements cache.ResultCache.DeletePrefix
func (m *MockResultCache) DeletePrefix(ctx context.Context, prefix string) error {
	args := m.Called(ctx, prefix)
	return args.Error(0)
}
