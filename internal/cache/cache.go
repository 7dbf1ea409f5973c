// Package cache defines the result cache used for task listings and an
// in-process implementation of it. A Redis implementation lives in
// internal/platform/redis.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
)

// ResultCache stores JSON-serializable values under string keys.
//
// Set with a non-positive ttl stores nothing and evicts any existing entry
// for the key, so a zero TTL leaves caching effectively disabled.
type ResultCache interface {
	// Get decodes the value stored under key into dest. It reports false
	// with a nil error on a miss.
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	// DeletePrefix removes every key starting with prefix.
	DeletePrefix(ctx context.Context, prefix string) error
}

// ListingKey is the cache key of a user's task listing.
func ListingKey(userID uuid.UUID) string {
	return "tasks_" + userID.String()
}

// FilteredListingKey extends ListingKey with a digest of the listing
// parameters so that different filters never share an entry.
func FilteredListingKey(userID uuid.UUID, fingerprint string) string {
	sum := sha256.Sum256([]byte(fingerprint))
	return ListingKey(userID) + ":" + hex.EncodeToString(sum[:8])
}
