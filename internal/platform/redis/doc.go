// Package redis provides a cache.ResultCache backed by Redis, for
// deployments that run several API instances against one cache.
package redis
