// Package store defines interfaces for data persistence operations.
// These interfaces abstract the underlying data storage mechanism from
// the application's core logic, allowing business rules to remain
// independent of specific database technologies. Implementations live in
// internal/platform/postgres and internal/platform/sqlite.
package store
