// Package domain contains the core business entities, value objects, and
// domain logic of the application: users, tasks and their statuses, listing
// filters with pagination metadata, and field-level validation errors.
// It is independent of any specific infrastructure or delivery mechanism.
package domain
