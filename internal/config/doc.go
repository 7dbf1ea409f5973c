// Package config handles configuration loading, parsing, and validation
// from environment variables (TASKMAN_ prefix) and an optional config.yaml.
// It provides type-safe access to server, database, auth and cache settings.
package config
