package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth" validate:"required"`
	Cache    CacheConfig    `mapstructure:"cache" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port                   int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel               string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	ShutdownTimeoutSeconds int    `mapstructure:"shutdown_timeout_seconds" validate:"gt=0"`
}

// DatabaseConfig contains all database-related configuration settings.
// Driver selects the store implementation: "postgres" uses pgx through
// database/sql, "sqlite" uses GORM with an embedded SQLite file.
type DatabaseConfig struct {
	Driver string `mapstructure:"driver" validate:"required,oneof=postgres sqlite"`
	URL    string `mapstructure:"url" validate:"required"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret" validate:"required,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0,lte=44640"`
	BcryptCost           int    `mapstructure:"bcrypt_cost" validate:"gte=4,lte=31"`
}

// CacheConfig controls the task listing cache.
//
// TTLMinutes <= 0 disables caching of listings: writes are dropped and any
// existing entry under the key is evicted.
type CacheConfig struct {
	Driver       string `mapstructure:"driver" validate:"required,oneof=memory redis"`
	RedisAddr    string `mapstructure:"redis_addr" validate:"required_if=Driver redis"`
	Prefix       string `mapstructure:"prefix"`
	TTLMinutes   int    `mapstructure:"ttl_minutes" validate:"gte=0"`
	KeyByFilters bool   `mapstructure:"key_by_filters"`
}
