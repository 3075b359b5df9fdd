package config

// Env var names referenced in error messages and tests.
const (
	EnvAppEnv       = "AQUATRACK_APP_ENV"
	EnvAppPort      = "AQUATRACK_APP_PORT"
	EnvDBDriver     = "AQUATRACK_DB_DRIVER"
	EnvDBDSN        = "AQUATRACK_DB_DSN"
	EnvDBSQLitePath = "AQUATRACK_DB_SQLITE_PATH"
	EnvRedisURL     = "AQUATRACK_REDIS_URL"
	EnvJWTSecret    = "AQUATRACK_JWT_SECRET"
	EnvJWTIssuer    = "AQUATRACK_JWT_ISSUER"
)

// Supported database drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)
