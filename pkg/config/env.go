package config

// EnvPrefix scopes every environment variable the service reads.
const EnvPrefix = "SMARTBASKET"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "production"
)

// Canonical environment variable names, kept in one place so tests and
// deploy manifests do not drift from the envconfig tags.
const (
	EnvAppEnv      = "SMARTBASKET_APP_ENV"
	EnvPort        = "SMARTBASKET_APP_PORT"
	EnvLogLevel    = "SMARTBASKET_LOG_LEVEL"
	EnvDBDSN       = "SMARTBASKET_DB_DSN"
	EnvRedisURL    = "SMARTBASKET_REDIS_URL"
	EnvSnapshotTTL = "SMARTBASKET_BASKET_SNAPSHOT_TTL"
	EnvAutoMigrate = "SMARTBASKET_AUTO_MIGRATE"
)
