package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Basket       BasketConfig
	Upload       UploadConfig
	HTTP         HTTPConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"SMARTBASKET_APP_ENV" required:"true"`
	Port         string `envconfig:"SMARTBASKET_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"SMARTBASKET_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SMARTBASKET_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN string `envconfig:"SMARTBASKET_DB_DSN" required:"true"`

	MaxOpenConns    int           `envconfig:"SMARTBASKET_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SMARTBASKET_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SMARTBASKET_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SMARTBASKET_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"SMARTBASKET_REDIS_URL" required:"true"`
	PoolSize     int           `envconfig:"SMARTBASKET_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SMARTBASKET_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SMARTBASKET_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SMARTBASKET_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SMARTBASKET_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type BasketConfig struct {
	// SnapshotTTL bounds how long a cached comparison catalog may serve
	// requests before it is rebuilt from the database.
	SnapshotTTL time.Duration `envconfig:"SMARTBASKET_BASKET_SNAPSHOT_TTL" default:"30s"`
	MaxItems    int           `envconfig:"SMARTBASKET_BASKET_MAX_ITEMS" default:"100"`
}

type UploadConfig struct {
	MaxFileBytes int64 `envconfig:"SMARTBASKET_UPLOAD_MAX_FILE_BYTES" default:"5242880"`
	MaxRows      int   `envconfig:"SMARTBASKET_UPLOAD_MAX_ROWS" default:"2000"`
}

type HTTPConfig struct {
	AllowedOrigins  []string      `envconfig:"SMARTBASKET_HTTP_ALLOWED_ORIGINS" default:"http://localhost:5173"`
	ShutdownTimeout time.Duration `envconfig:"SMARTBASKET_HTTP_SHUTDOWN_TIMEOUT" default:"15s"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"SMARTBASKET_AUTO_MIGRATE" default:"false"`
}
