package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const EnvPrefix = "AQUATRACK"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	FeatureFlags FeatureFlagsConfig
	Uploads      UploadsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"AQUATRACK_APP_ENV" required:"true"`
	Port         string `envconfig:"AQUATRACK_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"AQUATRACK_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"AQUATRACK_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	Driver string `envconfig:"AQUATRACK_DB_DRIVER" default:"postgres"`
	DSN    string `envconfig:"AQUATRACK_DB_DSN"`

	SQLitePath string `envconfig:"AQUATRACK_DB_SQLITE_PATH" default:"aquatrack.db"`

	MaxOpenConns    int           `envconfig:"AQUATRACK_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"AQUATRACK_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"AQUATRACK_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"AQUATRACK_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

func (db DBConfig) validate() error {
	switch db.Driver {
	case DriverPostgres:
		if db.DSN == "" {
			return fmt.Errorf("%s is required when driver is postgres", EnvDBDSN)
		}
	case DriverSQLite:
		if db.SQLitePath == "" {
			return fmt.Errorf("%s is required when driver is sqlite", EnvDBSQLitePath)
		}
	default:
		return fmt.Errorf("unsupported db driver %q", db.Driver)
	}
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"AQUATRACK_REDIS_URL" required:"true"`
	Address      string        `envconfig:"AQUATRACK_REDIS_ADDR"`
	Password     string        `envconfig:"AQUATRACK_REDIS_PASSWORD"`
	DB           int           `envconfig:"AQUATRACK_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"AQUATRACK_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"AQUATRACK_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"AQUATRACK_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"AQUATRACK_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"AQUATRACK_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"AQUATRACK_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"AQUATRACK_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"AQUATRACK_JWT_EXPIRATION_MINUTES" default:"720"`
}

// SessionTTL returns how long a login-as session stays valid.
func (j JWTConfig) SessionTTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"AQUATRACK_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"AQUATRACK_AUTO_MIGRATE" default:"false"`
	SeedOnBoot  bool `envconfig:"AQUATRACK_SEED_ON_BOOT" default:"true"`
}

type UploadsConfig struct {
	Endpoint    string        `envconfig:"AQUATRACK_UPLOADS_ENDPOINT"`
	Timeout     time.Duration `envconfig:"AQUATRACK_UPLOADS_TIMEOUT" default:"30s"`
	MaxAttempts int           `envconfig:"AQUATRACK_UPLOADS_MAX_ATTEMPTS" default:"3"`
	MaxUploadMB int           `envconfig:"AQUATRACK_MAX_UPLOAD_MB" default:"25"`
	LocalDir    string        `envconfig:"AQUATRACK_UPLOADS_LOCAL_DIR" default:"uploads"`
}
