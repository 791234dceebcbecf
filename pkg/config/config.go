package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	// EnvPrefix scopes all environment variables for the service.
	EnvPrefix = "TRADZY"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	App      AppConfig
	DB       DBConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Password PasswordConfig
	Mail     MailConfig
	Outbox   OutboxConfig
	Features FeatureFlagsConfig
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
	Env          string `envconfig:"TRADZY_APP_ENV" required:"true"`
	Port         string `envconfig:"TRADZY_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"TRADZY_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"TRADZY_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	Driver string `envconfig:"TRADZY_DB_DRIVER" default:"sqlite"`
	DSN    string `envconfig:"TRADZY_DB_DSN" default:"tradzy.db"`

	MaxOpenConns    int           `envconfig:"TRADZY_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"TRADZY_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"TRADZY_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"TRADZY_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

func (db DBConfig) validate() error {
	switch db.Driver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("unsupported db driver %q", db.Driver)
	}
	if db.DSN == "" {
		return fmt.Errorf("database DSN is required")
	}
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"TRADZY_REDIS_URL" required:"true"`
	PoolSize     int           `envconfig:"TRADZY_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"TRADZY_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"TRADZY_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"TRADZY_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"TRADZY_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"TRADZY_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"TRADZY_JWT_ISSUER" default:"tradzy"`
	ExpirationMinutes      int    `envconfig:"TRADZY_JWT_EXPIRATION_MINUTES" default:"60"`
	RefreshTokenTTLMinutes int    `envconfig:"TRADZY_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"TRADZY_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"TRADZY_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"TRADZY_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"TRADZY_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"TRADZY_ARGON_KEY_LEN" default:"32"`
}

type MailConfig struct {
	APIKey    string `envconfig:"TRADZY_RESEND_API_KEY"`
	FromEmail string `envconfig:"TRADZY_MAIL_FROM" default:"orders@tradzy.example"`
	FromName  string `envconfig:"TRADZY_MAIL_FROM_NAME" default:"Tradzy"`
}

// Enabled reports whether outgoing mail is configured at all.
func (m MailConfig) Enabled() bool {
	return strings.TrimSpace(m.APIKey) != ""
}

type OutboxConfig struct {
	BatchSize    int           `envconfig:"TRADZY_OUTBOX_BATCH_SIZE" default:"25"`
	PollInterval time.Duration `envconfig:"TRADZY_OUTBOX_POLL_INTERVAL" default:"5s"`
	MaxAttempts  int           `envconfig:"TRADZY_OUTBOX_MAX_ATTEMPTS" default:"5"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"TRADZY_AUTO_MIGRATE" default:"false"`
}
