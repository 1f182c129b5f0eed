package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Storage backends.
const (
	StorageMongo  = "mongo"
	StorageMemory = "memory"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`
	Storage   string `env:"STORAGE,   default=mongo"`

	Mongo    MongoConfig
	Redis    RedisConfig
	NATS     NATSConfig
	Tracking TrackingConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=tracking_system"`
}

// RedisConfig is optional: without an address notifications are deduplicated in memory.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB, default=0"`
}

// NATSConfig is optional: without a URL notifications are only logged.
type NATSConfig struct {
	URL     string `env:"NATS_URL"`
	Subject string `env:"NATS_SUBJECT, default=tracking.notifications"`
}

type TrackingConfig struct {
	// Catalog overrides the embedded carrier and status catalog.
	Catalog              string        `env:"TRACKING_CATALOG"`
	FetchTimeout         time.Duration `env:"TRACKING_FETCH_TIMEOUT,          default=5s"`
	MaxRetries           int           `env:"TRACKING_MAX_RETRIES,            default=3"`
	RetryInitialInterval time.Duration `env:"TRACKING_RETRY_INITIAL_INTERVAL, default=200ms"`
	RetryMaxInterval     time.Duration `env:"TRACKING_RETRY_MAX_INTERVAL,     default=2s"`
	ClockSkew            time.Duration `env:"TRACKING_CLOCK_SKEW,             default=5s"`
	DefaultCountry       string        `env:"TRACKING_DEFAULT_COUNTRY,        default=Congo"`
	BatchConcurrency     int           `env:"TRACKING_BATCH_CONCURRENCY,      default=8"`
	BatchMaxSize         int           `env:"TRACKING_BATCH_MAX_SIZE,         default=50"`
	NotificationTTL      time.Duration `env:"TRACKING_NOTIFICATION_TTL,       default=720h"`
	CarrierRPS           float64       `env:"TRACKING_CARRIER_RPS,            default=10"`
	CarrierBurst         int           `env:"TRACKING_CARRIER_BURST,          default=20"`
	Workers              int           `env:"TRACKING_WORKERS,                default=8"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	cfg, err := LoadFrom(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

// LoadFrom reads configuration from an arbitrary lookuper and validates it.
func LoadFrom(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	switch c.Storage {
	case StorageMongo, StorageMemory:
	default:
		return fmt.Errorf("STORAGE must be %q or %q, got %q", StorageMongo, StorageMemory, c.Storage)
	}
	if c.JWTSecret == "" && c.Env != "development" {
		return fmt.Errorf("JWT_SECRET is required outside development")
	}
	if c.Tracking.MaxRetries < 0 {
		return fmt.Errorf("TRACKING_MAX_RETRIES must not be negative")
	}
	if c.Tracking.FetchTimeout <= 0 {
		return fmt.Errorf("TRACKING_FETCH_TIMEOUT must be positive")
	}
	if c.Tracking.Workers <= 0 {
		return fmt.Errorf("TRACKING_WORKERS must be positive")
	}
	return nil
}
