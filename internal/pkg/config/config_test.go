package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{}))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, StorageMongo, cfg.Storage)
	assert.Equal(t, "tracking_system", cfg.Mongo.Database)
	assert.Equal(t, "tracking.notifications", cfg.NATS.Subject)
	assert.Empty(t, cfg.Redis.Addr)

	tr := cfg.Tracking
	assert.Equal(t, 5*time.Second, tr.FetchTimeout)
	assert.Equal(t, 3, tr.MaxRetries)
	assert.Equal(t, 200*time.Millisecond, tr.RetryInitialInterval)
	assert.Equal(t, 5*time.Second, tr.ClockSkew)
	assert.Equal(t, "Congo", tr.DefaultCountry)
	assert.Equal(t, 8, tr.BatchConcurrency)
	assert.Equal(t, 50, tr.BatchMaxSize)
	assert.Equal(t, 720*time.Hour, tr.NotificationTTL)
	assert.InDelta(t, 10.0, tr.CarrierRPS, 1e-9)
	assert.Equal(t, 20, tr.CarrierBurst)
	assert.Equal(t, 8, tr.Workers)
}

func TestLoadFrom_Overrides(t *testing.T) {
	cfg, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{
		"ENV":                      "production",
		"JWT_SECRET":               "s3cret",
		"STORAGE":                  "memory",
		"REDIS_ADDR":               "redis:6379",
		"NATS_URL":                 "nats://nats:4222",
		"TRACKING_MAX_RETRIES":     "5",
		"TRACKING_FETCH_TIMEOUT":   "1500ms",
		"TRACKING_DEFAULT_COUNTRY": "Gabon",
		"TRACKING_CARRIER_RPS":     "2.5",
	}))
	require.NoError(t, err)

	assert.Equal(t, StorageMemory, cfg.Storage)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
	assert.Equal(t, "nats://nats:4222", cfg.NATS.URL)
	assert.Equal(t, 5, cfg.Tracking.MaxRetries)
	assert.Equal(t, 1500*time.Millisecond, cfg.Tracking.FetchTimeout)
	assert.Equal(t, "Gabon", cfg.Tracking.DefaultCountry)
	assert.InDelta(t, 2.5, cfg.Tracking.CarrierRPS, 1e-9)
}

func TestLoadFrom_Invalid(t *testing.T) {
	tests := map[string]map[string]string{
		"unknown storage":           {"STORAGE": "postgres"},
		"production without secret": {"ENV": "production"},
		"negative retries":          {"TRACKING_MAX_RETRIES": "-1"},
		"zero workers":              {"TRACKING_WORKERS": "0"},
		"malformed duration":        {"TRACKING_FETCH_TIMEOUT": "soon"},
	}
	for name, env := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := LoadFrom(context.Background(), envconfig.MapLookuper(env))
			assert.Error(t, err)
		})
	}
}
