package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("STORE_DRIVER", "")
	t.Setenv("DEFAULT_PAGE_SIZE", "")
	cfg := Load(filepath.Join(t.TempDir(), "missing.env"))

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, StoreDriverPostgres, cfg.StoreDriver)
	assert.Equal(t, 5, cfg.DefaultPageSize)
	assert.Equal(t, 8*time.Hour, cfg.TokenTTL)
	assert.True(t, cfg.RunMigrations)
	assert.Equal(t, 24*time.Hour, cfg.IdempotencyTTL)
	assert.Zero(t, cfg.AuditRetention)
}

func TestLoadReadsEnvFileWithoutOverriding(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("STORE_DRIVER=memory\nAPP_ADDR=:9999\n"), 0o600))
	t.Setenv("APP_ADDR", ":7000")
	t.Setenv("STORE_DRIVER", "")
	require.NoError(t, os.Unsetenv("STORE_DRIVER"))

	cfg := Load(path)
	assert.Equal(t, StoreDriverMemory, cfg.StoreDriver)
	assert.Equal(t, ":7000", cfg.Addr)
}

func TestLoadIgnoresMalformedNumbers(t *testing.T) {
	t.Setenv("RATE_LIMIT_PER_MINUTE", "lots")
	t.Setenv("TOKEN_TTL", "forever")
	cfg := Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.Equal(t, 60, cfg.RateLimitPerMinute)
	assert.Equal(t, 8*time.Hour, cfg.TokenTTL)
}

func validConfig() Config {
	return Config{
		Environment:        "development",
		StoreDriver:        StoreDriverMemory,
		TokenTTL:           time.Hour,
		MaxBodyBytes:       1 << 20,
		MaxUploadBytes:     10 << 20,
		RateLimitPerMinute: 60,
		DefaultPageSize:    5,
		MaxPageSize:        100,
	}
}

func TestValidate(t *testing.T) {
	require.NoError(t, validConfig().Validate())

	cases := map[string]func(*Config){
		"postgres without url":   func(c *Config) { c.StoreDriver = StoreDriverPostgres },
		"unknown driver":         func(c *Config) { c.StoreDriver = "sqlite" },
		"production no secret":   func(c *Config) { c.Environment = "production" },
		"secret without admin":   func(c *Config) { c.JWTSecret = "s3cret" },
		"tiny body limit":        func(c *Config) { c.MaxBodyBytes = 10 },
		"upload below body":      func(c *Config) { c.MaxUploadBytes = 1024 },
		"zero rate limit":        func(c *Config) { c.RateLimitPerMinute = 0 },
		"page size above max":    func(c *Config) { c.DefaultPageSize = 500 },
		"non-positive token ttl": func(c *Config) { c.TokenTTL = 0 },
		"negative retention":     func(c *Config) { c.AuditRetention = -time.Hour },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := validConfig()
			mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
