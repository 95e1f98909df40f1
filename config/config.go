// Package config loads and validates app config from env and an optional .env
// file using Viper.
package config

import (
	"time"

	"github.com/spf13/viper"

	"github.com/Tin21habesha/primetrade.ai-backend/core"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	// ServerAddr is the address the HTTP server listens on (e.g. :8080).
	ServerAddr string `mapstructure:"SERVER_ADDR"`
	// Env is the application environment ("development" or "production").
	// Production turns on the Secure cookie attribute.
	Env string `mapstructure:"APP_ENV"`
	// DatabaseURL is the Postgres DSN.
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	// RedisURL configures the response cache and the event stream
	// (e.g. redis://localhost:6379/0). Empty disables both.
	RedisURL string `mapstructure:"REDIS_URL"`
	// JWTAccessSecret signs access credentials. Required.
	JWTAccessSecret string `mapstructure:"JWT_ACCESS_SECRET"`
	// JWTRefreshSecret signs refresh credentials. Required, must differ from
	// the access secret.
	JWTRefreshSecret string `mapstructure:"JWT_REFRESH_SECRET"`
	// JWTAccessTTL is the access credential lifetime (e.g. "15m").
	JWTAccessTTL string `mapstructure:"JWT_ACCESS_TTL"`
	// JWTRefreshTTL is the refresh credential lifetime (e.g. "168h").
	JWTRefreshTTL string `mapstructure:"JWT_REFRESH_TTL"`
	// BcryptCost is the bcrypt cost factor (4-31); default 12.
	BcryptCost int `mapstructure:"BCRYPT_COST"`
	// HashWorkers bounds how many bcrypt operations run concurrently.
	HashWorkers int `mapstructure:"HASH_WORKERS"`
	// CacheTTLSeconds is how long catalog GET responses stay cached.
	CacheTTLSeconds int `mapstructure:"CACHE_TTL_SECONDS"`
	// ConnectAttempts bounds startup store connection retries.
	ConnectAttempts int `mapstructure:"CONNECT_ATTEMPTS"`
	// ConnectBackoff is the pause between startup connection retries.
	ConnectBackoff string `mapstructure:"CONNECT_BACKOFF"`
}

// Load reads .env (if present), then builds and validates Config from the
// environment. Missing .env is ignored; env vars override it. Missing or equal
// signing secrets are a fatal configuration error.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // ignore ErrConfigFileNotFound

	v.AutomaticEnv()

	// AutomaticEnv only resolves keys viper already knows about during
	// Unmarshal. The secrets have no default, so bind them explicitly or
	// env-only deployments would never see them.
	_ = v.BindEnv("JWT_ACCESS_SECRET")
	_ = v.BindEnv("JWT_REFRESH_SECRET")

	v.SetDefault("SERVER_ADDR", ":8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("JWT_ACCESS_TTL", "15m")
	v.SetDefault("JWT_REFRESH_TTL", "168h") // 7d
	v.SetDefault("BCRYPT_COST", 12)
	v.SetDefault("HASH_WORKERS", 8)
	v.SetDefault("CACHE_TTL_SECONDS", 60)
	v.SetDefault("CONNECT_ATTEMPTS", 5)
	v.SetDefault("CONNECT_BACKOFF", "2s")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, core.WrapError(err, core.KindConfiguration, "unmarshal config")
	}

	if cfg.JWTAccessSecret == "" || cfg.JWTRefreshSecret == "" {
		return nil, core.ErrSecretsUnset
	}
	if cfg.JWTAccessSecret == cfg.JWTRefreshSecret {
		return nil, core.NewError(core.KindConfiguration, "access and refresh secrets must differ")
	}
	if cfg.BcryptCost < 4 || cfg.BcryptCost > 31 {
		return nil, core.NewError(core.KindConfiguration, "BCRYPT_COST must be between 4 and 31")
	}

	return &cfg, nil
}

// Production reports whether the app runs in production mode.
func (c *Config) Production() bool {
	return c.Env == "production"
}

// AccessTTL parses JWTAccessTTL. Returns 15m if unset or invalid.
func (c *Config) AccessTTL() time.Duration {
	d, err := time.ParseDuration(c.JWTAccessTTL)
	if err != nil || d <= 0 {
		return 15 * time.Minute
	}
	return d
}

// RefreshTTL parses JWTRefreshTTL. Returns 168h if unset or invalid.
func (c *Config) RefreshTTL() time.Duration {
	d, err := time.ParseDuration(c.JWTRefreshTTL)
	if err != nil || d <= 0 {
		return 168 * time.Hour
	}
	return d
}

// CacheTTL returns the response cache lifetime.
func (c *Config) CacheTTL() time.Duration {
	if c.CacheTTLSeconds <= 0 {
		return 60 * time.Second
	}
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

// RetryBackoff parses ConnectBackoff. Returns 2s if unset or invalid.
func (c *Config) RetryBackoff() time.Duration {
	d, err := time.ParseDuration(c.ConnectBackoff)
	if err != nil || d <= 0 {
		return 2 * time.Second
	}
	return d
}
