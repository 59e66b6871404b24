package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

// Storage drivers.
const (
	DriverFile     = "file"
	DriverPostgres = "postgres"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	// Server
	Port int    `mapstructure:"PORT"`
	Env  string `mapstructure:"APP_ENV"` // development | production

	// Comma-separated list of allowed origins, "*" for any
	CORSOrigins string `mapstructure:"CORS_ORIGINS"`

	// Storage
	StoreDriver  string `mapstructure:"STORE_DRIVER"`
	DatabasePath string `mapstructure:"DATABASE_PATH"`
	DatabaseURL  string `mapstructure:"DATABASE_URL"`

	// Redis, optional
	RedisURL string `mapstructure:"REDIS_URL"`

	// Auth
	JWTSecret            string `mapstructure:"JWT_SECRET"`
	JWTExpirationSeconds int    `mapstructure:"JWT_EXPIRATION_SECONDS"`

	// Rate limits, requests per minute per client IP
	LoginRateLimit int `mapstructure:"LOGIN_RATE_LIMIT"`
	APIRateLimit   int `mapstructure:"API_RATE_LIMIT"`
}

// Load reads configuration from environment variables (and optional .env file)
// and validates it.
func Load() (*Config, error) {
	cfg, err := Read()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Read is Load without validation, for tools that only need the storage
// settings.
func Read() (*Config, error) {
	v := viper.New()
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AutomaticEnv()

	v.SetDefault("PORT", 8080)
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("STORE_DRIVER", DriverFile)
	v.SetDefault("DATABASE_PATH", "data/db.json")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_EXPIRATION_SECONDS", 300)
	v.SetDefault("LOGIN_RATE_LIMIT", 20)
	v.SetDefault("API_RATE_LIMIT", 1000)

	// Optional .env file for local development; a missing file is fine
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the server cannot start with.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("config: JWT_SECRET must be set")
	}
	if c.JWTExpirationSeconds <= 0 {
		return errors.New("config: JWT_EXPIRATION_SECONDS must be positive")
	}
	if c.LoginRateLimit <= 0 || c.APIRateLimit <= 0 {
		return errors.New("config: rate limits must be positive")
	}
	switch c.StoreDriver {
	case DriverFile:
		if c.DatabasePath == "" {
			return errors.New("config: DATABASE_PATH must be set for the file driver")
		}
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return errors.New("config: DATABASE_URL must be set for the postgres driver")
		}
	default:
		return fmt.Errorf("config: unknown STORE_DRIVER %q", c.StoreDriver)
	}
	return nil
}

// Production reports whether the server runs in production mode.
func (c *Config) Production() bool { return c.Env == "production" }
