// Package config loads gateway configuration from the environment.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Config holds all configuration for the gateway. Everything is bound once
// at startup and read-only afterward.
type Config struct {
	Host string `env:"SERVER_HOST" envDefault:"0.0.0.0"`
	Port string `env:"SERVER_PORT" envDefault:"8080"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// ResendAPIKey authenticates outbound sends. Required.
	ResendAPIKey string `env:"RESEND_API_KEY"`
	// ContactEmail is the inbox contact submissions are delivered to.
	ContactEmail string `env:"CONTACT_EMAIL" envDefault:"contact@lornu.ai"`
	// FromAddress is the envelope sender for submission notifications.
	FromAddress string `env:"CONTACT_FROM" envDefault:"LornuAI Contact Form <noreply@lornu.ai>"`

	// RedisAddr enables rate limiting when set. Empty leaves the contact
	// endpoint unlimited, which is a supported deployment mode.
	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	// Asset store (S3-compatible) settings.
	AssetEndpoint  string `env:"ASSET_STORE_ENDPOINT" envDefault:"localhost:9000"`
	AssetRegion    string `env:"ASSET_STORE_REGION" envDefault:"us-east-1"`
	AssetBucket    string `env:"ASSET_STORE_BUCKET" envDefault:"lornu-web"`
	AssetAccessKey string `env:"ASSET_STORE_ACCESS_KEY"`
	AssetSecretKey string `env:"ASSET_STORE_SECRET_KEY"`
	AssetUseSSL    bool   `env:"ASSET_STORE_USE_SSL" envDefault:"false"`

	// Bypass secrets for automated testing. Empty disables the bypass
	// regardless of request headers.
	RateLimitBypassSecret string `env:"RATE_LIMIT_BYPASS_SECRET"`
	EmailBypassSecret     string `env:"EMAIL_BYPASS_SECRET"`
}

// Load reads .env when present, then the process environment.
func Load() (*Config, error) {
	// Missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return c.Host + ":" + c.Port
}
