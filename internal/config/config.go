package config

import (
	"fmt"
	"log"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Placeholder secrets used outside release mode. They must match the
// envDefault tags below.
const (
	defaultSessionSecret  = "default-secret-key-change-me"
	defaultIdentitySecret = "default-identity-secret-change-me"
	defaultPaymentSecret  = "default-payment-secret-change-me"
)

type Config struct {
	Port    string `env:"PORT" envDefault:"8080"`
	GinMode string `env:"GIN_MODE" envDefault:"debug"`

	DBDriver   string `env:"DB_DRIVER" envDefault:"mysql"`
	DBHost     string `env:"DB_HOST" envDefault:"localhost"`
	DBPort     string `env:"DB_PORT" envDefault:"3306"`
	DBUser     string `env:"DB_USER" envDefault:"campususer"`
	DBPassword string `env:"DB_PASSWORD" envDefault:"campuspassword"`
	DBName     string `env:"DB_NAME" envDefault:"campus_works"`
	DBPath     string `env:"DB_PATH" envDefault:"campus_works.db"`

	RedisHost     string `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort     string `env:"REDIS_PORT" envDefault:"6379"`
	SessionSecret string `env:"SESSION_SECRET" envDefault:"default-secret-key-change-me"`

	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"http://localhost:5173" envSeparator:","`

	// Identity tokens are verified against a JWKS endpoint when IdentityJWKSURL
	// is set, otherwise against IdentitySharedSecret (HS256).
	IdentityJWKSURL      string `env:"IDENTITY_JWKS_URL"`
	IdentityIssuer       string `env:"IDENTITY_ISSUER"`
	IdentityAudience     string `env:"IDENTITY_AUDIENCE"`
	IdentitySharedSecret string `env:"IDENTITY_SHARED_SECRET" envDefault:"default-identity-secret-change-me"`

	PaymentKeySecret   string `env:"PAYMENT_KEY_SECRET" envDefault:"default-payment-secret-change-me"`
	PlatformFeePercent int64  `env:"PLATFORM_FEE_PERCENT" envDefault:"5"`

	NotifyRedisEnabled bool   `env:"NOTIFY_REDIS_ENABLED" envDefault:"false"`
	OpenAIAPIKey       string `env:"OPENAI_API_KEY"`
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if cfg.PlatformFeePercent < 0 || cfg.PlatformFeePercent > 100 {
		return nil, fmt.Errorf("PLATFORM_FEE_PERCENT must be between 0 and 100, got %d", cfg.PlatformFeePercent)
	}
	if cfg.IsProduction() {
		if err := cfg.checkProductionSecrets(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// checkProductionSecrets refuses the placeholder secrets in release mode.
// The identity secret only matters when no JWKS endpoint is configured.
func (c *Config) checkProductionSecrets() error {
	if c.SessionSecret == "" || c.SessionSecret == defaultSessionSecret {
		return fmt.Errorf("SESSION_SECRET must be set in release mode")
	}
	if c.PaymentKeySecret == "" || c.PaymentKeySecret == defaultPaymentSecret {
		return fmt.Errorf("PAYMENT_KEY_SECRET must be set in release mode")
	}
	if c.IdentityJWKSURL == "" && (c.IdentitySharedSecret == "" || c.IdentitySharedSecret == defaultIdentitySecret) {
		return fmt.Errorf("IDENTITY_JWKS_URL or IDENTITY_SHARED_SECRET must be set in release mode")
	}
	return nil
}

// RedisAddr returns the host:port of the Redis server.
func (c *Config) RedisAddr() string {
	return c.RedisHost + ":" + c.RedisPort
}

// IsProduction reports whether the server runs in gin release mode.
func (c *Config) IsProduction() bool {
	return c.GinMode == "release"
}
