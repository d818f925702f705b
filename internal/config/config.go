package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds the whole application configuration.
// Populated from environment variables.
type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Email     EmailConfig
	SaltPay   SaltPayConfig
	RateLimit RateLimitConfig
}

type AppConfig struct {
	Name        string
	Environment string // development, staging, production
	Port        string
	Version     string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	MaxConns int
	MinConns int
}

type RedisConfig struct {
	Host     string
	Password string
	DB       int
	Enabled  bool
}

type JWTConfig struct {
	Secret string
}

type EmailConfig struct {
	SMTPHost   string
	SMTPPort   string
	From       string
	InternalTo string // recipient for internal shop-order notices
}

// SaltPayConfig configures the payment gateway integration.
// SecretKey signs and verifies the orderhash on callbacks.
type SaltPayConfig struct {
	MerchantID  string
	SecretKey   string
	GatewayURL  string
	ReturnURL   string // buyer-facing page after payment
	CallbackURL string // server-to-server webhook base
}

type RateLimitConfig struct {
	Limit         int // max validation calls per identifier per window
	WindowSeconds int
}

// Load reads config from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Mama Reykjavik API"),
			Environment: getEnv("APP_ENV", "development"),
			Port:        getEnv("APP_PORT", "8080"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "mamareykjavik"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			MaxConns: getEnvInt("DB_MAX_CONNS", 25),
			MinConns: getEnvInt("DB_MIN_CONNS", 5),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
			Enabled:  getEnv("REDIS_ENABLED", "true") == "true",
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
		},
		Email: EmailConfig{
			SMTPHost:   getEnv("SMTP_HOST", "localhost"),
			SMTPPort:   getEnv("SMTP_PORT", "1025"),
			From:       getEnv("EMAIL_FROM", "noreply@mama.is"),
			InternalTo: getEnv("EMAIL_INTERNAL_TO", "team@mama.is"),
		},
		SaltPay: SaltPayConfig{
			MerchantID:  getEnv("SALTPAY_MERCHANT_ID", ""),
			SecretKey:   getEnv("SALTPAY_SECRET_KEY", ""),
			GatewayURL:  getEnv("SALTPAY_GATEWAY_URL", "https://securepay.borgun.is/securepay/default.aspx"),
			ReturnURL:   getEnv("SALTPAY_RETURN_URL", "http://localhost:3000/payment/result"),
			CallbackURL: getEnv("SALTPAY_CALLBACK_URL", "http://localhost:8080/api/v1/webhooks/saltpay"),
		},
		RateLimit: RateLimitConfig{
			Limit:         getEnvInt("RATE_LIMIT_MAX", 10),
			WindowSeconds: getEnvInt("RATE_LIMIT_WINDOW_SECONDS", 60),
		},
	}

	// Validate critical config
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that required settings are present
func (c *Config) Validate() error {
	if c.App.Environment == "production" {
		if c.JWT.Secret == "your-secret-key-change-in-production" {
			return fmt.Errorf("JWT_SECRET must be set in production")
		}
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD must be set in production")
		}
		if c.SaltPay.SecretKey == "" {
			return fmt.Errorf("SALTPAY_SECRET_KEY must be set in production")
		}
		if c.SaltPay.MerchantID == "" {
			fmt.Println("WARNING: SaltPay merchant id not set - checkout will not work")
		}
	}

	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
