package config

import (
	"time"

	"mamareykjavik-backend/internal/infrastructure/database"
)

// LoadDatabaseConfig builds the pool configuration for the database layer
// from the already-loaded application config.
func LoadDatabaseConfig(cfg *Config) *database.DBConfig {
	return &database.DBConfig{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		Username: cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.Database,

		MaxConns:          int32(cfg.Database.MaxConns),
		MinConns:          int32(cfg.Database.MinConns),
		MaxConnLifetime:   time.Hour,
		MaxConnIdleTime:   30 * time.Minute,
		HealthCheckPeriod: time.Minute,

		MaxRetries:     4,
		RetryDelay:     time.Second,
		ConnectTimeout: 10 * time.Second,
	}
}
