package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all configuration for the application.
type Config struct {
	Server  ServerConfig
	DB      DBConfig
	Log     LogConfig
	Pricing PricingConfig
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Port            string `envconfig:"SERVER_PORT" default:"3000"`
	ShutdownTimeout int    `envconfig:"SHUTDOWN_TIMEOUT" default:"30"` // seconds
}

// DBConfig holds database-related configuration.
// WARNING: Default password is for local development only.
// In production, always set DB_PASSWORD via environment variable.
// In production, set DB_SSLMODE to "require" or "verify-full".
type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     int    `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" default:"postgres"`
	Password string `envconfig:"DB_PASSWORD" default:"postgres"` // CHANGE IN PRODUCTION
	Name     string `envconfig:"DB_NAME" default:"booking_db"`
	SSLMode  string `envconfig:"DB_SSLMODE" default:"disable"` // Use "require" in production
	MaxConns int    `envconfig:"DB_MAX_CONNS" default:"25"`
	MinConns int    `envconfig:"DB_MIN_CONNS" default:"5"`
}

// DSN returns the PostgreSQL connection string.
func (c DBConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s&pool_max_conns=%d&pool_min_conns=%d",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode, c.MaxConns, c.MinConns)
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `envconfig:"LOG_LEVEL" default:"info"`
	Pretty bool   `envconfig:"LOG_PRETTY" default:"false"`
}

// PricingConfig holds the pricing engine parameters.
// ServiceFeeRate is a fraction of the subtotal (0.10 = 10%).
// LoyaltyEarnRatio is the currency units that earn one loyalty point.
type PricingConfig struct {
	ServiceFeeRate   float64 `envconfig:"SERVICE_FEE_RATE" default:"0.10"`
	LoyaltyEarnRatio int     `envconfig:"LOYALTY_EARN_RATIO" default:"100"`
}

// Load parses environment variables into the Config struct.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if cfg.Pricing.ServiceFeeRate < 0 || cfg.Pricing.ServiceFeeRate >= 1 {
		return nil, fmt.Errorf("SERVICE_FEE_RATE must be in [0,1), got %v", cfg.Pricing.ServiceFeeRate)
	}
	if cfg.Pricing.LoyaltyEarnRatio < 1 {
		return nil, fmt.Errorf("LOYALTY_EARN_RATIO must be at least 1, got %d", cfg.Pricing.LoyaltyEarnRatio)
	}
	return &cfg, nil
}
