package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Log       LogConfig       `yaml:"log"`
	Recommend RecommendConfig `yaml:"recommend"`
	Cart      CartConfig      `yaml:"cart"`
	Orders    OrdersConfig    `yaml:"orders"`
}

type ServerConfig struct {
	Port           int      `yaml:"port"`
	MetricsPort    int      `yaml:"metrics_port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	// RateLimit is requests per minute per client IP; 0 disables limiting
	RateLimit int `yaml:"rate_limit_per_minute"`
}

type DatabaseConfig struct {
	Driver string `yaml:"driver"` // sqlite3 or postgres
	DSN    string `yaml:"dsn"`
	Seed   bool   `yaml:"seed"`
}

type AuthConfig struct {
	JWTSecret string        `yaml:"jwt_secret"`
	StaffPIN  string        `yaml:"staff_pin"`
	TokenTTL  time.Duration `yaml:"token_ttl"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type RecommendConfig struct {
	TopN           int  `yaml:"top_n"`
	StrictFallback bool `yaml:"strict_fallback"`
}

type CartConfig struct {
	TaxPercent float64 `yaml:"tax_percent"`
}

type OrdersConfig struct {
	DefaultPrepMinutes int `yaml:"default_prep_minutes"`
}

// Default returns a configuration suitable for local development
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           8080,
			MetricsPort:    9090,
			AllowedOrigins: []string{"*"},
			RateLimit:      300,
		},
		Database: DatabaseConfig{
			Driver: "sqlite3",
			DSN:    "foody.db",
			Seed:   true,
		},
		Auth: AuthConfig{
			JWTSecret: "change-me",
			StaffPIN:  "1234",
			TokenTTL:  12 * time.Hour,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Recommend: RecommendConfig{TopN: 3},
		Cart:      CartConfig{TaxPercent: 18},
		Orders:    OrdersConfig{DefaultPrepMinutes: 5},
	}
}

// Load reads the YAML file at path over the defaults and applies FOODY_*
// environment overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("FOODY_DATABASE_DSN"); v != "" {
		c.Database.DSN = v
	}
	if v := os.Getenv("FOODY_JWT_SECRET"); v != "" {
		c.Auth.JWTSecret = v
	}
	if v := os.Getenv("FOODY_STAFF_PIN"); v != "" {
		c.Auth.StaffPIN = v
	}
	if v := os.Getenv("FOODY_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
}

// Validate checks the configuration for values the service cannot run with
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.MetricsPort <= 0 {
		return fmt.Errorf("server ports must be positive")
	}
	if c.Server.RateLimit < 0 {
		return fmt.Errorf("server.rate_limit_per_minute must not be negative")
	}
	switch c.Database.Driver {
	case "sqlite3", "postgres":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if c.Database.DSN == "" {
		return fmt.Errorf("database dsn is required")
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is required")
	}
	if c.Auth.StaffPIN == "" {
		return fmt.Errorf("auth.staff_pin is required")
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("auth.token_ttl must be positive")
	}
	if c.Recommend.TopN <= 0 {
		return fmt.Errorf("recommend.top_n must be positive")
	}
	if c.Cart.TaxPercent < 0 {
		return fmt.Errorf("cart.tax_percent must not be negative")
	}
	if c.Orders.DefaultPrepMinutes <= 0 {
		return fmt.Errorf("orders.default_prep_minutes must be positive")
	}
	return nil
}
