package config

import (
	"fmt"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all configuration for farmops.
// Configuration can come from YAML file (config.yaml) or environment variables.
// Environment variables always override YAML values for fields that support both.
// Secrets (database password, Twilio auth token) must only come from environment
// variables.
type Config struct {
	// Server configuration
	BindAddr string `yaml:"bind_addr" env:"BIND_ADDR" env-default:"0.0.0.0"`
	Port     string `yaml:"port" env:"PORT" env-default:"8000"`
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	LogLevel string `yaml:"log_level" env:"LOG_LEVEL" env-default:""`
	Version  string `yaml:"-"` // Set at load time, not from config

	// FarmName appears in status replies and the dashboard title.
	FarmName string `yaml:"farm_name" env:"FARM_NAME" env-default:"Stokes Homestead"`

	// Database configuration (PostgreSQL)
	Database DatabaseConfig `yaml:"database"`

	// Twilio webhook configuration
	Twilio TwilioConfig `yaml:"twilio"`

	// MigrationsPath is the directory holding numbered SQL migrations.
	MigrationsPath string `yaml:"migrations_path" env:"MIGRATIONS_PATH" env-default:"migrations"`
}

// TwilioConfig holds inbound webhook settings.
type TwilioConfig struct {
	// AuthToken signs webhook requests; empty disables signature validation
	// (local development only).
	AuthToken string `yaml:"-" env:"TWILIO_AUTH_TOKEN"` // Secret - not in YAML

	// AuthorizedNumbersStr is a comma-separated list of phone numbers allowed
	// to issue commands. Empty means any sender is accepted.
	AuthorizedNumbersStr string `yaml:"authorized_numbers" env:"AUTHORIZED_NUMBERS" env-default:""`

	// AuthorizedNumbers is the parsed list from AuthorizedNumbersStr
	// (not from config file).
	AuthorizedNumbers []string `yaml:"-"`

	// PublicURL is the externally visible base URL Twilio signs requests
	// against. Needed when the service sits behind a proxy that rewrites
	// the Host header; empty means use the request URL as received.
	PublicURL string `yaml:"public_url" env:"PUBLIC_URL" env-default:""`
}

// DatabaseConfig holds PostgreSQL database configuration.
type DatabaseConfig struct {
	Host           string `yaml:"host" env:"PGHOST" env-default:"localhost"`
	Port           int    `yaml:"port" env:"PGPORT" env-default:"5432"`
	User           string `yaml:"user" env:"PGUSER" env-default:"farmops"`
	Password       string `yaml:"-" env:"PGPASSWORD"` // Secret - not in YAML
	Database       string `yaml:"database" env:"PGDATABASE" env-default:"farmops"`
	MaxConnections int32  `yaml:"max_connections" env:"PGMAX_CONNECTIONS" env-default:"10"`
	SSLMode        string `yaml:"ssl_mode" env:"PGSSLMODE" env-default:"disable"`
}

// Load reads configuration from config.yaml with environment variable overrides.
// The version parameter is injected at build time and set on the returned Config.
func Load(version string) (*Config, error) {
	cfg := &Config{
		Version: version,
	}

	if err := cleanenv.ReadConfig("config.yaml", cfg); err != nil {
		return nil, fmt.Errorf("failed to read config.yaml: %w", err)
	}

	cfg.Twilio.AuthorizedNumbers = parseNumberList(cfg.Twilio.AuthorizedNumbersStr)

	return cfg, nil
}

// parseNumberList splits a comma-separated phone number list, trimming
// whitespace and dropping empty entries.
func parseNumberList(value string) []string {
	if value == "" {
		return nil
	}
	var numbers []string
	for _, n := range strings.Split(value, ",") {
		n = strings.TrimSpace(n)
		if n != "" {
			numbers = append(numbers, n)
		}
	}
	return numbers
}

// ConnectionString returns a PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}
