// Package config loads server configuration from a YAML file and lets
// environment variables override individual fields, following the
// layered Load()/LoadFromEnv() pattern used throughout this codebase's
// ancestry.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DatabaseConfig configures the Postgres connection pool (spec §6).
type DatabaseConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	Database        string        `yaml:"database"`
	SSLMode         string        `yaml:"ssl_mode"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

// DefaultDatabaseConfig returns the baseline pool configuration.
func DefaultDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		Host:            "localhost",
		Port:            5432,
		User:            "shipengine",
		Database:        "shipengine",
		SSLMode:         "disable",
		MaxOpenConns:    25,
		MaxIdleConns:    5,
		ConnMaxLifetime: 5 * time.Minute,
	}
}

// LoadFromEnv overrides fields from DB_* environment variables when
// present.
func (c *DatabaseConfig) LoadFromEnv() error {
	if v := os.Getenv("DB_HOST"); v != "" {
		c.Host = v
	}
	if v := os.Getenv("DB_PORT"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid DB_PORT %q: %w", v, err)
		}
		c.Port = p
	}
	if v := os.Getenv("DB_USER"); v != "" {
		c.User = v
	}
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		c.Password = v
	}
	if v := os.Getenv("DB_NAME"); v != "" {
		c.Database = v
	}
	if v := os.Getenv("DB_SSL_MODE"); v != "" {
		c.SSLMode = v
	}
	return nil
}

// StorageConfig configures the object storage bucket (spec §6).
type StorageConfig struct {
	Bucket string `yaml:"bucket"`
	Region string `yaml:"region"`
}

// LLMConfig configures the BL extraction LLM client (spec §6).
type LLMConfig struct {
	APIKey  string        `yaml:"api_key"`
	Model   string        `yaml:"model"`
	Timeout time.Duration `yaml:"timeout"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Port        string `yaml:"port"`
	MetricsPort string `yaml:"metrics_port"`
}

// AuthConfig configures the external identity verification and
// augmentation pipeline (spec §6: "verified against an external
// identity service", "a static list" of super-admin emails).
type AuthConfig struct {
	IdentityServiceURL string   `yaml:"identity_service_url"`
	TokenAudience      string   `yaml:"token_audience"`
	SuperAdmins        []string `yaml:"super_admins"`
}

// CacheConfig configures the two process-local TTL caches described
// in spec §5 (pkg/cache) — no network address, since neither
// coordinates across processes.
type CacheConfig struct {
	PortsTTL        time.Duration `yaml:"ports_ttl"`
	CompanyNamesTTL time.Duration `yaml:"company_names_ttl"`
}

// Config is the top-level application configuration.
type Config struct {
	Server      ServerConfig    `yaml:"server"`
	Database    DatabaseConfig  `yaml:"database"`
	Storage     StorageConfig   `yaml:"storage"`
	LLM         LLMConfig       `yaml:"llm"`
	Cache       CacheConfig     `yaml:"cache"`
	Auth        AuthConfig      `yaml:"auth"`
	ProjectID   string          `yaml:"project_id"`
	Environment string          `yaml:"environment"`
}

// DefaultConfig returns the baseline configuration before a file or
// environment is applied.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        "8080",
			MetricsPort: "9090",
		},
		Database: DefaultDatabaseConfig(),
		Cache: CacheConfig{
			PortsTTL:        10 * time.Minute,
			CompanyNamesTTL: 5 * time.Minute,
		},
		Environment: "production",
	}
}

// Load reads a YAML file into a Config, then applies environment
// overrides, mirroring the layered Load/LoadFromEnv pattern.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := cfg.Database.LoadFromEnv(); err != nil {
		return nil, err
	}
	if v := os.Getenv("LLM_API_KEY"); v != "" {
		cfg.LLM.APIKey = v
	}
	if v := os.Getenv("STORAGE_BUCKET"); v != "" {
		cfg.Storage.Bucket = v
	}
	if v := os.Getenv("PROJECT_ID"); v != "" {
		cfg.ProjectID = v
	}
	if v := os.Getenv("ENVIRONMENT"); v != "" {
		cfg.Environment = v
	}
	if v := os.Getenv("IDENTITY_SERVICE_URL"); v != "" {
		cfg.Auth.IdentityServiceURL = v
	}
	if v := os.Getenv("ACCESS_TOKEN_AUDIENCE"); v != "" {
		cfg.Auth.TokenAudience = v
	}
	if v := os.Getenv("SUPER_ADMINS"); v != "" {
		cfg.Auth.SuperAdmins = strings.Split(v, ",")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// IsDevelopment reports whether hard delete and other dev-only
// behaviors are unlocked (spec §6).
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// Validate rejects a configuration missing required fields.
func (c *Config) Validate() error {
	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}
	if c.Storage.Bucket == "" && c.Environment != "development" {
		return fmt.Errorf("storage bucket is required outside development")
	}
	if c.Auth.IdentityServiceURL == "" && c.Environment != "development" {
		return fmt.Errorf("identity service URL is required outside development")
	}
	return nil
}
