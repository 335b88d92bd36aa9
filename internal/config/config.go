package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Store drivers.
const (
	DriverPostgres  = "postgres"
	DriverFirestore = "firestore"
	DriverMemory    = "memory"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Store     StoreConfig     `yaml:"store"`
	Auth      AuthConfig      `yaml:"auth"`
	Tailscale TailscaleConfig `yaml:"tailscale"`
	Catalog   CatalogConfig   `yaml:"catalog"`
	Importer  ImporterConfig  `yaml:"importer"`
	Cache     CacheConfig     `yaml:"cache"`
	MCP       MCPConfig       `yaml:"mcp"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
}

// StoreConfig selects where sessions and profiles live.
type StoreConfig struct {
	Driver           string `yaml:"driver"`
	FirestoreProject string `yaml:"firestore_project"`
}

type AuthConfig struct {
	APIKey string `yaml:"api_key"`
}

type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Hostname string `yaml:"hostname"`
	StateDir string `yaml:"state_dir"`
}

// CatalogConfig points at dataset overrides. Empty paths use the embedded defaults.
type CatalogConfig struct {
	ExercisesPath string `yaml:"exercises_path"`
	RecoveryPath  string `yaml:"recovery_path"`
}

type ImporterConfig struct {
	StateDir string `yaml:"state_dir"`
}

// DefaultCacheTTLSeconds applies when cache.ttl_seconds is unset.
const DefaultCacheTTLSeconds = 300

// CacheConfig sizes the per-user aggregate cache. SizeMB 0 disables it.
type CacheConfig struct {
	SizeMB     int `yaml:"size_mb"`
	TTLSeconds int `yaml:"ttl_seconds"`
}

// MCPConfig is used by the stdio MCP binary. With RemoteURL set it queries
// a running server over HTTP instead of opening the store itself.
type MCPConfig struct {
	RemoteURL string `yaml:"remote_url"`
}

// DSN returns a PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	sslmode := d.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, sslmode)
}

// Load reads config from a YAML file, then applies environment variable overrides.
// Env vars use the prefix FITSTREAK_ and underscore-separated paths:
//
//	FITSTREAK_SERVER_HOST, FITSTREAK_SERVER_PORT,
//	FITSTREAK_DB_HOST, FITSTREAK_DB_PORT, FITSTREAK_DB_NAME,
//	FITSTREAK_DB_USER, FITSTREAK_DB_PASSWORD, FITSTREAK_DB_SSLMODE,
//	FITSTREAK_STORE_DRIVER, FITSTREAK_FIRESTORE_PROJECT,
//	FITSTREAK_AUTH_API_KEY, FITSTREAK_TAILSCALE_ENABLED,
//	FITSTREAK_CACHE_SIZE_MB, FITSTREAK_MCP_REMOTE_URL
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)
	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("FITSTREAK_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("FITSTREAK_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("FITSTREAK_DB_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("FITSTREAK_DB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Database.Port = port
		}
	}
	if v := os.Getenv("FITSTREAK_DB_NAME"); v != "" {
		cfg.Database.Name = v
	}
	if v := os.Getenv("FITSTREAK_DB_USER"); v != "" {
		cfg.Database.User = v
	}
	if v := os.Getenv("FITSTREAK_DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("FITSTREAK_DB_SSLMODE"); v != "" {
		cfg.Database.SSLMode = v
	}
	if v := os.Getenv("FITSTREAK_STORE_DRIVER"); v != "" {
		cfg.Store.Driver = v
	}
	if v := os.Getenv("FITSTREAK_FIRESTORE_PROJECT"); v != "" {
		cfg.Store.FirestoreProject = v
	}
	if v := os.Getenv("FITSTREAK_AUTH_API_KEY"); v != "" {
		cfg.Auth.APIKey = v
	}
	if v := os.Getenv("FITSTREAK_TAILSCALE_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Tailscale.Enabled = b
		}
	}
	if v := os.Getenv("FITSTREAK_CACHE_SIZE_MB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Cache.SizeMB = n
		}
	}
	if v := os.Getenv("FITSTREAK_MCP_REMOTE_URL"); v != "" {
		cfg.MCP.RemoteURL = v
	}
}

func (c *Config) applyDefaults() {
	if c.Store.Driver == "" {
		c.Store.Driver = DriverPostgres
	}
	if c.Tailscale.Hostname == "" {
		c.Tailscale.Hostname = "fitstreak"
	}
	if c.Importer.StateDir == "" {
		c.Importer.StateDir = "."
	}
	if c.Cache.TTLSeconds == 0 {
		c.Cache.TTLSeconds = DefaultCacheTTLSeconds
	}
}

func (c *Config) validate() error {
	if c.Server.Port == 0 {
		return fmt.Errorf("server.port is required")
	}
	switch c.Store.Driver {
	case DriverPostgres:
		if c.Database.Host == "" {
			return fmt.Errorf("database.host is required")
		}
		if c.Database.Port == 0 {
			return fmt.Errorf("database.port is required")
		}
		if c.Database.Name == "" {
			return fmt.Errorf("database.name is required")
		}
		if c.Database.User == "" {
			return fmt.Errorf("database.user is required")
		}
	case DriverFirestore:
		if c.Store.FirestoreProject == "" {
			return fmt.Errorf("store.firestore_project is required for the firestore driver")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("store.driver %q is not one of postgres, firestore, memory", c.Store.Driver)
	}
	if c.Auth.APIKey == "" {
		return fmt.Errorf("auth.api_key is required")
	}
	if c.Cache.SizeMB < 0 || c.Cache.TTLSeconds < 0 {
		return fmt.Errorf("cache.size_mb and cache.ttl_seconds must not be negative")
	}
	return nil
}
