package config

import (
	"net"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Hue             HueConfig         `yaml:"hue"`
	Cache           CacheConfig       `yaml:"cache"`
	Database        DatabaseConfig    `yaml:"database"`
	Ledger          LedgerConfig      `yaml:"ledger"`
	Credentials     CredentialsConfig `yaml:"credentials"`
	Log             LogConfig         `yaml:"log"`
	Server          ServerConfig      `yaml:"server"`
	ShutdownTimeout Duration          `yaml:"shutdown_timeout"`
}

// HueConfig contains Hue bridge connection settings.
// Bridge and Token are optional: when empty, the stored credentials file is
// used, and when that is missing too, the pairing flow runs on startup.
type HueConfig struct {
	Bridge  string   `yaml:"bridge"`
	Token   string   `yaml:"token"`
	Timeout Duration `yaml:"timeout"` // HTTP timeout for Hue API requests

	RateLimitRPS float64 `yaml:"rate_limit_rps"` // Max bridge requests per second

	// Link-button pairing settings
	AppName         string   `yaml:"app_name"`         // Application name registered on the bridge
	PairingTimeout  Duration `yaml:"pairing_timeout"`  // How long to wait for the link button
	PairingInterval Duration `yaml:"pairing_interval"` // Poll interval while waiting
	ForcePair       bool     `yaml:"-"`                // Set from the -pair flag
}

// CacheConfig contains light cache settings
type CacheConfig struct {
	TTL Duration `yaml:"ttl"` // Staleness threshold for cached light state
}

// DatabaseConfig contains command ledger database settings
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// LedgerConfig controls command ledger retention. Entries older than
// Retention are deleted every CleanupInterval while the server runs.
type LedgerConfig struct {
	Retention       Duration `yaml:"retention"`
	CleanupInterval Duration `yaml:"cleanup_interval"`
}

// CredentialsConfig locates the persisted pairing credentials
type CredentialsConfig struct {
	Path string `yaml:"path"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level   string `yaml:"level"`
	UseJSON bool   `yaml:"json"`
	Colors  bool   `yaml:"colors"`
}

// GetLevel returns the configured level with default
func (c *LogConfig) GetLevel() string {
	if c.Level == "" {
		return "info"
	}
	return c.Level
}

// ServerConfig selects the MCP transport
type ServerConfig struct {
	Transport string `yaml:"transport"` // stdio, sse or http
	Host      string `yaml:"host"`
	Port      int    `yaml:"port"`
}

// Addr returns the host:port listen address for HTTP-based transports.
func (c *ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Duration is a wrapper around time.Duration for YAML unmarshalling
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// Duration returns the underlying time.Duration
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// Default returns a configuration with all defaults applied and no file read.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads and parses the configuration file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Expand environment variables
	expanded := expandEnvVars(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (cfg *Config) applyDefaults() {
	stateDir := defaultStateDir()

	// Hue defaults
	if cfg.Hue.Timeout == 0 {
		cfg.Hue.Timeout = Duration(15 * time.Second)
	}
	if cfg.Hue.RateLimitRPS == 0 {
		cfg.Hue.RateLimitRPS = 10.0
	}
	if cfg.Hue.AppName == "" {
		cfg.Hue.AppName = "hue-mcp"
	}
	if cfg.Hue.PairingTimeout == 0 {
		cfg.Hue.PairingTimeout = Duration(60 * time.Second)
	}
	if cfg.Hue.PairingInterval == 0 {
		cfg.Hue.PairingInterval = Duration(2 * time.Second)
	}

	// Cache defaults
	if cfg.Cache.TTL == 0 {
		cfg.Cache.TTL = Duration(30 * time.Second)
	}

	// Storage defaults
	if cfg.Database.Path == "" {
		cfg.Database.Path = filepath.Join(stateDir, "hue-mcp.db")
	}
	if cfg.Credentials.Path == "" {
		cfg.Credentials.Path = filepath.Join(stateDir, "credentials.json")
	}
	if cfg.Ledger.Retention == 0 {
		cfg.Ledger.Retention = Duration(30 * 24 * time.Hour)
	}
	if cfg.Ledger.CleanupInterval == 0 {
		cfg.Ledger.CleanupInterval = Duration(time.Hour)
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}

	// Server defaults
	if cfg.Server.Transport == "" {
		cfg.Server.Transport = "stdio"
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = "127.0.0.1"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}

	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = Duration(5 * time.Second)
	}
}

// defaultStateDir returns the directory holding credentials and the ledger
// database. Falls back to a relative directory when home is unknown.
func defaultStateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".hue-mcp"
	}
	return filepath.Join(home, ".hue-mcp")
}

// expandEnvVars expands environment variables in the format ${VAR} or ${VAR:default}
func expandEnvVars(input string) string {
	// Match ${VAR} or ${VAR:default}
	re := regexp.MustCompile(`\$\{([^}:]+)(?::([^}]*))?\}`)

	return re.ReplaceAllStringFunc(input, func(match string) string {
		parts := re.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		varName := parts[1]
		defaultVal := ""
		if len(parts) >= 3 {
			defaultVal = parts[2]
		}

		if val := os.Getenv(varName); val != "" {
			return val
		}
		return defaultVal
	})
}
