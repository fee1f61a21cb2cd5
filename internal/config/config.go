package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the forumsearch service configuration.
type Config struct {
	HTTP    HTTPConfig    `yaml:"http"`
	Index   IndexConfig   `yaml:"index"`
	Legacy  LegacyConfig  `yaml:"legacy"`
	Cache   CacheConfig   `yaml:"cache"`
	Site    SiteConfig    `yaml:"site"`
	Search  SearchConfig  `yaml:"search"`
	Auth    AuthConfig    `yaml:"auth"`
	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// IndexConfig holds search index connection settings.
type IndexConfig struct {
	Hosts      []string `yaml:"hosts"`
	Name       string   `yaml:"name"`
	Username   string   `yaml:"username"`
	Password   string   `yaml:"password"`
	Sniff      bool     `yaml:"sniff"`
	TimeoutSec int      `yaml:"timeout_sec"`
}

// LegacyConfig holds relational search settings. An empty DSN disables the legacy backend.
type LegacyConfig struct {
	Driver             string `yaml:"driver"` // mysql, sqlite (default: mysql)
	DSN                string `yaml:"dsn"`
	Mode               string `yaml:"mode"`                 // match, boolean, like, matchboolean
	ForceStorageEngine string `yaml:"force_storage_engine"` // anything but myisam forces like
	TablePrefix        string `yaml:"table_prefix"`
	MaxOpenConns       int    `yaml:"max_open_conns"`
	TimeoutSec         int    `yaml:"timeout_sec"`
}

// CacheConfig holds index result cache settings.
type CacheConfig struct {
	Enabled          bool     `yaml:"enabled"`
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	TTLSec           int      `yaml:"ttl_sec"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// SiteConfig holds public site settings used to build result URLs.
type SiteConfig struct {
	BaseURL string `yaml:"base_url"`
}

// SearchConfig holds request handling defaults.
type SearchConfig struct {
	DefaultBackend string `yaml:"default_backend"` // index, legacy (default: index)
	MaxLimit       int    `yaml:"max_limit"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Index.Name == "" {
		c.Index.Name = "forum_index_v7"
	}
	if c.Index.TimeoutSec <= 0 {
		c.Index.TimeoutSec = 5
	}
	if c.Legacy.Driver == "" {
		c.Legacy.Driver = "mysql"
	}
	if c.Legacy.Mode == "" {
		c.Legacy.Mode = "matchboolean"
	}
	if c.Legacy.TablePrefix == "" {
		c.Legacy.TablePrefix = "GDN_"
	}
	if c.Legacy.TimeoutSec <= 0 {
		c.Legacy.TimeoutSec = 5
	}
	if c.Cache.TTLSec <= 0 {
		c.Cache.TTLSec = 60
	}
	if c.Cache.ReadinessTimeout <= 0 {
		c.Cache.ReadinessTimeout = 10
	}
	if c.Search.DefaultBackend == "" {
		c.Search.DefaultBackend = "index"
	}
	if c.Search.MaxLimit <= 0 {
		c.Search.MaxLimit = 100
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if len(c.Index.Hosts) == 0 {
		return fmt.Errorf("index.hosts is required")
	}
	switch strings.ToLower(c.Legacy.Mode) {
	case "match", "boolean", "like", "matchboolean":
		// ok
	default:
		return fmt.Errorf("legacy.mode must be one of match, boolean, like, matchboolean, got %q", c.Legacy.Mode)
	}
	switch c.Legacy.Driver {
	case "mysql", "sqlite":
		// ok
	default:
		return fmt.Errorf("legacy.driver must be \"mysql\" or \"sqlite\", got %q", c.Legacy.Driver)
	}
	if c.Cache.Enabled && len(c.Cache.Addrs) == 0 {
		return fmt.Errorf("cache.addrs is required when cache is enabled")
	}
	switch c.Search.DefaultBackend {
	case "index":
		// ok
	case "legacy":
		if c.Legacy.DSN == "" {
			return fmt.Errorf("search.default_backend is legacy but legacy.dsn is empty")
		}
	default:
		return fmt.Errorf("search.default_backend must be \"index\" or \"legacy\", got %q", c.Search.DefaultBackend)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
