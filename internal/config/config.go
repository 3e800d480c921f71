package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/shipnotes/shipnotes/internal/models"
)

// Config represents the application configuration
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Theme    ThemeConfig    `yaml:"theme"`
	Redis    RedisConfig    `yaml:"redis"`
	Log      LogConfig      `yaml:"log"`
	Workflow WorkflowConfig `yaml:"workflow"`
	Output   OutputConfig   `yaml:"output"`
}

// ServerConfig configures the HTTP API
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	MaxBodyBytes    int64         `yaml:"max_body_bytes"`
	CORSOrigins     []string      `yaml:"cors_origins"`
	Pprof           bool          `yaml:"pprof"` // Serve /debug/pprof on the API listener
}

// DatabaseConfig locates the sqlite file
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// ThemeConfig points at the theme manifest. Empty uses the built-in default.
type ThemeConfig struct {
	Manifest string `yaml:"manifest"`
}

// RedisConfig enables change notifications and the column cache. Empty URL disables both.
type RedisConfig struct {
	URL      string        `yaml:"url"`
	Channel  string        `yaml:"channel"`
	CacheTTL time.Duration `yaml:"cache_ttl"`
}

// LogConfig configures logrus
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // text or json
	File   string `yaml:"file"`   // empty logs to stderr
}

// WorkflowConfig holds status workflow policy
type WorkflowConfig struct {
	CapacityPolicy models.CapacityPolicy `yaml:"capacity_policy"`
	Seed           []models.SeedStatus   `yaml:"seed"`
}

// OutputConfig styles human-readable CLI output
type OutputConfig struct {
	Colors Palette `yaml:"colors"`
}

const appName = "shipnotes"

// Default returns a configuration with every default applied
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load loads config from SHIPNOTES_CONFIG or the user's config directory.
// Returns default config if the file doesn't exist.
func Load() (*Config, error) {
	path := os.Getenv("SHIPNOTES_CONFIG")
	if path == "" {
		p, err := getConfigPath()
		if err != nil {
			// Can't determine config path; defaults plus environment
			c := Default()
			c.applyEnv()
			return c, c.Validate()
		}
		path = p
	}
	return LoadFile(path)
}

// LoadFile loads config from path, then applies defaults and environment overrides
func LoadFile(path string) (*Config, error) {
	var config Config

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// defaults only
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	config.applyDefaults()
	config.applyEnv()

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Save writes the config to the user's config directory
func (c *Config) Save() error {
	configPath, err := getConfigPath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(configPath, data, 0o644)
}

// Validate checks values that defaults cannot repair
func (c *Config) Validate() error {
	if !c.Workflow.CapacityPolicy.Valid() {
		return fmt.Errorf("invalid workflow.capacity_policy %q (want replace or reject)", c.Workflow.CapacityPolicy)
	}
	if c.Redis.CacheTTL < 0 {
		return fmt.Errorf("redis.cache_ttl cannot be negative")
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid log.level: %w", err)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("invalid log.format %q (want text or json)", c.Log.Format)
	}
	seen := make(map[string]bool, len(c.Workflow.Seed))
	for _, s := range c.Workflow.Seed {
		name := strings.TrimSpace(s.Name)
		if name == "" {
			return fmt.Errorf("workflow.seed: status name cannot be empty")
		}
		if seen[name] {
			return fmt.Errorf("workflow.seed: duplicate status %q", name)
		}
		seen[name] = true
	}
	return nil
}

// applyDefaults fills in missing configuration with defaults
func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 15 * time.Second
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	if c.Server.MaxBodyBytes == 0 {
		c.Server.MaxBodyBytes = 1 << 20
	}
	if c.Database.Path == "" {
		c.Database.Path = defaultDBPath()
	}
	if c.Redis.Channel == "" {
		c.Redis.Channel = "shipnotes:changes"
	}
	if c.Redis.CacheTTL == 0 {
		c.Redis.CacheTTL = 30 * time.Second
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Workflow.CapacityPolicy == "" {
		c.Workflow.CapacityPolicy = models.CapacityReplace
	}
	if len(c.Workflow.Seed) == 0 {
		c.Workflow.Seed = models.DefaultSeedStatuses()
	}
	c.Output.Colors.ApplyDefaults()
}

// applyEnv overrides file values with SHIPNOTES_* environment variables
func (c *Config) applyEnv() {
	overrides := []struct {
		key string
		dst *string
	}{
		{"SHIPNOTES_ADDR", &c.Server.Addr},
		{"SHIPNOTES_DB", &c.Database.Path},
		{"SHIPNOTES_MANIFEST", &c.Theme.Manifest},
		{"SHIPNOTES_REDIS_URL", &c.Redis.URL},
		{"SHIPNOTES_LOG_LEVEL", &c.Log.Level},
		{"SHIPNOTES_LOG_FORMAT", &c.Log.Format},
		{"SHIPNOTES_LOG_FILE", &c.Log.File},
	}
	for _, o := range overrides {
		if v, ok := os.LookupEnv(o.key); ok && v != "" {
			*o.dst = v
		}
	}
	if v := os.Getenv("SHIPNOTES_CAPACITY_POLICY"); v != "" {
		c.Workflow.CapacityPolicy = models.CapacityPolicy(strings.ToLower(v))
	}
}

// getConfigPath returns the path to the config file
func getConfigPath() (string, error) {
	// Try XDG_CONFIG_HOME first
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.yaml"), nil
	}

	// Fall back to ~/.config
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", appName, "config.yaml"), nil
}

// defaultDBPath follows XDG_DATA_HOME, falling back to ~/.local/share
func defaultDBPath() string {
	if dataHome := os.Getenv("XDG_DATA_HOME"); dataHome != "" {
		return filepath.Join(dataHome, appName, appName+".db")
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return appName + ".db"
	}
	return filepath.Join(homeDir, ".local", "share", appName, appName+".db")
}
