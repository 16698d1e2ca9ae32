package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file read when no --config flag is given.
const DefaultPath = "microcopy.yaml"

// ErrNotConfigured is returned by Validate when no backend setting is
// present. Callers skip the pipeline rather than fail.
var ErrNotConfigured = errors.New("content backend not configured")

// Config holds all microcopy configuration.
type Config struct {
	// Content backend
	Contentful ContentfulConfig `yaml:"contentful"`

	// Locales compiled on every run
	Locales LocalesConfig `yaml:"locales"`

	// HTTP trigger
	Server ServerConfig `yaml:"server"`

	// Extra write-back destinations
	Output OutputConfig `yaml:"output"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// ContentfulConfig configures the delivery and management clients. Empty
// hosts and environment fall back to the client defaults.
type ContentfulConfig struct {
	Space           string `yaml:"space"`
	AccessToken     string `yaml:"access_token"`
	Host            string `yaml:"host"`
	Environment     string `yaml:"environment"`
	ManagementToken string `yaml:"management_token"`
	ManagementHost  string `yaml:"management_host"`
	TargetEntry     string `yaml:"target_entry"` // record the default-locale feed is published to
}

// LocalesConfig selects the locales to compile.
type LocalesConfig struct {
	Default string   `yaml:"default"` // structural fields are read from this locale
	Targets []string `yaml:"targets"`
}

// ServerConfig configures the HTTP trigger.
type ServerConfig struct {
	Address         string `yaml:"address"`
	Path            string `yaml:"path"` // route of the trigger; other paths answer 404
	ShutdownTimeout string `yaml:"shutdown_timeout"`
	RequestTimeout  string `yaml:"request_timeout"` // bounds the backend fetch and each write-back
}

// OutputConfig configures the file and history sinks. Empty disables a sink.
type OutputConfig struct {
	Dir       string `yaml:"dir"`
	HistoryDB string `yaml:"history_db"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Contentful: ContentfulConfig{
			TargetEntry: "1EetE6l1jS142wdkSoMWTL",
		},
		Locales: LocalesConfig{
			Default: "en-US",
			Targets: []string{"en-US"},
		},
		Server: ServerConfig{
			Address:         ":7071",
			Path:            "/api/trigger",
			ShutdownTimeout: "10s",
			RequestTimeout:  "60s",
		},
		Output: OutputConfig{
			HistoryDB: "data/microcopy.db",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults. Environment overrides are applied in both cases.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// LoadDotEnv loads variables from a dotenv file into the process
// environment. Variables already set win; a missing file is not an error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	overrides := []struct {
		name   string
		target *string
	}{
		{"CONTENTFUL_SPACE", &c.Contentful.Space},
		{"CONTENTFUL_TOKEN", &c.Contentful.AccessToken},
		{"CONTENTFUL_HOST", &c.Contentful.Host},
		{"CONTENTFUL_ENVIRONMENT", &c.Contentful.Environment},
		{"CONTENTFUL_MANAGEMENT_TOKEN", &c.Contentful.ManagementToken},
		{"MICROCOPY_TARGET_ENTRY", &c.Contentful.TargetEntry},
		{"MICROCOPY_ADDR", &c.Server.Address},
		{"MICROCOPY_HISTORY_DB", &c.Output.HistoryDB},
	}
	for _, o := range overrides {
		if v := os.Getenv(o.name); v != "" {
			*o.target = v
		}
	}
}

// Configured reports whether any backend setting is present.
func (c *Config) Configured() bool {
	b := c.Contentful
	return b.Space != "" || b.AccessToken != "" || b.Host != "" ||
		b.Environment != "" || b.ManagementToken != ""
}

// ManagementEnabled reports whether write-back to the target record is
// possible.
func (c *Config) ManagementEnabled() bool {
	return c.Contentful.ManagementToken != "" && c.Contentful.TargetEntry != ""
}

// GetShutdownTimeout returns the server shutdown timeout as a duration.
func (c *Config) GetShutdownTimeout() time.Duration {
	d, err := time.ParseDuration(c.Server.ShutdownTimeout)
	if err != nil {
		return 10 * time.Second
	}
	return d
}

// GetRequestTimeout returns the backend request timeout as a duration.
func (c *Config) GetRequestTimeout() time.Duration {
	d, err := time.ParseDuration(c.Server.RequestTimeout)
	if err != nil {
		return 60 * time.Second
	}
	return d
}

// TargetLocales returns the locales to compile, defaulting to the default
// locale alone.
func (c *Config) TargetLocales() []string {
	if len(c.Locales.Targets) == 0 {
		return []string{c.Locales.Default}
	}
	return c.Locales.Targets
}

// Validate validates the configuration. Settings problems take precedence;
// ErrNotConfigured is returned only when the settings are otherwise valid
// and no backend setting is present.
func (c *Config) Validate() error {
	var errs []error
	if c.Locales.Default == "" {
		errs = append(errs, fmt.Errorf("locales.default must be set"))
	}
	for _, d := range []struct{ name, value string }{
		{"server.shutdown_timeout", c.Server.ShutdownTimeout},
		{"server.request_timeout", c.Server.RequestTimeout},
	} {
		if d.value == "" {
			continue
		}
		if _, err := time.ParseDuration(d.value); err != nil {
			errs = append(errs, fmt.Errorf("invalid %s %q: %w", d.name, d.value, err))
		}
	}
	if c.Server.Path != "" && !strings.HasPrefix(c.Server.Path, "/") {
		errs = append(errs, fmt.Errorf("invalid server.path %q: must start with /", c.Server.Path))
	}
	switch c.Logging.Format {
	case "", "json", "text":
	default:
		errs = append(errs, fmt.Errorf("invalid logging.format %q (valid: json, text)", c.Logging.Format))
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	if !c.Configured() {
		return ErrNotConfigured
	}
	return nil
}
