// Package config provides configuration management for skillctl using Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/openhands/skillctl/internal/paths"
)

// AppName is the application name used for config file naming.
const AppName = "skillctl"

// DefaultBaseURL is the hosted conversation service used when no other
// base URL is configured.
const DefaultBaseURL = "https://app.all-hands.dev"

// Default harness timing. Runs poll at a fixed interval until the
// conversation reaches a terminal state or the deadline expires.
const (
	DefaultMaxWait = 20 * time.Minute
	DefaultPoll    = 30 * time.Second
)

// Config represents the top-level configuration structure.
type Config struct {
	Version  int                     `mapstructure:"version" yaml:"version"`
	Registry string                  `mapstructure:"registry" yaml:"registry"`
	Cloud    CloudConfig             `mapstructure:"cloud" yaml:"cloud"`
	Test     TestConfig              `mapstructure:"test" yaml:"test"`
	Notify   NotifyConfig            `mapstructure:"notify" yaml:"notify"`
	Sources  map[string]SourceConfig `mapstructure:"sources" yaml:"sources,omitempty"`
}

// SourceConfig describes a registered skill collection: a git repository
// cloned into the sources cache, or a local directory referenced in place.
type SourceConfig struct {
	URL     string    `mapstructure:"url" yaml:"url"`
	Name    string    `mapstructure:"name" yaml:"name"`
	Path    string    `mapstructure:"path" yaml:"path"`
	AddedAt time.Time `mapstructure:"added_at" yaml:"added_at"`

	// Local marks sources added from a local directory. Local sources are
	// never cloned, updated, or deleted; only the registration is managed.
	Local bool `mapstructure:"local,omitempty" yaml:"local,omitempty"`
}

// CloudConfig holds settings for the hosted conversation API clients.
// The API key is deliberately not part of the config file; it is resolved
// from the environment or the shared credentials file.
type CloudConfig struct {
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`
}

// TestConfig holds defaults for plugin verification runs.
type TestConfig struct {
	MaxWait time.Duration `mapstructure:"max_wait" yaml:"max_wait"`
	Poll    time.Duration `mapstructure:"poll" yaml:"poll"`
}

// NotifyConfig holds defaults for outbound notifications.
// WebhookURL may also come from DISCORD_WEBHOOK_URL; the config value is a
// convenience for dedicated tooling machines.
type NotifyConfig struct {
	WebhookURL string `mapstructure:"webhook_url" yaml:"webhook_url"`
}

// Init initializes Viper with default configuration.
// Call this once at application startup before accessing config values.
// Repeated calls start from a clean slate.
func Init() {
	viper.Reset()

	// Config file settings
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// Search paths (in order of precedence)
	viper.AddConfigPath(".") // Current directory
	viper.AddConfigPath(paths.ConfigDir())

	// Environment variable support
	viper.SetEnvPrefix("SKILLCTL")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Defaults
	viper.SetDefault("version", 1)
	viper.SetDefault("registry", ".")
	viper.SetDefault("cloud.base_url", DefaultBaseURL)
	viper.SetDefault("test.max_wait", DefaultMaxWait)
	viper.SetDefault("test.poll", DefaultPoll)
}

// Default returns a configuration populated with the built-in defaults.
func Default() *Config {
	return &Config{
		Version:  1,
		Registry: ".",
		Cloud:    CloudConfig{BaseURL: DefaultBaseURL},
		Test:     TestConfig{MaxWait: DefaultMaxWait, Poll: DefaultPoll},
	}
}

// Load reads the configuration file.
// If path is provided, it reads from that specific file.
// If path is empty, it searches in the default locations.
// Returns the loaded configuration or default values if no file is found (when path is empty).
func Load(path string) (*Config, error) {
	if path != "" {
		viper.SetConfigFile(path)
	}

	if err := viper.ReadInConfig(); err != nil {
		// If config file not found...
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// If user specified a path, this is an error
			if path != "" {
				return nil, fmt.Errorf("config file not found at %s: %w", path, err)
			}
			// Otherwise (implicit load), it's fine to use defaults
		} else {
			// Real read error (parsing, permissions, etc)
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if errs := Validate(&cfg); len(errs) > 0 {
		return nil, fmt.Errorf("validating config: %w", errs[0])
	}

	return &cfg, nil
}

// FileUsed reports the config file the last Load read, or "" when running
// on defaults.
func FileUsed() string {
	return viper.ConfigFileUsed()
}
