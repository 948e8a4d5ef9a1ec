package openhands

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"

	"github.com/openhands/skillctl/internal/errors"
)

// Environment variables consulted during credential resolution.
const (
	EnvAPIKey  = "OPENHANDS_API_KEY"
	EnvBaseURL = "OPENHANDS_BASE_URL"
)

// ErrNoAPIKey is returned when no credential source yields an API key.
var ErrNoAPIKey = errors.New("no API key found")

// Credentials holds a resolved API key and an optional base URL override.
type Credentials struct {
	APIKey string
	// BaseURL is empty unless the credential source carried an override.
	BaseURL string
}

// ResolveCredentials resolves the API key for the cloud clients. Sources are
// tried in order and the first one that yields a key wins:
//
//  1. the explicit value (a --api-key flag)
//  2. the OPENHANDS_API_KEY environment variable
//  3. a .env file in the current directory
//  4. the [cloud] table of ~/.openhands/config.toml
//
// When no source yields a key the error wraps ErrNoAPIKey with a hint at
// where to put one.
func ResolveCredentials(explicit string) (Credentials, error) {
	if explicit != "" {
		return Credentials{APIKey: explicit, BaseURL: os.Getenv(EnvBaseURL)}, nil
	}

	if key := os.Getenv(EnvAPIKey); key != "" {
		return Credentials{APIKey: key, BaseURL: os.Getenv(EnvBaseURL)}, nil
	}

	if creds, ok := credentialsFromDotEnv(); ok {
		return creds, nil
	}

	if creds, ok := credentialsFromConfigFile(); ok {
		return creds, nil
	}

	return Credentials{}, errors.Wrapf(ErrNoAPIKey,
		"set %s, add it to .env, or put it under [cloud] in %s", EnvAPIKey, cloudConfigPath())
}

// credentialsFromDotEnv reads a .env file from the current directory without
// mutating the process environment. A missing or unreadable file is not an
// error, just an empty result.
func credentialsFromDotEnv() (Credentials, bool) {
	env, err := godotenv.Read(".env")
	if err != nil {
		return Credentials{}, false
	}
	key := env[EnvAPIKey]
	if key == "" {
		return Credentials{}, false
	}
	return Credentials{APIKey: key, BaseURL: env[EnvBaseURL]}, true
}

// cloudConfig mirrors the [cloud] table of ~/.openhands/config.toml.
type cloudConfig struct {
	Cloud struct {
		APIKey  string `toml:"api_key"`
		BaseURL string `toml:"base_url"`
	} `toml:"cloud"`
}

func credentialsFromConfigFile() (Credentials, bool) {
	path := cloudConfigPath()
	if path == "" {
		return Credentials{}, false
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Credentials{}, false
	}
	var cfg cloudConfig
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Credentials{}, false
	}
	if cfg.Cloud.APIKey == "" {
		return Credentials{}, false
	}
	return Credentials{APIKey: cfg.Cloud.APIKey, BaseURL: cfg.Cloud.BaseURL}, true
}

func cloudConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".openhands", "config.toml")
}
