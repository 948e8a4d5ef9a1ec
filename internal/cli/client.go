// Package cli provides shared helpers for the command layer.
package cli

import (
	"github.com/openhands/skillctl/internal/config"
	"github.com/openhands/skillctl/internal/errors"
	"github.com/openhands/skillctl/pkg/openhands"
	v0 "github.com/openhands/skillctl/pkg/openhands/v0"
	v1 "github.com/openhands/skillctl/pkg/openhands/v1"
)

// credentialHint tells the user where a missing API key can live.
const credentialHint = "Set OPENHANDS_API_KEY, add it to .env, or put it under [cloud] in ~/.openhands/config.toml"

// CloudOptions carries per-command credential overrides. The zero value
// resolves everything from the environment and config.
type CloudOptions struct {
	// APIKey overrides credential resolution when set.
	APIKey string
	// BaseURL overrides every configured base URL when set.
	BaseURL string
}

// resolve runs credential resolution and picks the effective base URL:
// explicit flag, then the credential source's override, then config.
func resolve(cfg *config.Config, opts CloudOptions) (openhands.Credentials, string, error) {
	creds, err := openhands.ResolveCredentials(opts.APIKey)
	if err != nil {
		if errors.Is(err, openhands.ErrNoAPIKey) {
			return creds, "", errors.NewUserError(err, credentialHint)
		}
		return creds, "", errors.Wrap(err, "resolving credentials")
	}

	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = creds.BaseURL
	}
	if baseURL == "" && cfg != nil {
		baseURL = cfg.Cloud.BaseURL
	}
	if baseURL == "" {
		baseURL = openhands.DefaultBaseURL
	}
	return creds, baseURL, nil
}

// NewV0Client builds a legacy conversation API client from resolved
// credentials and the configured base URL.
func NewV0Client(cfg *config.Config, opts CloudOptions) (*v0.Client, error) {
	creds, baseURL, err := resolve(cfg, opts)
	if err != nil {
		return nil, err
	}
	return v0.NewClient(creds.APIKey, openhands.WithBaseURL(baseURL))
}

// NewV1Client builds an app-server API client from resolved credentials
// and the configured base URL.
func NewV1Client(cfg *config.Config, opts CloudOptions) (*v1.Client, error) {
	creds, baseURL, err := resolve(cfg, opts)
	if err != nil {
		return nil, err
	}
	return v1.NewClient(creds.APIKey, openhands.WithBaseURL(baseURL))
}
