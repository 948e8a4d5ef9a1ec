package doctor

import (
	"net/url"

	"github.com/openhands/skillctl/internal/config"
	"github.com/openhands/skillctl/internal/errors"
	"github.com/openhands/skillctl/internal/redact"
	"github.com/openhands/skillctl/pkg/openhands"
)

// CloudCheck verifies cloud client prerequisites without touching the
// network: an API key resolvable from the usual sources and a well-formed
// base URL. The key is masked in all output.
type CloudCheck struct {
	cfg *config.Config
}

var _ Check = (*CloudCheck)(nil)

// NewCloudCheck creates a cloud credentials check.
func NewCloudCheck(cfg *config.Config) *CloudCheck {
	return &CloudCheck{cfg: cfg}
}

// Name returns the unique identifier for this check.
func (c *CloudCheck) Name() string {
	return "cloud-credentials"
}

// Category returns the grouping for this check.
func (c *CloudCheck) Category() string {
	return "cloud"
}

// Run executes the cloud diagnostic check.
func (c *CloudCheck) Run() *CheckResult {
	result := &CheckResult{
		Name:     c.Name(),
		Category: c.Category(),
		Details:  map[string]any{},
	}

	baseURL := openhands.DefaultBaseURL
	if c.cfg != nil && c.cfg.Cloud.BaseURL != "" {
		baseURL = c.cfg.Cloud.BaseURL
	}

	creds, err := openhands.ResolveCredentials("")
	switch {
	case errors.Is(err, openhands.ErrNoAPIKey):
		result.Status = SeverityWarning
		result.Message = "no API key found; cloud commands will not work"
		result.FixHint = "set " + openhands.EnvAPIKey + ", add it to .env, or put it under [cloud] in ~/.openhands/config.toml"
	case err != nil:
		result.Status = SeverityError
		result.Message = "resolving credentials: " + err.Error()
	default:
		result.Details["api_key"] = redact.MaskValue(creds.APIKey)
		if creds.BaseURL != "" {
			// Credential sources can carry a base URL override, and the
			// clients honor it over the config value.
			baseURL = creds.BaseURL
		}
	}

	result.Details["base_url"] = baseURL
	u, parseErr := url.Parse(baseURL)
	if parseErr != nil || u.Host == "" {
		result.Status = SeverityError
		result.Message = "base URL is not a valid absolute URL: " + baseURL
		return result
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		result.Status = SeverityError
		result.Message = "base URL must be http or https: " + baseURL
		return result
	}

	if result.Status == SeverityPass {
		result.Message = "API key present, base URL well-formed"
	}
	return result
}
