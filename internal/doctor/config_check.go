package doctor

import (
	"os"
	"path/filepath"

	"github.com/openhands/skillctl/internal/config"
)

// ConfigCheck verifies that the configuration loads and that the registry
// root it points at exists. It assumes config.Init has already run.
type ConfigCheck struct {
	path string
}

var _ Check = (*ConfigCheck)(nil)

// NewConfigCheck creates a config check. An empty path means the default
// search locations.
func NewConfigCheck(path string) *ConfigCheck {
	return &ConfigCheck{path: path}
}

// Name returns the unique identifier for this check.
func (c *ConfigCheck) Name() string {
	return "config-load"
}

// Category returns the grouping for this check.
func (c *ConfigCheck) Category() string {
	return "config"
}

// Run executes the config diagnostic check.
func (c *ConfigCheck) Run() *CheckResult {
	result := &CheckResult{
		Name:     c.Name(),
		Category: c.Category(),
		Details:  map[string]any{},
	}

	cfg, err := config.Load(c.path)
	if err != nil {
		result.Status = SeverityError
		result.Message = "config does not load: " + err.Error()
		if c.path != "" {
			result.Details["path"] = c.path
		}
		return result
	}

	if file := config.FileUsed(); file != "" {
		result.Details["file"] = file
	} else {
		result.Details["file"] = "(built-in defaults)"
	}
	result.Details["version"] = cfg.Version

	registry := cfg.Registry
	if abs, err := filepath.Abs(registry); err == nil {
		registry = abs
	}
	result.Details["registry"] = registry

	if _, err := os.Stat(registry); err != nil {
		if os.IsNotExist(err) {
			result.Status = SeverityError
			result.Message = "registry root does not exist: " + registry
			result.FixHint = "run doctor --fix to create it, or correct the registry setting"
			return result
		}
		result.Status = SeverityError
		result.Message = "cannot read registry root: " + err.Error()
		return result
	}

	result.Status = SeverityPass
	result.Message = "config loads"
	return result
}
