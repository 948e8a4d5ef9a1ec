package doctor

import (
	"os/exec"

	"github.com/openhands/skillctl/internal/editor"
)

// EnvironmentCheck reports on the external tools the CLI shells out to.
// Only git is needed, and only for source management.
type EnvironmentCheck struct{}

var _ Check = (*EnvironmentCheck)(nil)

// NewEnvironmentCheck creates an environment check.
func NewEnvironmentCheck() *EnvironmentCheck {
	return &EnvironmentCheck{}
}

// Name returns the unique identifier for this check.
func (c *EnvironmentCheck) Name() string {
	return "environment-tools"
}

// Category returns the grouping for this check.
func (c *EnvironmentCheck) Category() string {
	return "environment"
}

// Run executes the environment diagnostic check.
func (c *EnvironmentCheck) Run() *CheckResult {
	result := &CheckResult{
		Name:     c.Name(),
		Category: c.Category(),
		Details:  map[string]any{"editor": editor.Detect()},
	}

	gitPath, err := exec.LookPath("git")
	if err != nil {
		result.Status = SeverityWarning
		result.Message = "git not found on PATH; source add and update will not work"
		result.FixHint = "install git, or stick to local sources"
		return result
	}

	result.Details["git"] = gitPath
	result.Status = SeverityPass
	result.Message = "required tools available"
	return result
}
