package doctor

import (
	"fmt"
	"os"
	"sort"

	"github.com/openhands/skillctl/internal/config"
	"github.com/openhands/skillctl/internal/git"
)

// SourcesCheck verifies that every registered source still exists on disk
// and that cloned caches look like git repositories. It never contacts
// remotes; source update does that.
type SourcesCheck struct {
	cfg *config.Config
}

var _ Check = (*SourcesCheck)(nil)

// NewSourcesCheck creates a sources check.
func NewSourcesCheck(cfg *config.Config) *SourcesCheck {
	return &SourcesCheck{cfg: cfg}
}

// Name returns the unique identifier for this check.
func (c *SourcesCheck) Name() string {
	return "sources-cache"
}

// Category returns the grouping for this check.
func (c *SourcesCheck) Category() string {
	return "sources"
}

// Run executes the sources diagnostic check.
func (c *SourcesCheck) Run() *CheckResult {
	result := &CheckResult{
		Name:     c.Name(),
		Category: c.Category(),
		Details:  map[string]any{},
	}

	if c.cfg == nil || len(c.cfg.Sources) == 0 {
		result.Status = SeverityInfo
		result.Message = "no sources registered"
		return result
	}

	names := make([]string, 0, len(c.cfg.Sources))
	for name := range c.cfg.Sources {
		names = append(names, name)
	}
	sort.Strings(names)

	var problems []string
	worst := SeverityPass
	for _, name := range names {
		src := c.cfg.Sources[name]
		if _, err := os.Stat(src.Path); err != nil {
			if src.Local {
				problems = append(problems, fmt.Sprintf("local source %s directory is missing: %s", name, src.Path))
				worst = maxSeverity(worst, SeverityError)
			} else {
				problems = append(problems, fmt.Sprintf("source %s cache is missing: %s", name, src.Path))
				worst = maxSeverity(worst, SeverityWarning)
			}
			continue
		}
		if !src.Local {
			if err := git.ValidateRemote(src.Path); err != nil {
				problems = append(problems, fmt.Sprintf("source %s cache is not a git repository: %s", name, src.Path))
				worst = maxSeverity(worst, SeverityWarning)
			}
		}
	}

	result.Details["sources"] = len(names)
	if len(problems) > 0 {
		result.Details["problems"] = problems
		result.Status = worst
		result.Message = fmt.Sprintf("%d of %d source(s) have problems", len(problems), len(names))
		result.FixHint = "Run: skillctl source update <name> to restore cloned caches"
		return result
	}

	result.Status = SeverityPass
	result.Message = fmt.Sprintf("%d source(s) healthy", len(names))
	return result
}

func maxSeverity(a, b Severity) Severity {
	if b > a {
		return b
	}
	return a
}
