package doctor

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/openhands/skillctl/internal/errors"
	"github.com/openhands/skillctl/internal/paths"
	"github.com/openhands/skillctl/internal/validator"
)

// RegistryCheck validates the registry layout and every document in it:
// parseable frontmatter, field rules, hook scripts, and names unique
// across skills and plugins.
type RegistryCheck struct {
	root string

	// Populated by Run for ApplyFixes.
	missingDirs  []string
	unexecutable []string
}

var _ Check = (*RegistryCheck)(nil)
var _ Fixer = (*RegistryCheck)(nil)

// NewRegistryCheck creates a registry check over the given root.
func NewRegistryCheck(root string) *RegistryCheck {
	return &RegistryCheck{root: root}
}

// Name returns the unique identifier for this check.
func (c *RegistryCheck) Name() string {
	return "registry-tree"
}

// Category returns the grouping for this check.
func (c *RegistryCheck) Category() string {
	return "registry"
}

// Run executes the registry diagnostic check.
func (c *RegistryCheck) Run() *CheckResult {
	c.missingDirs = nil
	c.unexecutable = nil

	result := &CheckResult{
		Name:     c.Name(),
		Category: c.Category(),
		Details:  map[string]any{"root": c.root},
	}

	if _, err := os.Stat(c.root); err != nil {
		if os.IsNotExist(err) {
			c.missingDirs = append(c.missingDirs,
				c.root, paths.SkillsDir(c.root), paths.PluginsDir(c.root))
			result.Status = SeverityError
			result.Message = "registry root does not exist"
			result.Fixable = true
			result.FixHint = "run doctor --fix to create it, or point registry at an existing tree"
			return result
		}
		result.Status = SeverityError
		result.Message = "cannot read registry root: " + err.Error()
		return result
	}

	// Both kind directories should exist, even when empty.
	for _, dir := range []string{paths.SkillsDir(c.root), paths.PluginsDir(c.root)} {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			c.missingDirs = append(c.missingDirs, dir)
		}
	}

	tree, err := validator.CheckTree(c.root)
	if err != nil {
		result.Status = SeverityError
		result.Message = "cannot scan registry: " + err.Error()
		return result
	}

	var invalid, withWarnings []string
	for _, doc := range tree.Documents {
		if !doc.Valid {
			invalid = append(invalid, doc.Kind+"/"+doc.Name)
		} else if len(doc.Issues) > 0 {
			withWarnings = append(withWarnings, doc.Kind+"/"+doc.Name)
		}
	}

	result.Details["documents"] = len(tree.Documents)
	if len(invalid) > 0 {
		result.Details["invalid"] = invalid
	}
	if len(withWarnings) > 0 {
		result.Details["warnings"] = withWarnings
	}
	if len(tree.Issues) > 0 {
		duplicates := make([]string, 0, len(tree.Issues))
		for _, issue := range tree.Issues {
			if name, ok := issue.Value.(string); ok {
				duplicates = append(duplicates, name)
			}
		}
		result.Details["duplicates"] = duplicates
	}

	c.unexecutable = findUnexecutableHooks(c.root)

	switch {
	case len(invalid) > 0 || len(tree.Issues) > 0:
		result.Status = SeverityError
		result.Message = fmt.Sprintf("%d document problem(s) found", len(invalid)+len(tree.Issues))
		result.FixHint = "Run: skillctl validate"
		result.Fixable = len(c.unexecutable) > 0 || len(c.missingDirs) > 0
	case len(c.missingDirs) > 0:
		result.Status = SeverityWarning
		result.Message = "registry layout incomplete (missing skills/ or plugins/)"
		result.Fixable = true
		result.FixHint = "run doctor --fix to create the missing directories"
	case len(withWarnings) > 0:
		result.Status = SeverityWarning
		result.Message = fmt.Sprintf("%d document(s) have warnings", len(withWarnings))
		result.FixHint = "Run: skillctl validate"
	case len(tree.Documents) == 0:
		result.Status = SeverityPass
		result.Message = "registry is empty"
	default:
		result.Status = SeverityPass
		result.Message = fmt.Sprintf("%d document(s) valid", len(tree.Documents))
	}

	return result
}

// CanFix returns true if Run found missing layout directories or hook
// scripts without the executable bit.
func (c *RegistryCheck) CanFix() bool {
	return len(c.missingDirs)+len(c.unexecutable) > 0
}

// Fix creates missing layout directories and restores the executable
// bit on hook scripts. Document content is never touched.
func (c *RegistryCheck) Fix() []FixResult {
	results := make([]FixResult, 0, len(c.missingDirs)+len(c.unexecutable))

	for _, dir := range c.missingDirs {
		res := FixResult{Path: dir}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			res.Description = "failed to create directory"
			res.Error = errors.Wrapf(err, "mkdir %s", dir)
		} else {
			res.Fixed = true
			res.Description = "created directory"
		}
		results = append(results, res)
	}

	for _, hook := range c.unexecutable {
		res := FixResult{Path: hook}
		info, err := os.Stat(hook)
		if err != nil {
			res.Description = "cannot stat hook"
			res.Error = errors.Wrapf(err, "stat %s", hook)
			results = append(results, res)
			continue
		}
		mode := info.Mode().Perm() | 0o111
		if err := os.Chmod(hook, mode); err != nil {
			res.Description = fmt.Sprintf("failed to chmod %04o", mode)
			res.Error = errors.Wrapf(err, "chmod %04o %s", mode, hook)
		} else {
			res.Fixed = true
			res.Description = fmt.Sprintf("chmod %04o", mode)
		}
		results = append(results, res)
	}

	return results
}

// findUnexecutableHooks returns hook scripts missing the executable bit.
func findUnexecutableHooks(root string) []string {
	var found []string
	pluginsDir := paths.PluginsDir(root)
	entries, err := os.ReadDir(pluginsDir)
	if err != nil {
		return nil
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		hooksDir := filepath.Join(pluginsDir, entry.Name(), paths.HooksDirName)
		hookEntries, err := os.ReadDir(hooksDir)
		if err != nil {
			continue
		}
		for _, hook := range hookEntries {
			if hook.IsDir() || !strings.HasSuffix(hook.Name(), ".sh") {
				continue
			}
			info, err := hook.Info()
			if err != nil {
				continue
			}
			if info.Mode()&0o111 == 0 {
				found = append(found, filepath.Join(hooksDir, hook.Name()))
			}
		}
	}
	return found
}
