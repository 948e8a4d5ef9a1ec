package doctor

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/openhands/skillctl/internal/errors"
)

// WorkflowSyncCheck finds copies of .github/workflows files elsewhere in
// the tree and verifies each matches the canonical version byte for byte.
// Skills that document a workflow tend to carry a copy of it, and those
// copies go stale silently.
type WorkflowSyncCheck struct {
	root string

	// Populated by Run for ApplyFixes.
	stale []staleWorkflow
}

type staleWorkflow struct {
	path      string
	canonical string
}

var _ Check = (*WorkflowSyncCheck)(nil)
var _ Fixer = (*WorkflowSyncCheck)(nil)

// NewWorkflowSyncCheck creates a workflow sync check over the given root.
func NewWorkflowSyncCheck(root string) *WorkflowSyncCheck {
	return &WorkflowSyncCheck{root: root}
}

// Name returns the unique identifier for this check.
func (c *WorkflowSyncCheck) Name() string {
	return "workflow-sync"
}

// Category returns the grouping for this check.
func (c *WorkflowSyncCheck) Category() string {
	return "workflows"
}

// Run executes the workflow sync diagnostic check.
func (c *WorkflowSyncCheck) Run() *CheckResult {
	c.stale = nil

	result := &CheckResult{
		Name:     c.Name(),
		Category: c.Category(),
		Details:  map[string]any{"root": c.root},
	}

	workflowsDir := filepath.Join(c.root, ".github", "workflows")
	entries, err := os.ReadDir(workflowsDir)
	if err != nil {
		if os.IsNotExist(err) {
			result.Status = SeverityPass
			result.Message = "no workflows directory, nothing to compare"
			return result
		}
		result.Status = SeverityError
		result.Message = "cannot read workflows directory: " + err.Error()
		return result
	}

	canonical := make(map[string]string)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !isWorkflowFile(name) {
			continue
		}
		canonical[name] = filepath.Join(workflowsDir, name)
	}
	if len(canonical) == 0 {
		result.Status = SeverityPass
		result.Message = "no canonical workflow files"
		return result
	}

	var checked int
	var differs []string
	walkErr := filepath.WalkDir(c.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			if d.Name() == "workflows" && filepath.Base(filepath.Dir(path)) == ".github" {
				return filepath.SkipDir
			}
			return nil
		}
		source, ok := canonical[d.Name()]
		if !ok {
			return nil
		}
		checked++
		same, err := filesEqual(source, path)
		if err != nil {
			return err
		}
		if !same {
			c.stale = append(c.stale, staleWorkflow{path: path, canonical: source})
			rel, relErr := filepath.Rel(c.root, path)
			if relErr != nil {
				rel = path
			}
			differs = append(differs, fmt.Sprintf("%s differs from .github/workflows/%s", rel, d.Name()))
		}
		return nil
	})
	if walkErr != nil {
		result.Status = SeverityError
		result.Message = "cannot scan tree: " + walkErr.Error()
		return result
	}

	result.Details["canonical"] = len(canonical)
	result.Details["copies"] = checked

	if len(c.stale) > 0 {
		result.Status = SeverityError
		result.Message = fmt.Sprintf("%d workflow copy(ies) out of sync", len(c.stale))
		result.Details["stale"] = differs
		result.Fixable = true
		result.FixHint = "run doctor --fix to overwrite stale copies with the canonical versions"
		return result
	}

	result.Status = SeverityPass
	if checked == 0 {
		result.Message = "no workflow copies found"
	} else {
		result.Message = fmt.Sprintf("%d workflow copy(ies) in sync", checked)
	}
	return result
}

// CanFix returns true if Run found stale workflow copies.
func (c *WorkflowSyncCheck) CanFix() bool {
	return len(c.stale) > 0
}

// Fix overwrites each stale copy with the canonical workflow content,
// preserving the copy's file mode.
func (c *WorkflowSyncCheck) Fix() []FixResult {
	results := make([]FixResult, 0, len(c.stale))
	for _, sw := range c.stale {
		res := FixResult{Path: sw.path}
		data, err := os.ReadFile(sw.canonical)
		if err != nil {
			res.Description = "cannot read canonical workflow"
			res.Error = errors.Wrapf(err, "reading %s", sw.canonical)
			results = append(results, res)
			continue
		}
		mode := os.FileMode(0o644)
		if info, err := os.Stat(sw.path); err == nil {
			mode = info.Mode().Perm()
		}
		if err := os.WriteFile(sw.path, data, mode); err != nil {
			res.Description = "failed to sync workflow copy"
			res.Error = errors.Wrapf(err, "writing %s", sw.path)
		} else {
			res.Fixed = true
			res.Description = "synced from .github/workflows/" + filepath.Base(sw.canonical)
		}
		results = append(results, res)
	}
	return results
}

func isWorkflowFile(name string) bool {
	return strings.HasSuffix(name, ".yml") || strings.HasSuffix(name, ".yaml")
}

func filesEqual(a, b string) (bool, error) {
	dataA, err := os.ReadFile(a)
	if err != nil {
		return false, errors.Wrapf(err, "reading %s", a)
	}
	dataB, err := os.ReadFile(b)
	if err != nil {
		return false, errors.Wrapf(err, "reading %s", b)
	}
	return bytes.Equal(dataA, dataB), nil
}
