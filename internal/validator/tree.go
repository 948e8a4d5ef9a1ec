package validator

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/openhands/skillctl/internal/errors"
	"github.com/openhands/skillctl/internal/paths"
	"github.com/openhands/skillctl/internal/registry"
	"github.com/openhands/skillctl/internal/skill/hooks"
	"github.com/openhands/skillctl/internal/skill/parser"
	skillvalidator "github.com/openhands/skillctl/internal/skill/validator"
)

// DocumentReport is the validation outcome for one registry document.
type DocumentReport struct {
	Name   string  `json:"name"`
	Kind   string  `json:"kind"`
	Path   string  `json:"path"`
	Valid  bool    `json:"valid"`
	Issues []Issue `json:"issues,omitempty"`
}

// TreeReport is the validation outcome for a whole registry root.
// Issues holds tree-level problems that no single document owns, such
// as one name claimed by both a skill and a plugin.
type TreeReport struct {
	Root      string           `json:"root"`
	Documents []DocumentReport `json:"documents"`
	Issues    []Issue          `json:"issues,omitempty"`
}

// Valid reports whether every document passed and no tree-level error
// exists. Warnings do not make a tree invalid.
func (t *TreeReport) Valid() bool {
	for _, issue := range t.Issues {
		if issue.Severity == SeverityError {
			return false
		}
	}
	for _, doc := range t.Documents {
		if !doc.Valid {
			return false
		}
	}
	return true
}

// CheckFile validates a single document. The file must be named
// SKILL.md or PLUGIN.md; the kind follows from the file name.
func CheckFile(path string) (*DocumentReport, error) {
	kind, err := kindForDoc(path)
	if err != nil {
		return nil, err
	}
	rep := checkDocument(kind, path)
	return &rep, nil
}

// CheckTree validates every entry under root's skills/ and plugins/
// directories. Missing kind directories are fine; an empty tree is
// valid. Unlike listings, broken documents are reported, not skipped.
func CheckTree(root string) (*TreeReport, error) {
	tree := &TreeReport{Root: root}
	docsByName := make(map[string][]string)

	for _, kind := range []registry.Kind{registry.KindSkill, registry.KindPlugin} {
		kindDir := filepath.Join(root, kind.DirName())
		dirEntries, err := os.ReadDir(kindDir)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, errors.Wrapf(err, "reading directory %s", kindDir)
		}

		for _, dirEntry := range dirEntries {
			if !dirEntry.IsDir() || strings.HasPrefix(dirEntry.Name(), ".") {
				continue
			}
			docPath := filepath.Join(kindDir, dirEntry.Name(), kind.DocFile())
			tree.Documents = append(tree.Documents, checkDocument(kind, docPath))
			docsByName[dirEntry.Name()] = append(docsByName[dirEntry.Name()], docPath)
		}
	}

	// A name shared between skills/ and plugins/ makes lookup ambiguous.
	var duplicates []string
	for name, docs := range docsByName {
		if len(docs) > 1 {
			duplicates = append(duplicates, name)
		}
	}
	sort.Strings(duplicates)
	for _, name := range duplicates {
		tree.Issues = append(tree.Issues, Issue{
			Severity: SeverityError,
			Field:    "name",
			Message:  "name is used by both a skill and a plugin",
			Value:    name,
			Context:  map[string]string{"paths": strings.Join(docsByName[name], ", ")},
		})
	}

	return tree, nil
}

// checkDocument runs every applicable check against one document.
func checkDocument(kind registry.Kind, docPath string) DocumentReport {
	res := &Result{}
	collectIssues(kind, docPath, res)
	return DocumentReport{
		Name:   filepath.Base(filepath.Dir(docPath)),
		Kind:   string(kind),
		Path:   docPath,
		Valid:  !res.HasErrors(),
		Issues: res.Issues,
	}
}

// collectIssues appends every problem with the document to res.
// Plugins validate strictly (a plugin without triggers never fires)
// and additionally have their hook scripts checked.
func collectIssues(kind registry.Kind, docPath string, res *Result) {
	if _, err := os.Stat(docPath); err != nil {
		if os.IsNotExist(err) {
			res.AddError("", kind.DocFile()+" is missing", nil)
		} else {
			res.AddError("", err.Error(), nil)
		}
		return
	}

	doc, err := parser.New().ParseFile(docPath)
	if err != nil {
		res.AddError("", parseMessage(err), nil)
		return
	}

	var opts []skillvalidator.Option
	if kind == registry.KindPlugin {
		opts = append(opts, skillvalidator.WithStrict(true))
	}
	for _, verr := range skillvalidator.New(opts...).ValidateWithPath(doc, docPath) {
		res.Issues = append(res.Issues, issueFromError(verr))
	}

	if doc.Instructions == "" {
		res.AddWarning("body", "document body is empty", nil)
	}

	if kind == registry.KindPlugin {
		hooksDir := filepath.Join(filepath.Dir(docPath), paths.HooksDirName)
		for _, herr := range hooks.New().CheckDir(hooksDir) {
			res.Issues = append(res.Issues, hookIssue(herr))
		}
	}
}

func kindForDoc(path string) (registry.Kind, error) {
	switch filepath.Base(path) {
	case paths.SkillFileName:
		return registry.KindSkill, nil
	case paths.PluginFileName:
		return registry.KindPlugin, nil
	}
	return "", errors.Newf("%s is not a registry document (expected %s or %s)",
		path, paths.SkillFileName, paths.PluginFileName)
}

// parseMessage strips the file path from parse errors. The report
// carries the path already.
func parseMessage(err error) string {
	var pe *parser.ParseError
	if errors.As(err, &pe) {
		return pe.Err.Error()
	}
	return err.Error()
}

func issueFromError(err error) Issue {
	var ve *skillvalidator.ValidationError
	if errors.As(err, &ve) {
		issue := Issue{
			Severity: SeverityError,
			Field:    ve.Field,
			Message:  ve.Message,
			Context:  ve.Context,
		}
		if ve.Value != "" {
			issue.Value = ve.Value
		}
		return issue
	}
	return Issue{Severity: SeverityError, Message: err.Error()}
}

func hookIssue(err error) Issue {
	var he *hooks.HookError
	if errors.As(err, &he) {
		return Issue{
			Severity: SeverityError,
			Field:    "hooks",
			Message:  he.Err.Error(),
			Context:  map[string]string{"path": he.Path},
		}
	}
	return Issue{Severity: SeverityError, Field: "hooks", Message: err.Error()}
}
