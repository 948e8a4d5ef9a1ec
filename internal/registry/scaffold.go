package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/openhands/skillctl/internal/errors"
	"github.com/openhands/skillctl/internal/paths"
	"github.com/openhands/skillctl/internal/skill"
	skillvalidator "github.com/openhands/skillctl/internal/skill/validator"
	"github.com/openhands/skillctl/pkg/fileutil"
	"github.com/openhands/skillctl/pkg/frontmatter"
)

// ErrExists is returned by Scaffold when the target document already exists.
var ErrExists = errors.New("document already exists")

// ScaffoldOptions carries the optional frontmatter values for a new entry.
// Zero values get sensible placeholders that still validate.
type ScaffoldOptions struct {
	Description string
	Triggers    []string
	License     string
}

// Scaffold creates <root>/<kind dir>/<name>/<doc file> with valid
// frontmatter and a body template, plus an empty hooks/ directory for
// plugins. It refuses to overwrite an existing document and returns the
// path of the written document.
func Scaffold(root string, kind Kind, name string, opts ScaffoldOptions) (string, error) {
	doc := &skill.Document{
		Name:        name,
		Description: opts.Description,
		Triggers:    opts.Triggers,
		License:     opts.License,
	}
	if doc.Description == "" {
		doc.Description = fmt.Sprintf("Describe when the assistant should use %s.", name)
	}
	if kind == KindPlugin && len(doc.Triggers) == 0 {
		// Plugins without triggers never fire, so seed one from the name.
		doc.Triggers = []string{strings.ReplaceAll(name, "-", " ")}
	}

	v := skillvalidator.New(skillvalidator.WithStrict(kind == KindPlugin))
	if errs := v.Validate(doc); len(errs) > 0 {
		return "", errs[0]
	}

	dir := filepath.Join(root, kind.DirName(), name)
	docPath := filepath.Join(dir, kind.DocFile())
	if _, err := os.Stat(docPath); err == nil {
		return "", errors.Wrapf(ErrExists, "%s", docPath)
	} else if !os.IsNotExist(err) {
		return "", errors.Wrapf(err, "stat %s", docPath)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrapf(err, "creating %s", dir)
	}

	content, err := frontmatter.Format(doc, bodyTemplate(kind))
	if err != nil {
		return "", errors.Wrap(err, "generating document")
	}
	if err := fileutil.AtomicWriteFile(docPath, content, 0o644); err != nil {
		return "", err
	}

	if kind == KindPlugin {
		hooksDir := filepath.Join(dir, paths.HooksDirName)
		if err := os.MkdirAll(hooksDir, 0o755); err != nil {
			return "", errors.Wrapf(err, "creating %s", hooksDir)
		}
		keep := filepath.Join(hooksDir, ".keep")
		if err := os.WriteFile(keep, nil, 0o644); err != nil {
			return "", errors.Wrapf(err, "creating %s", keep)
		}
	}

	return docPath, nil
}

func bodyTemplate(kind Kind) string {
	body := `# Instructions

You are helping with [describe the task].

## Guidelines

- Guideline 1
- Guideline 2

## Examples

When the user asks to [do something], you should...
`
	if kind == KindPlugin {
		body += `
## Hooks

Put executable shell scripts under hooks/. Each script must parse as
POSIX shell and carry the executable bit.
`
	}
	return body
}
