// Package hooks provides syntax checking for plugin hook scripts.
// Hooks are shell scripts under a plugin's hooks/ directory; they must parse
// as POSIX/Bash shell and carry the executable bit. Scripts are never
// executed here.
package hooks

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

// Checker validates hook scripts.
type Checker struct{}

// New creates a new Checker instance.
func New() *Checker {
	return &Checker{}
}

// Check parses a script from the given reader.
// The name parameter is used for error context only.
func (c *Checker) Check(r io.Reader, name string) error {
	parser := syntax.NewParser()
	if _, err := parser.Parse(r, name); err != nil {
		return &HookError{Path: name, Err: err}
	}
	return nil
}

// CheckFile validates a single hook script on disk. The script must parse
// as shell and be executable.
func (c *Checker) CheckFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return &HookError{Path: path, Err: err}
	}

	if info.Mode()&0o111 == 0 {
		return &HookError{Path: path, Err: ErrNotExecutable}
	}

	f, err := os.Open(path)
	if err != nil {
		return &HookError{Path: path, Err: err}
	}
	defer f.Close()

	return c.Check(f, path)
}

// CheckDir validates every *.sh file directly under dir.
// A missing directory is not an error; plugins may carry no hooks.
func (c *Checker) CheckDir(dir string) []error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return []error{&HookError{Path: dir, Err: err}}
	}

	var errs []error
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sh") {
			continue
		}
		if err := c.CheckFile(filepath.Join(dir, entry.Name())); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}
