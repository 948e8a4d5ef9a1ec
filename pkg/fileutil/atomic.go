// Package fileutil provides filesystem helpers shared across the tree:
// atomic writes and bounded reads.
package fileutil

import (
	"encoding/json"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/openhands/skillctl/internal/errors"
)

// AtomicWriteFile writes data to path through a temp file in the same
// directory followed by a rename, so readers never observe a partial
// write and an interrupted write leaves any existing file untouched.
// The parent directory must already exist.
func AtomicWriteFile(path string, data []byte, perm os.FileMode) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".skillctl-atomic-*.tmp")
	if err != nil {
		return errors.Wrap(err, "creating temp file")
	}
	tmpName := tmp.Name()

	renamed := false
	defer func() {
		if !renamed {
			tmp.Close()
			os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return errors.Wrap(err, "writing temp file")
	}
	// Chmod rather than umask-dependent CreateTemp modes
	if err := tmp.Chmod(perm); err != nil {
		return errors.Wrap(err, "setting file permissions")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "closing temp file")
	}
	if err := os.Rename(tmpName, path); err != nil {
		return errors.Wrap(err, "renaming temp file")
	}
	renamed = true
	return nil
}

// AtomicWriteJSONWithPerm writes v as 2-space-indented JSON with a
// trailing newline, atomically, with the given permissions.
func AtomicWriteJSONWithPerm(path string, v any, perm os.FileMode) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshaling JSON")
	}
	return AtomicWriteFile(path, append(data, '\n'), perm)
}

// AtomicWriteJSON is AtomicWriteJSONWithPerm with 0644 permissions.
func AtomicWriteJSON(path string, v any) error {
	return AtomicWriteJSONWithPerm(path, v, 0o644)
}

// AtomicWriteYAMLWithPerm writes v as YAML atomically with the given
// permissions.
func AtomicWriteYAMLWithPerm(path string, v any, perm os.FileMode) (err error) {
	// yaml.Marshal panics on types it cannot encode
	defer func() {
		if r := recover(); r != nil {
			err = errors.Newf("marshaling YAML: %v", r)
		}
	}()

	data, err := yaml.Marshal(v)
	if err != nil {
		return errors.Wrap(err, "marshaling YAML")
	}
	if n := len(data); n == 0 || data[n-1] != '\n' {
		data = append(data, '\n')
	}
	return AtomicWriteFile(path, data, perm)
}

// AtomicWriteYAML is AtomicWriteYAMLWithPerm with 0644 permissions.
func AtomicWriteYAML(path string, v any) error {
	return AtomicWriteYAMLWithPerm(path, v, 0o644)
}
