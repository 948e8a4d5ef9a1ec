package registry

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ErrEntryNotFound is returned when an entry's directory does not exist.
var ErrEntryNotFound = errors.New("entry not found")

// ErrAlreadyInstalled is returned when the destination already exists in the
// local registry.
var ErrAlreadyInstalled = errors.New("already installed")

// Install copies an entry out of its collection into the registry root.
// The entry directory is copied whole: the document file plus any hooks/
// and scripts/ directories it carries. File modes are preserved so hook
// scripts stay executable.
//
// If force is false and the destination already exists, ErrAlreadyInstalled
// is returned. With force, the existing entry is replaced.
//
// Returns the destination directory, e.g. "<root>/skills/<name>".
func Install(e *Entry, registryRoot string, force bool) (string, error) {
	srcPath := e.Dir()

	info, err := os.Stat(srcPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrEntryNotFound, srcPath)
		}
		return "", fmt.Errorf("checking source path: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: %s is not a directory", ErrEntryNotFound, srcPath)
	}

	dest := filepath.Join(registryRoot, e.Kind.DirName(), e.Name)
	if _, err := os.Stat(dest); err == nil {
		if !force {
			return "", fmt.Errorf("%w: %s", ErrAlreadyInstalled, dest)
		}
		if err := os.RemoveAll(dest); err != nil {
			return "", fmt.Errorf("removing existing entry: %w", err)
		}
	}

	if err := os.MkdirAll(dest, 0o755); err != nil {
		return "", fmt.Errorf("creating destination directory: %w", err)
	}

	if err := copyDir(srcPath, dest); err != nil {
		// Clean up the partial copy on failure
		_ = os.RemoveAll(dest)
		return "", fmt.Errorf("copying entry: %w", err)
	}

	return dest, nil
}

// copyDir recursively copies a directory from src to dst.
// dst is expected to already exist.
func copyDir(src, dst string) error {
	entries, err := os.ReadDir(src)
	if err != nil {
		return fmt.Errorf("reading directory %s: %w", src, err)
	}

	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())

		// Reject symlinks: a collection could otherwise smuggle links to
		// files outside its tree into the local registry.
		if entry.Type()&os.ModeSymlink != 0 {
			return fmt.Errorf("refusing to copy symlink %s", srcPath)
		}

		if entry.IsDir() {
			// Create subdirectory
			if err := os.MkdirAll(dstPath, 0o755); err != nil {
				return fmt.Errorf("creating directory %s: %w", dstPath, err)
			}
			// Recurse into subdirectory
			if err := copyDir(srcPath, dstPath); err != nil {
				return err
			}
		} else {
			// Copy file
			if err := copyFile(srcPath, dstPath); err != nil {
				return err
			}
		}
	}

	return nil
}

// copyFile copies a single file from src to dst, preserving the file mode.
func copyFile(src, dst string) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening source file %s: %w", src, err)
	}
	defer srcFile.Close()

	srcInfo, err := srcFile.Stat()
	if err != nil {
		return fmt.Errorf("stating source file %s: %w", src, err)
	}

	dstFile, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, srcInfo.Mode())
	if err != nil {
		return fmt.Errorf("creating destination file %s: %w", dst, err)
	}
	defer dstFile.Close()

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		return fmt.Errorf("copying content from %s to %s: %w", src, dst, err)
	}

	return nil
}
