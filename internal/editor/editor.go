// Package editor launches the user's preferred text editor on registry
// documents.
package editor

import (
	"os"
	"os/exec"
	"strings"

	"github.com/openhands/skillctl/internal/errors"
)

// Detect returns the editor command to use. Resolution order: $EDITOR,
// $VISUAL, nano if installed, vi. The result may carry arguments
// ("code --wait").
func Detect() string {
	if editor := os.Getenv("EDITOR"); editor != "" {
		return editor
	}
	if visual := os.Getenv("VISUAL"); visual != "" {
		return visual
	}
	if _, err := exec.LookPath("nano"); err == nil {
		return "nano"
	}
	return "vi"
}

// Open launches the detected editor on path and waits for it to exit.
// The terminal is handed to the editor for the duration.
func Open(path string) error {
	parts := strings.Fields(Detect())
	if len(parts) == 0 {
		parts = []string{"vi"}
	}
	args := append(parts[1:], path)

	cmd := exec.Command(parts[0], args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return errors.Wrapf(err, "running editor %s", parts[0])
	}
	return nil
}
