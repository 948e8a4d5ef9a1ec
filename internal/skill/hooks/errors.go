package hooks

import (
	"errors"
	"fmt"
)

// ErrNotExecutable indicates a hook script is missing the executable bit.
var ErrNotExecutable = errors.New("hook is not executable")

// HookError represents a problem with a single hook script.
type HookError struct {
	Path string // Path to the offending script
	Err  error  // Underlying error
}

func (e *HookError) Error() string {
	return fmt.Sprintf("hook %s: %v", e.Path, e.Err)
}

func (e *HookError) Unwrap() error {
	return e.Err
}
