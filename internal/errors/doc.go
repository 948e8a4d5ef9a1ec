// Package errors provides error handling conventions for the skillctl CLI.
//
// This package defines sentinel errors for common failure conditions,
// an ExitError type for CLI exit code handling, exit code constants
// following standard Unix conventions, and thin wrappers around
// github.com/cockroachdb/errors for annotation.
//
// # Sentinel Errors
//
// Sentinel errors allow callers to check for specific error conditions
// using [errors.Is]:
//
//	if errors.Is(err, ctlerrors.ErrNotFound) {
//	    // handle not found case
//	}
//
// # Exit Codes
//
// The package defines standard exit codes for CLI applications:
//
//   - ExitSuccess (0): Command completed successfully
//   - ExitFailure (1): The command ran and failed (bad config, I/O or
//     network trouble, a verification run that did not match)
//   - ExitUsage (2): The command was invoked incorrectly (unknown flags,
//     missing arguments, invalid patterns)
//
// # ExitError
//
// [ExitError] wraps an underlying error with an exit code and optional suggestion
// for CLI applications. It supports error unwrapping via [errors.Unwrap] and
// [errors.As]:
//
//	err := ctlerrors.NewUserError(ctlerrors.ErrInvalidConfig, "Check your config file")
//	var exitErr *ctlerrors.ExitError
//	if errors.As(err, &exitErr) {
//	    if exitErr.Suggestion != "" {
//	        fmt.Println("Suggestion:", exitErr.Suggestion)
//	    }
//	    os.Exit(exitErr.Code)
//	}
package errors
