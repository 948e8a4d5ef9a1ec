// Package main is the entry point for the skillctl CLI.
package main

import (
	"fmt"
	"os"

	"github.com/openhands/skillctl/cmd/skillctl/commands"
	"github.com/openhands/skillctl/internal/errors"
)

func main() {
	os.Exit(run())
}

// run executes the root command and maps the result to an exit code.
// ExitError carries its own code (the plugin harness relies on 0/1/2
// being stable); anything else is a plain failure.
func run() int {
	err := commands.Execute()
	if err == nil {
		return errors.ExitSuccess
	}

	var exitErr *errors.ExitError
	if errors.As(err, &exitErr) {
		if exitErr.Err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", exitErr.Err)
		}
		if exitErr.Suggestion != "" {
			fmt.Fprintf(os.Stderr, "%s\n", exitErr.Suggestion)
		}
		return exitErr.Code
	}

	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	return errors.ExitFailure
}
