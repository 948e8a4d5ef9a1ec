package commands

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/openhands/skillctl/cmd/skillctl/commands/flags"
	"github.com/openhands/skillctl/internal/errors"
	"github.com/openhands/skillctl/internal/validator"
	"github.com/openhands/skillctl/internal/watch"
)

var (
	validateJSON  bool
	validateWatch bool
)

func init() {
	validateCmd.Flags().BoolVar(&validateJSON, "json", false,
		"output results as JSON")
	validateCmd.Flags().BoolVar(&validateWatch, "watch", false,
		"re-validate whenever registry files change (Ctrl-C to stop)")
	rootCmd.AddCommand(validateCmd)
}

var validateCmd = &cobra.Command{
	Use:   "validate [path]",
	Short: "Validate registry documents",
	Long: `Validate skill and plugin documents.

Without arguments, validates every document under the registry root.
With a path, validates that single SKILL.md or PLUGIN.md file, or the
registry tree rooted at that directory.

Plugins additionally get their hooks checked: each hooks/*.sh must
parse as shell and carry the executable bit.

Exit codes:
  0 - All documents valid
  1 - Validation errors found`,
	Example: `  # Validate the whole registry
  skillctl validate

  # Validate one document
  skillctl validate skills/git-helper/SKILL.md

  # Machine-readable report
  skillctl validate --json

  # Keep validating as you edit
  skillctl validate --watch

  See Also: skillctl doctor, skillctl skill validate`,
	Args: cobra.MaximumNArgs(1),
	RunE: runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	target := flags.RegistryRoot()
	if len(args) > 0 {
		target = args[0]
	}

	if validateWatch {
		return runValidateWatch(cmd, target)
	}
	return runValidateWithWriter(os.Stdout, target)
}

// runValidateWithWriter allows injecting a writer for testing.
func runValidateWithWriter(w io.Writer, target string) error {
	format := validator.FormatText
	if validateJSON {
		format = validator.FormatJSON
	}
	reporter := validator.NewReporter(w, format)

	valid, err := validateTarget(reporter, target)
	if err != nil {
		return err
	}
	if !valid {
		return errors.NewExitError(errValidationFailed, errors.ExitFailure)
	}
	return nil
}

// validateTarget validates a file or tree and reports the outcome.
func validateTarget(reporter *validator.Reporter, target string) (bool, error) {
	if isDocumentPath(target) {
		rep, err := validator.CheckFile(target)
		if err != nil {
			return false, err
		}
		if err := reporter.ReportDocument(rep); err != nil {
			return false, err
		}
		return rep.Valid, nil
	}

	tree, err := validator.CheckTree(target)
	if err != nil {
		return false, err
	}
	if err := reporter.ReportTree(tree); err != nil {
		return false, err
	}
	return tree.Valid(), nil
}

// isDocumentPath reports whether target names a single registry document
// rather than a tree root.
func isDocumentPath(target string) bool {
	switch strings.ToUpper(filepath.Base(target)) {
	case "SKILL.MD", "PLUGIN.MD":
		return true
	}
	return false
}

// runValidateWatch validates once, then re-validates on every settled
// batch of file changes until interrupted.
func runValidateWatch(cmd *cobra.Command, target string) error {
	if isDocumentPath(target) {
		return errors.NewUsageError(
			errors.New("--watch works on a registry tree, not a single document"),
			"Point --watch at the registry root")
	}

	w := cmd.OutOrStdout()
	if err := reportOnce(w, target); err != nil {
		return err
	}

	watcher, err := watch.New(target, func(paths []string) {
		fmt.Fprintf(w, "\n--- %s (%d file(s) changed) ---\n",
			time.Now().Format("15:04:05"), len(paths))
		if err := reportOnce(w, target); err != nil {
			fmt.Fprintf(w, "validation failed: %v\n", err)
		}
	})
	if err != nil {
		return errors.Wrap(err, "starting watcher")
	}
	defer func() { _ = watcher.Stop() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := watcher.Start(ctx); err != nil {
		return errors.Wrap(err, "watching registry")
	}

	fmt.Fprintf(w, "\nWatching %s for changes. Press Ctrl-C to stop.\n", target)
	<-ctx.Done()
	return nil
}

// reportOnce runs one tree validation pass and prints the report. An
// invalid tree is reported, not returned as an error; watch keeps going.
func reportOnce(w io.Writer, target string) error {
	format := validator.FormatText
	if validateJSON {
		format = validator.FormatJSON
	}
	reporter := validator.NewReporter(w, format)
	_, err := validateTarget(reporter, target)
	return err
}

// errValidationFailed is the sentinel behind validate's exit code 1.
var errValidationFailed = errors.New("validation failed")
