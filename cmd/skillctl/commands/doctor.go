package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/openhands/skillctl/cmd/skillctl/commands/flags"
	"github.com/openhands/skillctl/internal/doctor"
	"github.com/openhands/skillctl/internal/errors"
)

var (
	doctorJSON    bool
	doctorQuiet   bool
	doctorVerbose bool
	doctorFix     bool
)

func init() {
	doctorCmd.Flags().BoolVar(&doctorJSON, "json", false,
		"output results as JSON")
	doctorCmd.Flags().BoolVar(&doctorQuiet, "quiet", false,
		"suppress output, exit code only")
	doctorCmd.Flags().BoolVar(&doctorVerbose, "verbose", false,
		"show detailed check-by-check output")
	doctorCmd.Flags().BoolVar(&doctorFix, "fix", false,
		"apply automatic fixes, then re-run the checks")
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose registry and environment issues",
	Long: `Run diagnostic checks on the registry and its environment.

Validates every document in the registry, compares duplicated workflow
files against their canonical copies, verifies config and cloud
credentials, and checks cached source collections.

Output modes (mutually exclusive):
  (default)   Show errors and warnings
  --verbose   Show all checks including passed ones
  --quiet     No output, exit code only
  --json      Machine-readable JSON output

Exit codes:
  0 - No error-level findings
  1 - Errors present`,
	Example: `  # Diagnose the registry in the current directory
  skillctl doctor

  # Show every check, including passed ones
  skillctl doctor --verbose

  # Create missing directories, chmod hooks, sync stale workflow copies
  skillctl doctor --fix

  See Also: skillctl validate, skillctl config`,
	PreRunE: validateDoctorFlags,
	RunE:    runDoctor,
}

// validateDoctorFlags ensures output flags are mutually exclusive.
func validateDoctorFlags(_ *cobra.Command, _ []string) error {
	count := 0
	if doctorJSON {
		count++
	}
	if doctorQuiet {
		count++
	}
	if doctorVerbose {
		count++
	}

	if count > 1 {
		return errors.NewUsageError(
			errors.New("flags --json, --quiet, and --verbose are mutually exclusive"),
			"Pick one output mode")
	}

	return nil
}

func runDoctor(_ *cobra.Command, _ []string) error {
	return runDoctorWithWriter(os.Stdout, flags.RegistryRoot())
}

// runDoctorWithWriter allows injecting a writer for testing.
func runDoctorWithWriter(w io.Writer, registryRoot string) error {
	runner := newDoctorRunner(registryRoot)

	if doctorFix {
		fixes := runner.ApplyFixes()
		if !doctorQuiet && !doctorJSON {
			outputFixResults(w, fixes)
		}
		// Re-run on a fresh runner so the report reflects the fixed state
		runner = newDoctorRunner(registryRoot)
	}

	report := runner.Run()

	if err := outputDoctorReport(w, report); err != nil {
		return err
	}

	if report.HasErrors() {
		return errors.NewExitError(errDoctorProblems, errors.ExitFailure)
	}
	return nil
}

func newDoctorRunner(registryRoot string) *doctor.Runner {
	runner := doctor.NewRunner()
	runner.AddCheck(doctor.NewConfigCheck(configFlag))
	runner.AddCheck(doctor.NewRegistryCheck(registryRoot))
	runner.AddCheck(doctor.NewWorkflowSyncCheck(registryRoot))
	runner.AddCheck(doctor.NewCloudCheck(flags.Config()))
	runner.AddCheck(doctor.NewSourcesCheck(flags.Config()))
	runner.AddCheck(doctor.NewEnvironmentCheck())
	return runner
}

func outputDoctorReport(w io.Writer, report *doctor.DoctorReport) error {
	if doctorQuiet {
		return nil
	}

	if doctorJSON {
		return outputDoctorJSON(w, report)
	}

	return outputDoctorText(w, report)
}

func outputDoctorJSON(w io.Writer, report *doctor.DoctorReport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(report), "encoding JSON")
}

func outputDoctorText(w io.Writer, report *doctor.DoctorReport) error {
	// Normal mode shows only errors and warnings; verbose shows all checks
	showAll := doctorVerbose

	hasOutput := false
	for _, result := range report.Results {
		if !showAll && result.Status != doctor.SeverityError && result.Status != doctor.SeverityWarning {
			continue
		}

		hasOutput = true
		icon := statusIcon(result.Status)
		fmt.Fprintf(w, "%s [%s] %s: %s\n", icon, result.Category, result.Name, result.Message)

		if result.FixHint != "" && (result.Status == doctor.SeverityError || result.Status == doctor.SeverityWarning) {
			fmt.Fprintf(w, "  hint: %s\n", result.FixHint)
		}
	}

	if hasOutput || showAll {
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Summary: %d passed, %d info, %d warnings, %d errors\n",
		report.Summary.Passed, report.Summary.Info, report.Summary.Warnings, report.Summary.Errors)

	return nil
}

func outputFixResults(w io.Writer, fixes []doctor.FixResult) {
	if len(fixes) == 0 {
		fmt.Fprintln(w, "Nothing to fix.")
		fmt.Fprintln(w)
		return
	}

	for _, fix := range fixes {
		if fix.Fixed {
			fmt.Fprintf(w, "fixed %s: %s\n", fix.Path, fix.Description)
		} else {
			fmt.Fprintf(w, "could not fix %s: %v\n", fix.Path, fix.Error)
		}
	}
	fmt.Fprintln(w)
}

func statusIcon(s doctor.Severity) string {
	switch s {
	case doctor.SeverityPass:
		return "✓"
	case doctor.SeverityInfo:
		return "ℹ"
	case doctor.SeverityWarning:
		return "⚠"
	case doctor.SeverityError:
		return "✗"
	default:
		return "?"
	}
}

// errDoctorProblems is the sentinel behind doctor's exit code 1.
var errDoctorProblems = errors.New("doctor found problems")
