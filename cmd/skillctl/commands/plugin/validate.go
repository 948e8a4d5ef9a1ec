package plugin

import (
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/openhands/skillctl/cmd/skillctl/commands/flags"
	"github.com/openhands/skillctl/internal/errors"
	"github.com/openhands/skillctl/internal/validator"
)

var validateJSON bool

func init() {
	validateCmd.Flags().BoolVar(&validateJSON, "json", false, "Output results as JSON")
	Cmd.AddCommand(validateCmd)
}

var validateCmd = &cobra.Command{
	Use:   "validate <name|path>",
	Short: "Validate a plugin document and its hooks",
	Long: `Validate one plugin: frontmatter schema, required triggers, and the
hook scripts. Each hooks/*.sh must parse as shell and carry the
executable bit; hooks are never executed.

The argument is a plugin name in the registry or a path to a PLUGIN.md.

Exit codes:
  0 - Document and hooks valid
  1 - Validation errors found`,
	Example: `  # Validate a registry plugin by name
  skillctl plugin validate deploy-guard

  # Validate a file
  skillctl plugin validate ./drafts/deploy-guard/PLUGIN.md

  # Machine-readable report
  skillctl plugin validate deploy-guard --json

  See Also:
    skillctl validate     - Validate the whole registry
    skillctl plugin edit  - Fix the document`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func runValidate(_ *cobra.Command, args []string) error {
	return runValidateWithWriter(os.Stdout, flags.RegistryRoot(), args[0])
}

// runValidateWithWriter allows injecting a writer for testing.
func runValidateWithWriter(w io.Writer, root, target string) error {
	docPath, err := resolveDocPath(root, target)
	if err != nil {
		return err
	}

	rep, err := validator.CheckFile(docPath)
	if err != nil {
		return err
	}

	format := validator.FormatText
	if validateJSON {
		format = validator.FormatJSON
	}
	if err := validator.NewReporter(w, format).ReportDocument(rep); err != nil {
		return err
	}

	if !rep.Valid {
		return errors.NewExitError(errors.Newf("plugin %s is invalid", rep.Name),
			errors.ExitFailure)
	}
	return nil
}

// resolveDocPath maps a name or path argument to a PLUGIN.md path.
func resolveDocPath(root, target string) (string, error) {
	if strings.ContainsAny(target, "/\\") || strings.HasSuffix(strings.ToLower(target), ".md") {
		return target, nil
	}
	entry, err := findLocal(root, target)
	if err != nil {
		return "", err
	}
	return entry.DocPath(), nil
}
