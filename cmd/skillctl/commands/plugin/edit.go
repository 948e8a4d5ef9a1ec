package plugin

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/openhands/skillctl/cmd/skillctl/commands/flags"
	"github.com/openhands/skillctl/internal/editor"
	"github.com/openhands/skillctl/internal/validator"
)

func init() {
	Cmd.AddCommand(editCmd)
}

var editCmd = &cobra.Command{
	Use:   "edit <name>",
	Short: "Edit a plugin in $EDITOR",
	Long: `Open a plugin's PLUGIN.md in your editor ($EDITOR, then $VISUAL,
then nano, then vi) and re-validate it afterwards, hooks included.

Validation problems are reported but the edit is never rolled back.`,
	Example: `  # Edit a plugin
  skillctl plugin edit deploy-guard

  See Also:
    skillctl plugin show     - Show a plugin
    skillctl plugin validate - Validate a plugin`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

func runEdit(_ *cobra.Command, args []string) error {
	entry, err := findLocal(flags.RegistryRoot(), args[0])
	if err != nil {
		return err
	}

	if err := editor.Open(entry.DocPath()); err != nil {
		return err
	}

	// Surface problems right away; the file stays as saved either way
	rep, err := validator.CheckFile(entry.DocPath())
	if err != nil {
		return err
	}
	if len(rep.Issues) > 0 {
		fmt.Println()
		reporter := validator.NewReporter(os.Stdout, validator.FormatText)
		return reporter.ReportDocument(rep)
	}
	return nil
}
