package convo

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	Cmd.AddCommand(titleCmd)
}

var titleCmd = &cobra.Command{
	Use:   "title <id> <title>",
	Short: "Rename a conversation",
	Long: `Set a conversation's title.

Automation-created conversations get generated titles; renaming them
keeps dashboards and listings readable.`,
	Example: `  skillctl convo title 1f2e3d4c "nightly deploy-guard verification"`,
	Args:    cobra.ExactArgs(2),
	RunE:    runTitle,
}

func runTitle(cmd *cobra.Command, args []string) error {
	return runTitleWithWriter(cmd, os.Stdout, args[0], args[1])
}

// runTitleWithWriter allows injecting a writer for testing.
func runTitleWithWriter(cmd *cobra.Command, w io.Writer, id, title string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	if _, err := client.UpdateTitle(cmd.Context(), id, title); err != nil {
		return err
	}

	fmt.Fprintf(w, "Title updated: %s\n", title)
	return nil
}
