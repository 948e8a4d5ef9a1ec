package source

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/openhands/skillctl/internal/errors"
	"github.com/openhands/skillctl/internal/source"
)

func init() {
	Cmd.AddCommand(removeCmd)
}

var removeCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove a collection",
	Long: `Remove a collection registration and its cached clone.

Local directory collections lose only their registration; the
directory itself is never deleted.`,
	Example: `  skillctl source remove community-skills`,
	Args:    cobra.ExactArgs(1),
	RunE:    runRemove,
}

func runRemove(_ *cobra.Command, args []string) error {
	return runRemoveWithWriter(os.Stdout, args[0])
}

// runRemoveWithWriter allows injecting a writer for testing.
func runRemoveWithWriter(w io.Writer, name string) error {
	manager := source.NewManager(configPath())

	if err := manager.Remove(name); err != nil {
		if errors.Is(err, source.ErrNotFound) {
			return errors.NewUserError(
				errors.Newf("collection %q not found", name),
				"Run 'skillctl source list' to see registered collections")
		}
		// The registration is gone either way; a leftover cache directory
		// is only worth a warning
		if errors.Is(err, source.ErrCacheCleanupFailed) {
			fmt.Fprintf(w, "✓ Collection %q removed\n", name)
			fmt.Fprintf(w, "⚠ Warning: %v\n", err)
			return nil
		}
		return errors.Wrapf(err, "removing collection %q", name)
	}

	fmt.Fprintf(w, "✓ Collection %q removed\n", name)
	return nil
}
