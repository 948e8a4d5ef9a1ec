package source

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/openhands/skillctl/internal/errors"
	"github.com/openhands/skillctl/internal/source"
)

func init() {
	Cmd.AddCommand(updateCmd)
}

var updateCmd = &cobra.Command{
	Use:   "update [name]",
	Short: "Refresh collection caches",
	Long: `Refresh collections by pulling the latest changes.

With a name, only that collection is refreshed. Without one, every
registered collection is refreshed. Local directory collections are
left untouched; they are always current.`,
	Example: `  # Refresh all collections
  skillctl source update

  # Refresh one collection
  skillctl source update community-skills`,
	Args: cobra.MaximumNArgs(1),
	RunE: runUpdate,
}

func runUpdate(_ *cobra.Command, args []string) error {
	var name string
	if len(args) > 0 {
		name = args[0]
	}
	return runUpdateWithWriter(os.Stdout, name)
}

// runUpdateWithWriter allows injecting a writer for testing.
func runUpdateWithWriter(w io.Writer, name string) error {
	manager := source.NewManager(configPath())

	if name != "" {
		fmt.Fprintf(w, "Updating %s... ", name)
		if err := manager.Update(name); err != nil {
			fmt.Fprintln(w, "✗ failed")
			return handleUpdateError(name, err)
		}
		fmt.Fprintln(w, "✓ done")

		if src, err := manager.Get(name); err == nil {
			printValidationWarnings(w, source.ValidateContent(src.Path))
		}
		return nil
	}

	sources, err := manager.List()
	if err != nil {
		return errors.Wrap(err, "listing collections")
	}

	if len(sources) == 0 {
		fmt.Fprintln(w, "No collections registered.")
		return nil
	}

	var failed []string
	var allWarnings []source.ValidationWarning
	for _, src := range sources {
		fmt.Fprintf(w, "Updating %s... ", src.Name)
		if err := manager.Update(src.Name); err != nil {
			fmt.Fprintln(w, "✗ failed")
			failed = append(failed, fmt.Sprintf("%s: %v", src.Name, err))
			continue
		}
		fmt.Fprintln(w, "✓ done")

		allWarnings = append(allWarnings, source.ValidateContent(src.Path)...)
	}

	printValidationWarnings(w, allWarnings)

	if len(failed) > 0 {
		return errors.Newf("some collections failed to update:\n  %s",
			strings.Join(failed, "\n  "))
	}

	return nil
}

// handleUpdateError maps manager failures to actionable messages.
func handleUpdateError(name string, err error) error {
	if errors.Is(err, source.ErrNotFound) {
		return errors.NewUserError(
			errors.Newf("collection %q not found", name),
			"Run 'skillctl source list' to see registered collections")
	}
	return errors.NewExitErrorWithSuggestion(
		errors.Wrapf(err, "updating %q", name),
		errors.ExitFailure,
		"Check your network connection and collection access")
}
