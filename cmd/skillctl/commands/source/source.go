// Package source provides CLI commands for managing skill collections.
package source

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/openhands/skillctl/internal/paths"
	"github.com/openhands/skillctl/internal/source"
)

// Cmd is the root source command.
var Cmd = &cobra.Command{
	Use:   "source",
	Short: "Manage skill collections",
	Long: `Manage collections: git repositories or local directories registered
as installable sources of skills and plugins.

Git collections are shallow cloned to a local cache; local directories
are registered in place. Install entries from a collection with
'skillctl skill install' or 'skillctl plugin install'.`,
	Example: `  # Register a collection
  skillctl source add https://github.com/example/community-skills.git

  # List registered collections
  skillctl source list

  # Refresh all collections
  skillctl source update

  # Remove a collection
  skillctl source remove community-skills

  See Also:
    skillctl source add    - Register a collection
    skillctl source list   - List registered collections
    skillctl source update - Refresh collection caches
    skillctl source remove - Remove a collection`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

// configPath is where source registrations are persisted. The same path
// backs registry lookups, so a source added here is immediately
// searchable.
func configPath() string {
	return filepath.Join(paths.ConfigDir(), "config.yaml")
}

// printValidationWarnings outputs collection content warnings. Warnings
// never block the operation that produced them.
func printValidationWarnings(w io.Writer, warnings []source.ValidationWarning) {
	if len(warnings) == 0 {
		return
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "⚠ Validation warnings:")
	for _, warn := range warnings {
		fmt.Fprintf(w, "  %s: %s\n", warn.Path, warn.Message)
	}
}
