// Package plugin provides CLI commands for managing registry plugins.
package plugin

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/openhands/skillctl/internal/errors"
	"github.com/openhands/skillctl/internal/registry"
)

// Cmd is the root plugin command.
var Cmd = &cobra.Command{
	Use:   "plugin",
	Short: "Manage plugins in the registry",
	Long: `Manage the plugins/ half of the registry.

A plugin is a skill with side effects: a PLUGIN.md document plus
executable shell hooks under hooks/. Plugins fire when one of their
trigger phrases appears in the conversation, so triggers are required.`,
	Example: `  # List plugins in the registry
  skillctl plugin list

  # Scaffold a new plugin
  skillctl plugin init deploy-guard

  # Verify a plugin against a real cloud conversation
  skillctl plugin test --plugin deploy-guard \
    --message "deploy to staging" --expect "pre_deploy"

  See Also:
    skillctl plugin list     - List plugins
    skillctl plugin test     - Verify a plugin end to end
    skillctl plugin validate - Validate a plugin document and hooks`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

// findLocal returns the named plugin from the local registry, or
// registry.ErrEntryNotFound when the registry has no such plugin.
func findLocal(root, name string) (*registry.Entry, error) {
	entries, err := registry.NewScanner().ScanRoot(root, "", "")
	if err != nil {
		return nil, errors.Wrapf(err, "scanning registry %s", root)
	}
	for i := range entries {
		if entries[i].Kind == registry.KindPlugin && entries[i].Name == name {
			return &entries[i], nil
		}
	}
	return nil, errors.Wrapf(registry.ErrEntryNotFound, "plugin %q", name)
}

// listHooks returns the sorted base names of the entry's hook scripts.
// A missing hooks directory is an empty result, not an error.
func listHooks(entry *registry.Entry) []string {
	dirEntries, err := os.ReadDir(filepath.Join(entry.Dir(), "hooks"))
	if err != nil {
		return nil
	}
	var hooks []string
	for _, de := range dirEntries {
		if !de.IsDir() && strings.HasSuffix(de.Name(), ".sh") {
			hooks = append(hooks, de.Name())
		}
	}
	sort.Strings(hooks)
	return hooks
}
