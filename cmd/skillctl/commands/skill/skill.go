// Package skill provides CLI commands for managing registry skills.
package skill

import (
	"github.com/spf13/cobra"

	"github.com/openhands/skillctl/internal/errors"
	"github.com/openhands/skillctl/internal/registry"
)

// Cmd is the root skill command.
var Cmd = &cobra.Command{
	Use:   "skill",
	Short: "Manage skills in the registry",
	Long: `Manage the skills/ half of the registry.

A skill is a directory under skills/ holding a SKILL.md document:
YAML frontmatter (name, description, optional triggers) followed by
Markdown instructions for the agent.`,
	Example: `  # List skills in the registry
  skillctl skill list

  # Scaffold a new skill
  skillctl skill init git-helper

  # Pull a skill out of a cached collection
  skillctl skill install community/code-review

  See Also:
    skillctl skill list     - List skills
    skillctl skill show     - Show one skill
    skillctl skill init     - Scaffold a new skill
    skillctl skill install  - Install from a source`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

// findLocal returns the named skill from the local registry, or
// registry.ErrEntryNotFound when the registry has no such skill.
func findLocal(root, name string) (*registry.Entry, error) {
	entries, err := registry.NewScanner().ScanRoot(root, "", "")
	if err != nil {
		return nil, errors.Wrapf(err, "scanning registry %s", root)
	}
	for i := range entries {
		if entries[i].Kind == registry.KindSkill && entries[i].Name == name {
			return &entries[i], nil
		}
	}
	return nil, errors.Wrapf(registry.ErrEntryNotFound, "skill %q", name)
}
