package skill

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/openhands/skillctl/cmd/skillctl/commands/flags"
	"github.com/openhands/skillctl/internal/errors"
	"github.com/openhands/skillctl/internal/registry"
)

var (
	initDescription string
	initTriggers    []string
	initLicense     string
)

func init() {
	initCmd.Flags().StringVarP(&initDescription, "description", "d", "",
		"when the assistant should use this skill")
	initCmd.Flags().StringSliceVar(&initTriggers, "trigger", nil,
		"trigger phrase (repeatable)")
	initCmd.Flags().StringVar(&initLicense, "license", "", "license (e.g. MIT)")
	Cmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init <name>",
	Short: "Scaffold a new skill",
	Long: `Create skills/<name>/SKILL.md with valid frontmatter and a body
template.

The name must be lowercase alphanumeric with single hyphens between
segments. Existing documents are never overwritten.`,
	Example: `  # Scaffold with a placeholder description
  skillctl skill init git-helper

  # Scaffold fully specified
  skillctl skill init git-helper \
    --description "Use when the user asks for git workflow help" \
    --trigger "git" --trigger "commit" --license MIT

  See Also:
    skillctl skill validate - Validate a skill
    skillctl skill edit     - Edit a skill`,
	Args: cobra.ExactArgs(1),
	RunE: runInit,
}

func runInit(_ *cobra.Command, args []string) error {
	return runInitWithWriter(os.Stdout, flags.RegistryRoot(), args[0])
}

// runInitWithWriter allows injecting a writer for testing.
func runInitWithWriter(w io.Writer, root, name string) error {
	path, err := registry.Scaffold(root, registry.KindSkill, name, registry.ScaffoldOptions{
		Description: initDescription,
		Triggers:    initTriggers,
		License:     initLicense,
	})
	if err != nil {
		if errors.Is(err, registry.ErrExists) {
			return errors.NewUserError(err,
				"Edit the existing document with 'skillctl skill edit "+name+"'")
		}
		return err
	}

	fmt.Fprintf(w, "Created %s\n", path)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Next steps:")
	fmt.Fprintf(w, "  1. Describe when to use the skill: skillctl skill edit %s\n", name)
	fmt.Fprintf(w, "  2. Check it: skillctl skill validate %s\n", name)
	return nil
}
