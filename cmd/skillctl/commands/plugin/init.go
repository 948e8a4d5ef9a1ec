package plugin

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
		"when the assistant should use this plugin")
	initCmd.Flags().StringSliceVar(&initTriggers, "trigger", nil,
		"trigger phrase (repeatable)")
	initCmd.Flags().StringVar(&initLicense, "license", "", "license (e.g. MIT)")
	Cmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init <name>",
	Short: "Scaffold a new plugin",
	Long: `Create plugins/<name>/PLUGIN.md with valid frontmatter, a body
template, and an empty hooks/ directory.

Plugins without triggers never fire, so a trigger is seeded from the
name when none is given. Existing documents are never overwritten.`,
	Example: `  # Scaffold with a trigger derived from the name
  skillctl plugin init deploy-guard

  # Scaffold fully specified
  skillctl plugin init deploy-guard \
    --description "Runs pre-deploy checks before any deployment" \
    --trigger "deploy" --trigger "release"

  See Also:
    skillctl plugin validate - Validate a plugin
    skillctl plugin test     - Verify a plugin end to end`,
	Args: cobra.ExactArgs(1),
	RunE: runInit,
}

func runInit(_ *cobra.Command, args []string) error {
	return runInitWithWriter(os.Stdout, flags.RegistryRoot(), args[0])
}

// runInitWithWriter allows injecting a writer for testing.
func runInitWithWriter(w io.Writer, root, name string) error {
	path, err := registry.Scaffold(root, registry.KindPlugin, name, registry.ScaffoldOptions{
		Description: initDescription,
		Triggers:    initTriggers,
		License:     initLicense,
	})
	if err != nil {
		if errors.Is(err, registry.ErrExists) {
			return errors.NewUserError(err,
				"Edit the existing document with 'skillctl plugin edit "+name+"'")
		}
		return err
	}

	fmt.Fprintf(w, "Created %s\n", path)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Next steps:")
	fmt.Fprintf(w, "  1. Drop executable hook scripts into plugins/%s/hooks/\n", name)
	fmt.Fprintf(w, "  2. Check it: skillctl plugin validate %s\n", name)
	fmt.Fprintf(w, "  3. Verify against the cloud: skillctl plugin test --plugin %s ...\n", name)
	return nil
}
