package plugin

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/openhands/skillctl/cmd/skillctl/commands/flags"
	cliprompt "github.com/openhands/skillctl/internal/cli/prompt"
	"github.com/openhands/skillctl/internal/errors"
	"github.com/openhands/skillctl/internal/registry"
)

var installForce bool

func init() {
	installCmd.Flags().BoolVar(&installForce, "force", false,
		"overwrite an existing plugin of the same name")
	Cmd.AddCommand(installCmd)
}

var installCmd = &cobra.Command{
	Use:   "install <[source/]name>",
	Short: "Install a plugin from a cached source",
	Long: `Copy a plugin out of a cached source collection into the local
registry, hooks and scripts included.

Give a bare name to search every configured source; when the name
exists in several collections you pick one. Prefix with "source/" to
install from a specific collection.`,
	Example: `  # Install, searching all sources
  skillctl plugin install deploy-guard

  # Install from a specific source
  skillctl plugin install community/deploy-guard

  See Also:
    skillctl source add   - Register a source
    skillctl plugin test  - Verify the installed plugin`,
	Args: cobra.ExactArgs(1),
	RunE: runInstall,
}

func runInstall(_ *cobra.Command, args []string) error {
	return runInstallWithWriter(os.Stdout, flags.RegistryRoot(), args[0])
}

// runInstallWithWriter allows injecting a writer for testing.
func runInstallWithWriter(w io.Writer, root, arg string) error {
	entry, err := resolveInstallable(arg)
	if err != nil {
		return err
	}

	dest, err := registry.Install(entry, root, installForce)
	if err != nil {
		if errors.Is(err, registry.ErrAlreadyInstalled) {
			return errors.NewUserError(err, "Use --force to overwrite")
		}
		return errors.Wrapf(err, "installing %s", entry.Name)
	}

	fmt.Fprintf(w, "Installed %s from %s\n", entry.Name, entry.Source)
	fmt.Fprintf(w, "  %s\n", dest)
	return nil
}

// resolveInstallable maps "name" or "source/name" to a source entry.
func resolveInstallable(arg string) (*registry.Entry, error) {
	if sourceName, name, ok := strings.Cut(arg, "/"); ok {
		entry, err := registry.FindInSource(name, registry.KindPlugin, sourceName)
		if err != nil {
			return nil, errors.Wrapf(err, "searching source %s", sourceName)
		}
		if entry == nil {
			return nil, errors.Newf("plugin %q not found in source %s", name, sourceName)
		}
		return entry, nil
	}

	matches, err := registry.FindByName(arg, registry.KindPlugin)
	if err != nil {
		if errors.Is(err, registry.ErrNoSourcesConfigured) {
			return nil, errors.NewUserError(err,
				"Register one with 'skillctl source add <git-url|path>'")
		}
		return nil, errors.Wrap(err, "searching sources")
	}
	if len(matches) == 0 {
		return nil, errors.Newf("plugin %q not found in any configured source", arg)
	}

	return cliprompt.SelectEntryDefault(arg, matches)
}
