package skill

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/openhands/skillctl/cmd/skillctl/commands/flags"
	"github.com/openhands/skillctl/internal/errors"
)

var removeForce bool

func init() {
	removeCmd.Flags().BoolVarP(&removeForce, "force", "f", false,
		"remove without confirmation")
	Cmd.AddCommand(removeCmd)
}

var removeCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove a skill from the registry",
	Long: `Delete a skill's directory from the local registry.

Source collections are never touched; a removed skill can be
reinstalled from its source at any time.`,
	Example: `  # Remove with confirmation
  skillctl skill remove git-helper

  # Remove without prompting
  skillctl skill remove git-helper --force

  See Also:
    skillctl skill list    - List skills
    skillctl skill install - Reinstall from a source`,
	Args: cobra.ExactArgs(1),
	RunE: runRemove,
}

func runRemove(_ *cobra.Command, args []string) error {
	return runRemoveWithInput(os.Stdout, os.Stdin, flags.RegistryRoot(), args[0])
}

// runRemoveWithInput allows injecting writer and reader for testing.
func runRemoveWithInput(w io.Writer, in io.Reader, root, name string) error {
	entry, err := findLocal(root, name)
	if err != nil {
		return err
	}

	if !removeForce {
		fmt.Fprintf(w, "Remove skill %q (%s)? [y/N] ", name, entry.Dir())
		reader := bufio.NewReader(in)
		response, readErr := reader.ReadString('\n')
		if readErr != nil {
			fmt.Fprintln(w, "\nAborted")
			return nil
		}
		response = strings.TrimSpace(strings.ToLower(response))
		if response != "y" && response != "yes" {
			fmt.Fprintln(w, "Aborted")
			return nil
		}
	}

	if err := os.RemoveAll(entry.Dir()); err != nil {
		return errors.Wrapf(err, "removing %s", entry.Dir())
	}

	fmt.Fprintf(w, "Removed %s\n", name)
	return nil
}
