package commands

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/openhands/skillctl/internal/config"
	"github.com/openhands/skillctl/internal/errors"
	"github.com/openhands/skillctl/pkg/fileutil"
)

var (
	initYes   bool
	initForce bool
)

func init() {
	initCmd.Flags().BoolVarP(&initYes, "yes", "y", false, "Non-interactive mode, accept all defaults")
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Overwrite an existing configuration")
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Initialize a skill registry",
	Long: `Bootstrap a skill registry in the given directory (default: current
directory).

Creates the skills/ and plugins/ layout and a config.yaml that pins the
registry root, so skillctl commands run from inside the tree find it
without flags.`,
	Example: `  # Initialize the current directory
  skillctl init

  # Initialize a new directory non-interactively
  skillctl init ~/registry --yes

  # Recreate config.yaml in an existing registry
  skillctl init --force

  See Also: skillctl config, skillctl doctor`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

// registryConfig is the config.yaml written into a fresh registry.
type registryConfig struct {
	Version  int    `yaml:"version"`
	Registry string `yaml:"registry"`
}

func runInit(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}
	return runInitWithInput(cmd.OutOrStdout(), os.Stdin, dir)
}

// runInitWithInput allows injecting writer and reader for testing.
func runInitWithInput(w io.Writer, in io.Reader, dir string) error {
	configPath := filepath.Join(dir, "config.yaml")

	if _, err := os.Stat(configPath); err == nil && !initForce {
		fmt.Fprintf(w, "Registry already initialized at %s\n", configPath)
		fmt.Fprintln(w, "Use --force to overwrite")
		return nil
	}

	skillsDir := filepath.Join(dir, "skills")
	pluginsDir := filepath.Join(dir, "plugins")

	if !initYes {
		fmt.Fprintln(w, "This will create:")
		fmt.Fprintf(w, "  %s/\n", skillsDir)
		fmt.Fprintf(w, "  %s/\n", pluginsDir)
		fmt.Fprintf(w, "  %s\n", configPath)
		fmt.Fprintln(w)

		if !confirm(w, in, "Proceed?") {
			fmt.Fprintln(w, "Aborted")
			return nil
		}
	}

	for _, d := range []string{skillsDir, pluginsDir} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return errors.Wrapf(err, "creating %s", d)
		}
	}

	cfg := registryConfig{
		Version:  config.Default().Version,
		Registry: ".",
	}
	if err := fileutil.AtomicWriteYAML(configPath, &cfg); err != nil {
		return errors.Wrap(err, "writing config file")
	}

	fmt.Fprintf(w, "Created %s\n", configPath)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Next steps:")
	fmt.Fprintln(w, "  skillctl skill init <name>    scaffold your first skill")
	fmt.Fprintln(w, "  skillctl validate             check the registry")
	return nil
}

// confirm prompts the user for a yes/no confirmation.
// Returns true only if the user enters "y" or "yes" (case-insensitive).
func confirm(w io.Writer, in io.Reader, prompt string) bool {
	reader := bufio.NewReader(in)
	fmt.Fprintf(w, "%s [y/N] ", prompt)

	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}
