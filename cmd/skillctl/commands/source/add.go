package source

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/openhands/skillctl/internal/errors"
	"github.com/openhands/skillctl/internal/source"
)

var nameFlag string

func init() {
	addCmd.Flags().StringVar(&nameFlag, "name", "", "custom name for the collection")
	Cmd.AddCommand(addCmd)
}

var addCmd = &cobra.Command{
	Use:   "add <url|path>",
	Short: "Register a collection",
	Long: `Register a git repository or a local directory as a collection.

Git URLs are shallow cloned to the local cache. Local directories are
registered in place without copying. The collection name is derived
from the URL or directory name unless overridden with --name.`,
	Example: `  # Register from GitHub
  skillctl source add https://github.com/example/community-skills.git

  # Register with a custom name
  skillctl source add https://github.com/example/skills.git --name community

  # Register a private collection (SSH)
  skillctl source add git@github.com:org/private-skills.git

  # Register a local directory
  skillctl source add ~/work/team-skills`,
	Args: cobra.ExactArgs(1),
	RunE: runAdd,
}

func runAdd(_ *cobra.Command, args []string) error {
	return runAddWithWriter(os.Stdout, args[0])
}

// runAddWithWriter allows injecting a writer for testing.
func runAddWithWriter(w io.Writer, url string) error {
	manager := source.NewManager(configPath())

	var opts []source.Option
	if nameFlag != "" {
		opts = append(opts, source.WithName(nameFlag))
	}

	src, err := manager.Add(url, opts...)
	if err != nil {
		return handleAddError(url, err)
	}

	fmt.Fprintf(w, "✓ Collection %q registered from %s\n", src.Name, url)
	if src.Local {
		fmt.Fprintf(w, "  Local directory: %s\n", src.Path)
	} else {
		fmt.Fprintf(w, "  Cached at: %s\n", src.Path)
	}

	printValidationWarnings(w, source.ValidateContent(src.Path))

	return nil
}

// handleAddError maps manager failures to actionable messages.
func handleAddError(url string, err error) error {
	switch {
	case errors.Is(err, source.ErrInvalidURL):
		return errors.NewUserError(
			errors.Newf("%q is not a valid git URL or directory", url),
			"Use an https://, git@, or ssh:// URL, or point at an existing directory")
	case errors.Is(err, source.ErrNameCollision):
		return errors.NewUserError(err,
			"Pick another name with --name, or remove the existing collection first")
	case errors.Is(err, source.ErrInvalidName):
		return errors.NewUserError(err,
			"Names are lowercase alphanumeric with hyphens, starting with a letter")
	default:
		return err
	}
}
