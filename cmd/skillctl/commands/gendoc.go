package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"

	"github.com/openhands/skillctl/internal/errors"
)

var genDocDir string

var genDocCmd = &cobra.Command{
	Use:    "gen-doc",
	Short:  "Generate Markdown documentation for the CLI",
	Hidden: true,
	RunE: func(_ *cobra.Command, _ []string) error {
		if genDocDir == "" {
			return errors.New("output directory is required")
		}
		if err := os.MkdirAll(genDocDir, 0o755); err != nil {
			return errors.Wrap(err, "creating output directory")
		}

		// Frontmatter on every page so static site generators can index them
		if err := doc.GenMarkdownTreeCustom(rootCmd, genDocDir, docFrontmatter, docLink); err != nil {
			return errors.Wrap(err, "generating markdown")
		}

		fmt.Printf("Documentation generated in %s\n", genDocDir)
		return nil
	},
}

func init() {
	genDocCmd.Flags().StringVarP(&genDocDir, "dir", "d", "", "Output directory for documentation")
	rootCmd.AddCommand(genDocCmd)
}

// docFrontmatter titles a page after its command path, so
// skillctl_plugin_test.md becomes "skillctl plugin test".
func docFrontmatter(filename string) string {
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	title := strings.ReplaceAll(base, "_", " ")
	return fmt.Sprintf("---\ntitle: %q\ndescription: \"Reference for %s command\"\ndraft: false\ntoc: true\n---\n", title, title)
}

func docLink(name string) string {
	return "/docs/reference/" + strings.ToLower(strings.TrimSuffix(name, filepath.Ext(name))) + "/"
}
