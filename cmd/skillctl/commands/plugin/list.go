package plugin

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/openhands/skillctl/cmd/skillctl/commands/flags"
	"github.com/openhands/skillctl/internal/errors"
	"github.com/openhands/skillctl/internal/registry"
)

var listJSON bool

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	Cmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List plugins in the registry",
	Long: `List every plugin in the local registry with its triggers and hooks.

Only the frontmatter header of each PLUGIN.md is read. Broken
documents are skipped with a warning, never a failure.`,
	Example: `  # List all plugins
  skillctl plugin list

  # Output as JSON
  skillctl plugin list --json

  See Also:
    skillctl plugin show  - Show plugin details
    skillctl validate     - Report broken documents`,
	Args: cobra.NoArgs,
	RunE: runList,
}

// infoJSON represents a plugin in JSON output format.
type infoJSON struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Triggers    []string `json:"triggers,omitempty"`
	Hooks       []string `json:"hooks,omitempty"`
	Path        string   `json:"path"`
}

func runList(_ *cobra.Command, _ []string) error {
	return runListWithWriter(os.Stdout, flags.RegistryRoot())
}

// runListWithWriter allows injecting a writer for testing.
func runListWithWriter(w io.Writer, root string) error {
	entries, err := registry.NewScanner().ScanRoot(root, "", "")
	if err != nil {
		return errors.Wrapf(err, "scanning registry %s", root)
	}

	plugins := entries[:0]
	for _, e := range entries {
		if e.Kind == registry.KindPlugin {
			plugins = append(plugins, e)
		}
	}
	sort.Slice(plugins, func(i, j int) bool { return plugins[i].Name < plugins[j].Name })

	if listJSON {
		return outputListJSON(w, plugins)
	}
	return outputListTabular(w, plugins)
}

// outputListJSON outputs plugins in JSON format.
func outputListJSON(w io.Writer, plugins []registry.Entry) error {
	output := make([]infoJSON, len(plugins))
	for i := range plugins {
		output[i] = infoJSON{
			Name:        plugins[i].Name,
			Description: plugins[i].Description,
			Triggers:    plugins[i].Triggers,
			Hooks:       listHooks(&plugins[i]),
			Path:        plugins[i].DocPath(),
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(output), "encoding output")
}

// ANSI color codes.
const (
	colorReset = "\033[0m"
	colorBold  = "\033[1m"
	colorGreen = "\033[32m"
	colorGray  = "\033[90m"
)

// outputListTabular outputs plugins in tabular format.
func outputListTabular(w io.Writer, plugins []registry.Entry) error {
	if len(plugins) == 0 {
		fmt.Fprintln(w, "No plugins in the registry.")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Scaffold one with:")
		fmt.Fprintln(w, "  skillctl plugin init <name>")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%sNAME%s\t%sTRIGGERS%s\t%sHOOKS%s\t%sDESCRIPTION%s\n",
		colorBold, colorReset,
		colorBold, colorReset,
		colorBold, colorReset,
		colorBold, colorReset)

	for i := range plugins {
		hooks := len(listHooks(&plugins[i]))
		fmt.Fprintf(tw, "%s%s%s\t%s\t%d\t%s%s%s\n",
			colorGreen, plugins[i].Name, colorReset,
			truncate(strings.Join(plugins[i].Triggers, ", "), 40),
			hooks,
			colorGray, truncate(plugins[i].Description, 50), colorReset)
	}

	return errors.Wrap(tw.Flush(), "flushing tabwriter")
}

// truncate shortens a string to maxLen characters, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
