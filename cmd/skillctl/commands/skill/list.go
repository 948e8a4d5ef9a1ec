package skill

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
	Short: "List skills in the registry",
	Long: `List every skill in the local registry.

Only the frontmatter header of each SKILL.md is read; bodies stay on
disk until shown. Broken documents are skipped with a warning, never
a failure.`,
	Example: `  # List all skills
  skillctl skill list

  # Output as JSON
  skillctl skill list --json

  See Also:
    skillctl skill show   - Show skill details
    skillctl validate     - Report broken documents`,
	Args: cobra.NoArgs,
	RunE: runList,
}

// infoJSON represents a skill in JSON output format.
type infoJSON struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Triggers    []string `json:"triggers,omitempty"`
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

	skills := entries[:0]
	for _, e := range entries {
		if e.Kind == registry.KindSkill {
			skills = append(skills, e)
		}
	}
	sort.Slice(skills, func(i, j int) bool { return skills[i].Name < skills[j].Name })

	if listJSON {
		return outputListJSON(w, skills)
	}
	return outputListTabular(w, skills)
}

// outputListJSON outputs skills in JSON format.
func outputListJSON(w io.Writer, skills []registry.Entry) error {
	output := make([]infoJSON, len(skills))
	for i, s := range skills {
		output[i] = infoJSON{
			Name:        s.Name,
			Description: s.Description,
			Triggers:    s.Triggers,
			Path:        s.DocPath(),
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

// outputListTabular outputs skills in tabular format.
func outputListTabular(w io.Writer, skills []registry.Entry) error {
	if len(skills) == 0 {
		fmt.Fprintln(w, "No skills in the registry.")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Scaffold one with:")
		fmt.Fprintln(w, "  skillctl skill init <name>")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%sNAME%s\t%sDESCRIPTION%s\t%sTRIGGERS%s\n",
		colorBold, colorReset,
		colorBold, colorReset,
		colorBold, colorReset)

	for _, s := range skills {
		fmt.Fprintf(tw, "%s%s%s\t%s\t%s%s%s\n",
			colorGreen, s.Name, colorReset,
			truncate(s.Description, 60),
			colorGray, truncate(strings.Join(s.Triggers, ", "), 40), colorReset)
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
