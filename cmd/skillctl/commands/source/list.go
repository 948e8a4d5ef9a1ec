package source

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/openhands/skillctl/internal/config"
	"github.com/openhands/skillctl/internal/errors"
	"github.com/openhands/skillctl/internal/source"
)

var listJSON bool

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	Cmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered collections",
	Long:  `List every collection registered as a source of skills and plugins.`,
	Example: `  # List all collections
  skillctl source list

  # Output as JSON
  skillctl source list --json

  See Also:
    skillctl source add    - Register a collection
    skillctl source remove - Remove a collection`,
	Args: cobra.NoArgs,
	RunE: runList,
}

// sourceJSON represents a collection in JSON output format.
type sourceJSON struct {
	Name    string    `json:"name"`
	URL     string    `json:"url,omitempty"`
	Path    string    `json:"path"`
	Local   bool      `json:"local,omitempty"`
	AddedAt time.Time `json:"added_at"`
}

func runList(_ *cobra.Command, _ []string) error {
	return runListWithWriter(os.Stdout, configPath())
}

// runListWithWriter allows injecting a writer for testing.
func runListWithWriter(w io.Writer, configPath string) error {
	mgr := source.NewManager(configPath)

	sources, err := mgr.List()
	if err != nil {
		return errors.Wrap(err, "listing collections")
	}

	if listJSON {
		return outputListJSON(w, sources)
	}
	return outputListTabular(w, sources)
}

// outputListJSON outputs collections in JSON format.
func outputListJSON(w io.Writer, sources []config.SourceConfig) error {
	output := make([]sourceJSON, len(sources))
	for i, s := range sources {
		output[i] = sourceJSON{
			Name:    s.Name,
			URL:     s.URL,
			Path:    s.Path,
			Local:   s.Local,
			AddedAt: s.AddedAt,
		}
	}

	// Sort by name for consistent output
	sort.Slice(output, func(i, j int) bool {
		return output[i].Name < output[j].Name
	})

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

// outputListTabular outputs collections in tabular format.
func outputListTabular(w io.Writer, sources []config.SourceConfig) error {
	if len(sources) == 0 {
		fmt.Fprintln(w, "No collections registered.")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Register one with:")
		fmt.Fprintln(w, "  skillctl source add <git-url|path>")
		return nil
	}

	// Sort by name for consistent output
	sort.Slice(sources, func(i, j int) bool {
		return sources[i].Name < sources[j].Name
	})

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%sNAME%s\t%sLOCATION%s\t%sADDED%s\n",
		colorBold, colorReset,
		colorBold, colorReset,
		colorBold, colorReset)

	for _, s := range sources {
		location := s.URL
		if s.Local {
			location = s.Path + " (local)"
		}
		fmt.Fprintf(tw, "%s%s%s\t%s\t%s%s%s\n",
			colorGreen, s.Name, colorReset,
			location,
			colorGray, formatRelativeTime(s.AddedAt), colorReset)
	}

	return errors.Wrap(tw.Flush(), "flushing tabwriter")
}

// relativeUnits maps a cutoff duration to the unit used below it.
var relativeUnits = []struct {
	cutoff time.Duration
	unit   time.Duration
	name   string
}{
	{time.Hour, time.Minute, "minute"},
	{24 * time.Hour, time.Hour, "hour"},
	{7 * 24 * time.Hour, 24 * time.Hour, "day"},
	{30 * 24 * time.Hour, 7 * 24 * time.Hour, "week"},
	{365 * 24 * time.Hour, 30 * 24 * time.Hour, "month"},
}

// formatRelativeTime renders t as "3 days ago" style text.
func formatRelativeTime(t time.Time) string {
	if t.IsZero() {
		return "unknown"
	}

	d := time.Since(t)
	if d < time.Minute {
		return "just now"
	}
	for _, u := range relativeUnits {
		if d < u.cutoff {
			n := int(d / u.unit)
			if n == 1 {
				return "1 " + u.name + " ago"
			}
			return fmt.Sprintf("%d %ss ago", n, u.name)
		}
	}
	if years := int(d / (365 * 24 * time.Hour)); years > 1 {
		return fmt.Sprintf("%d years ago", years)
	}
	return "1 year ago"
}
