package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/openhands/skillctl/cmd"
	"github.com/openhands/skillctl/cmd/skillctl/commands/flags"
	"github.com/openhands/skillctl/internal/config"
	"github.com/openhands/skillctl/internal/errors"
	"github.com/openhands/skillctl/internal/git"
	"github.com/openhands/skillctl/internal/paths"
	"github.com/openhands/skillctl/internal/registry"
)

// ANSI color codes
const (
	colorReset = "\033[0m"
	colorBold  = "\033[1m"
	colorCyan  = "\033[36m"
	colorGreen = "\033[32m"
	colorGray  = "\033[90m"
)

var (
	statusJSON    bool
	statusQuiet   bool
	statusVerbose bool
)

func init() {
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "output as JSON")
	statusCmd.Flags().BoolVar(&statusQuiet, "quiet", false, "summary counts only")
	statusCmd.Flags().BoolVar(&statusVerbose, "verbose", false, "list every entry with its description")
	rootCmd.AddCommand(statusCmd)
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show registry overview",
	Long: `Show an overview of the local registry and every registered source
collection.

Displays skill and plugin counts per tree, flagging plugins that carry
no hook scripts and sources whose cache has not been fetched yet.

Output modes (mutually exclusive):
  (default)   Sectioned view with counts per tree
  --quiet     One line per tree
  --verbose   List every entry with its description
  --json      Machine-readable JSON output`,
	Example: `  # Overview of the registry in the current directory
  skillctl status

  # One line per tree
  skillctl status --quiet

  # For scripting
  skillctl status --json | jq '.local.plugins.count'

  See Also: skillctl doctor, skillctl search`,
	PreRunE: validateStatusFlags,
	RunE:    runStatus,
}

// validateStatusFlags ensures output flags are mutually exclusive.
func validateStatusFlags(_ *cobra.Command, _ []string) error {
	count := 0
	if statusJSON {
		count++
	}
	if statusQuiet {
		count++
	}
	if statusVerbose {
		count++
	}

	if count > 1 {
		return errors.NewUsageError(
			errors.New("flags --json, --quiet, and --verbose are mutually exclusive"),
			"Pick one output mode")
	}

	return nil
}

func runStatus(_ *cobra.Command, _ []string) error {
	return runStatusWithWriter(os.Stdout)
}

// runStatusWithWriter allows injecting a writer for testing.
func runStatusWithWriter(w io.Writer) error {
	local, sources := collectStatus(flags.RegistryRoot(), flags.Config().Sources)

	if statusJSON {
		return outputStatusJSON(w, local, sources)
	}
	if statusQuiet {
		return outputStatusQuiet(w, local, sources)
	}
	return outputStatusSections(w, local, sources, statusVerbose)
}

// treeStatus holds the collected counts for one registry tree: the local
// registry or a single source collection.
type treeStatus struct {
	Name    string
	Root    string
	URL     string
	Commit  string // HEAD of the cached clone, empty for local trees
	Local   bool   // registered from a local directory
	Fetched bool
	Skills  []registry.Entry
	Plugins []registry.Entry
	NoHooks int // plugins without a single hook script
}

// collectStatus scans the local registry and every registered source,
// sources in name order.
func collectStatus(root string, sources map[string]config.SourceConfig) (treeStatus, []treeStatus) {
	scanner := registry.NewScanner()

	local := collectTreeStatus(scanner, treeStatus{Name: "local", Root: root, Fetched: true}, "", "")

	names := make([]string, 0, len(sources))
	for name := range sources {
		names = append(names, name)
	}
	sort.Strings(names)

	collections := make([]treeStatus, 0, len(names))
	for _, name := range names {
		sc := sources[name]
		status := treeStatus{Name: name, Root: sc.Path, URL: sc.URL, Local: sc.Local}
		if _, err := os.Stat(sc.Path); err == nil {
			status.Fetched = true
			if !sc.Local {
				if head, err := git.Head(sc.Path); err == nil {
					status.Commit = head
				}
			}
			status = collectTreeStatus(scanner, status, name, sc.URL)
		}
		collections = append(collections, status)
	}

	return local, collections
}

func collectTreeStatus(scanner *registry.Scanner, status treeStatus, sourceName, sourceURL string) treeStatus {
	entries, _ := scanner.ScanRoot(status.Root, sourceName, sourceURL)
	for _, e := range entries {
		switch e.Kind {
		case registry.KindPlugin:
			status.Plugins = append(status.Plugins, e)
			if !pluginHasHooks(e.Dir()) {
				status.NoHooks++
			}
		default:
			status.Skills = append(status.Skills, e)
		}
	}
	return status
}

// pluginHasHooks reports whether the plugin directory contains at least
// one hook script.
func pluginHasHooks(dir string) bool {
	dirEntries, err := os.ReadDir(filepath.Join(dir, paths.HooksDirName))
	if err != nil {
		return false
	}
	for _, de := range dirEntries {
		if !de.IsDir() && strings.HasSuffix(de.Name(), ".sh") {
			return true
		}
	}
	return false
}

// JSON output types.

type statusJSONOutput struct {
	Version      string                      `json:"version"`
	RegistryRoot string                      `json:"registry_root"`
	Local        statusTreeJSON              `json:"local"`
	Sources      map[string]statusSourceJSON `json:"sources,omitempty"`
}

type statusTreeJSON struct {
	Skills  statusItemsJSON   `json:"skills"`
	Plugins statusPluginsJSON `json:"plugins"`
}

type statusSourceJSON struct {
	URL     string             `json:"url,omitempty"`
	Commit  string             `json:"commit,omitempty"`
	Local   bool               `json:"local,omitempty"`
	Fetched bool               `json:"fetched"`
	Skills  *statusItemsJSON   `json:"skills,omitempty"`
	Plugins *statusPluginsJSON `json:"plugins,omitempty"`
}

type statusItemsJSON struct {
	Count int              `json:"count"`
	Items []statusItemJSON `json:"items,omitempty"`
}

type statusPluginsJSON struct {
	Count        int              `json:"count"`
	WithoutHooks int              `json:"without_hooks,omitempty"`
	Items        []statusItemJSON `json:"items,omitempty"`
}

type statusItemJSON struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

func statusItems(entries []registry.Entry) []statusItemJSON {
	items := make([]statusItemJSON, len(entries))
	for i, e := range entries {
		items[i] = statusItemJSON{Name: e.Name, Description: e.Description}
	}
	return items
}

func statusTree(status treeStatus) statusTreeJSON {
	return statusTreeJSON{
		Skills: statusItemsJSON{Count: len(status.Skills), Items: statusItems(status.Skills)},
		Plugins: statusPluginsJSON{
			Count:        len(status.Plugins),
			WithoutHooks: status.NoHooks,
			Items:        statusItems(status.Plugins),
		},
	}
}

func outputStatusJSON(w io.Writer, local treeStatus, sources []treeStatus) error {
	output := statusJSONOutput{
		Version:      cmd.Version,
		RegistryRoot: filepath.Clean(local.Root),
		Local:        statusTree(local),
	}

	if len(sources) > 0 {
		output.Sources = make(map[string]statusSourceJSON, len(sources))
		for _, src := range sources {
			entry := statusSourceJSON{URL: src.URL, Commit: src.Commit, Local: src.Local, Fetched: src.Fetched}
			if src.Fetched {
				tree := statusTree(src)
				entry.Skills = &tree.Skills
				entry.Plugins = &tree.Plugins
			}
			output.Sources[src.Name] = entry
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(output)
}

func outputStatusQuiet(w io.Writer, local treeStatus, sources []treeStatus) error {
	fmt.Fprintf(w, "local: %d skills, %d plugins\n", len(local.Skills), len(local.Plugins))
	for _, src := range sources {
		if !src.Fetched {
			fmt.Fprintf(w, "%s: %s\n", src.Name, unfetchedNote(src))
			continue
		}
		fmt.Fprintf(w, "%s: %d skills, %d plugins\n", src.Name, len(src.Skills), len(src.Plugins))
	}
	return nil
}

func outputStatusSections(w io.Writer, local treeStatus, sources []treeStatus, verbose bool) error {
	fmt.Fprintf(w, "skillctl version %s\n", cmd.Version)

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%sRegistry: %s%s\n", colorCyan+colorBold, filepath.Clean(local.Root), colorReset)
	writeTreeCounts(w, local, verbose)

	for _, src := range sources {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "%sSource: %s%s", colorCyan+colorBold, src.Name, colorReset)
		if src.URL != "" {
			fmt.Fprintf(w, " %s(%s)%s", colorGray, src.URL, colorReset)
		}
		if src.Commit != "" {
			fmt.Fprintf(w, " %s@ %s%s", colorGray, src.Commit, colorReset)
		}
		if !src.Fetched {
			fmt.Fprintf(w, " %s%s%s\n", colorGray, unfetchedNote(src), colorReset)
			continue
		}
		fmt.Fprintln(w)
		writeTreeCounts(w, src, verbose)
	}

	return nil
}

func writeTreeCounts(w io.Writer, status treeStatus, verbose bool) {
	fmt.Fprintf(w, "  Skills: %d\n", len(status.Skills))
	if verbose {
		writeEntryList(w, status.Skills)
	}

	if status.NoHooks > 0 {
		fmt.Fprintf(w, "  Plugins: %d (%d without hooks)\n", len(status.Plugins), status.NoHooks)
	} else {
		fmt.Fprintf(w, "  Plugins: %d\n", len(status.Plugins))
	}
	if verbose {
		writeEntryList(w, status.Plugins)
	}
}

func writeEntryList(w io.Writer, entries []registry.Entry) {
	for _, e := range entries {
		fmt.Fprintf(w, "    %s%s%s", colorGreen, e.Name, colorReset)
		if e.Description != "" {
			fmt.Fprintf(w, " - %s", truncate(e.Description, 60))
		}
		fmt.Fprintln(w)
	}
}

func unfetchedNote(src treeStatus) string {
	if src.Local {
		return "(missing)"
	}
	return "(not fetched)"
}

// truncate shortens a string to maxLen runes, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen < 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}
