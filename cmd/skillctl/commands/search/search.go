// Package search implements the search command: finding skills and
// plugins across the local registry and cached source collections.
package search

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/openhands/skillctl/cmd/skillctl/commands/flags"
	"github.com/openhands/skillctl/internal/config"
	"github.com/openhands/skillctl/internal/errors"
	"github.com/openhands/skillctl/internal/registry"
)

// ANSI color codes for terminal output.
const (
	colorReset = "\033[0m"
	colorBold  = "\033[1m"
	colorGreen = "\033[32m"
	colorGray  = "\033[90m"
)

var (
	kindFilter   string
	sourceFilter string
	jsonOutput   bool
	interactive  bool
)

func init() {
	Cmd.Flags().StringVar(&kindFilter, "kind", "", "filter by entry kind (skill or plugin)")
	Cmd.Flags().StringVar(&sourceFilter, "source", "", "filter by source collection name")
	Cmd.Flags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	Cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "pick a result with a fuzzy finder")
}

// Cmd is the search command.
var Cmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search skills and plugins",
	Long: `Search for skills and plugins across the local registry and every
cached source collection.

Matching is case-insensitive against names, triggers, and descriptions.
Results are sorted by match quality: exact name matches first, then
name prefixes, then name substrings, then trigger matches, then
description-only matches.

Without a query, all entries are listed (subject to filters).`,
	Example: `  # Anything about git
  skillctl search git

  # Plugins only
  skillctl search --kind plugin

  # One collection
  skillctl search --source team-skills deploy

  # Pick interactively
  skillctl search -i`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSearch,
}

func runSearch(_ *cobra.Command, args []string) error {
	return runSearchWithWriter(os.Stdout, args)
}

// runSearchWithWriter allows injecting a writer for testing.
func runSearchWithWriter(w io.Writer, args []string) error {
	var query string
	if len(args) > 0 {
		query = args[0]
	}

	opts, err := searchOptions()
	if err != nil {
		return err
	}

	entries, err := collectEntries()
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(w, "The registry is empty.")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Create a skill or add a collection:")
		fmt.Fprintln(w, "  skillctl skill init <name>")
		fmt.Fprintln(w, "  skillctl source add <git-url|path>")
		return nil
	}

	results := registry.Search(entries, query, opts)

	if interactive {
		return runInteractiveSearch(w, results)
	}
	if jsonOutput {
		return outputJSON(w, results)
	}
	return outputTabular(w, results)
}

// searchOptions validates the filter flags.
func searchOptions() (registry.SearchOptions, error) {
	switch kindFilter {
	case "", string(registry.KindSkill), string(registry.KindPlugin):
	default:
		return registry.SearchOptions{}, errors.NewUsageError(
			errors.Newf("invalid kind %q", kindFilter),
			"Use --kind skill or --kind plugin")
	}
	return registry.SearchOptions{
		Kind:   registry.Kind(kindFilter),
		Source: sourceFilter,
	}, nil
}

// collectEntries scans the local registry and every registered source.
func collectEntries() ([]registry.Entry, error) {
	scanner := registry.NewScanner()

	entries, err := scanner.ScanRoot(flags.RegistryRoot(), "", "")
	if err != nil {
		return nil, errors.Wrap(err, "scanning registry")
	}

	sources := flags.Config().Sources
	if len(sources) > 0 {
		configs := make([]config.SourceConfig, 0, len(sources))
		for _, sc := range sources {
			configs = append(configs, sc)
		}
		sourceEntries, err := scanner.ScanSources(configs)
		if err != nil {
			return nil, errors.Wrap(err, "scanning source collections")
		}
		entries = append(entries, sourceEntries...)
	}

	return entries, nil
}

// outputJSON outputs entries in JSON format.
func outputJSON(w io.Writer, entries []registry.Entry) error {
	if entries == nil {
		entries = []registry.Entry{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(entries)
}

// outputTabular outputs entries in a human-readable table format.
func outputTabular(w io.Writer, entries []registry.Entry) error {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No matches.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%sKIND%s\t%sSOURCE%s\t%sNAME%s\t%sDESCRIPTION%s\n",
		colorBold, colorReset,
		colorBold, colorReset,
		colorBold, colorReset,
		colorBold, colorReset)

	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s%s%s\t%s%s%s\n",
			e.Kind,
			sourceLabel(e),
			colorGreen, e.Name, colorReset,
			colorGray, truncate(e.Description, 50), colorReset)
	}

	return tw.Flush()
}

func sourceLabel(e registry.Entry) string {
	if e.IsLocal() {
		return "local"
	}
	return e.Source
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
