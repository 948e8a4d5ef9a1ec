package runs

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/openhands/skillctl/internal/runs"
)

var (
	listLimit int
	listJSON  bool
)

func init() {
	listCmd.Flags().IntVar(&listLimit, "limit", runs.DefaultListLimit, "maximum runs to show")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "output as JSON")
	Cmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent runs",
	Long:  `List recorded verification runs, newest first.`,
	Example: `  skillctl runs list
  skillctl runs list --limit 50 --json`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func runList(_ *cobra.Command, _ []string) error {
	store, err := openLedger()
	if err != nil {
		return err
	}
	defer store.Close()
	return runListWithStore(os.Stdout, store)
}

// runListWithStore allows injecting a store and writer for testing.
func runListWithStore(w io.Writer, store *runs.Store) error {
	records, err := store.List(listLimit)
	if err != nil {
		return err
	}

	if listJSON {
		if records == nil {
			records = []*runs.Record{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}

	if len(records) == 0 {
		fmt.Fprintln(w, "No recorded runs.")
		fmt.Fprintln(w, "\nRun a plugin verification to record one:")
		fmt.Fprintln(w, "  skillctl plugin test --plugin <name> --message \"...\" --expect \"...\"")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tPLUGIN\tRESULT\tSTATUS\tWHEN")
	for _, rec := range records {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			shortID(rec.ID),
			rec.Plugin,
			resultWord(rec.Matched),
			rec.Status,
			formatRelativeTime(rec.StartedAt),
		)
	}
	return tw.Flush()
}

// shortID abbreviates a run id for the table; show resolves prefixes.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func resultWord(matched bool) string {
	if matched {
		return "pass"
	}
	return "fail"
}
