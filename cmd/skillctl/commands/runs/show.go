package runs

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/openhands/skillctl/internal/errors"
	"github.com/openhands/skillctl/internal/runs"
)

var showJSON bool

func init() {
	showCmd.Flags().BoolVar(&showJSON, "json", false, "output as JSON")
	Cmd.AddCommand(showCmd)
}

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one run in full",
	Long: `Show one recorded run, including the message and pattern it used.

The id may be abbreviated to any unique prefix.`,
	Example: `  skillctl runs show 4fa2`,
	Args:    cobra.ExactArgs(1),
	RunE:    runShow,
}

func runShow(_ *cobra.Command, args []string) error {
	store, err := openLedger()
	if err != nil {
		return err
	}
	defer store.Close()
	return runShowWithStore(os.Stdout, store, args[0])
}

// runShowWithStore allows injecting a store and writer for testing.
func runShowWithStore(w io.Writer, store *runs.Store, idOrPrefix string) error {
	rec, err := store.Get(idOrPrefix)
	if err != nil {
		if errors.Is(err, runs.ErrRunNotFound) {
			return errors.NewUserError(
				errors.Newf("no run matches %q", idOrPrefix),
				"Run 'skillctl runs list' to see recorded runs")
		}
		return err
	}

	if showJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rec)
	}

	fmt.Fprintf(w, "Run: %s\n", rec.ID)
	fmt.Fprintf(w, "Plugin: %s\n", rec.Plugin)
	if rec.ConversationID != "" {
		fmt.Fprintf(w, "Conversation: %s\n", rec.ConversationID)
	}
	fmt.Fprintf(w, "Message: %s\n", rec.Message)
	pattern := rec.Pattern
	if rec.Regex {
		pattern += " (regex)"
	}
	fmt.Fprintf(w, "Pattern: %s\n", pattern)
	fmt.Fprintf(w, "Result: %s\n", resultWord(rec.Matched))
	if rec.Status != "" {
		fmt.Fprintf(w, "Status: %s\n", rec.Status)
	}
	if rec.Duration > 0 {
		fmt.Fprintf(w, "Duration: %s\n", rec.Duration)
	}
	if !rec.StartedAt.IsZero() {
		fmt.Fprintf(w, "Started: %s\n", rec.StartedAt.Format("2006-01-02 15:04:05 MST"))
	}
	return nil
}
