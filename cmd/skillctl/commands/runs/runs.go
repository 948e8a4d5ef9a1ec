// Package runs implements the runs command group: inspecting the local
// ledger of past plugin verification runs.
package runs

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/openhands/skillctl/internal/errors"
	"github.com/openhands/skillctl/internal/paths"
	"github.com/openhands/skillctl/internal/runs"
)

// Cmd is the root runs command.
var Cmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect past verification runs",
	Long: `Inspect the local ledger of plugin verification runs.

Every 'skillctl plugin test' invocation records its outcome here, so a
flaky plugin's history survives the terminal scrollback.`,
	Example: `  # Recent runs
  skillctl runs list

  # One run in full
  skillctl runs show 4fa2

  See Also:
    skillctl plugin test - Records a run on every invocation`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

// openLedger opens the run ledger at its usual location.
func openLedger() (*runs.Store, error) {
	store, err := runs.Open(paths.RunsDBPath())
	if err != nil {
		return nil, errors.Wrap(err, "opening run ledger")
	}
	return store, nil
}

// formatRelativeTime renders a timestamp as a human-friendly relative
// string.
func formatRelativeTime(t time.Time) string {
	if t.IsZero() {
		return "unknown"
	}

	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		mins := int(d.Minutes())
		if mins == 1 {
			return "1 minute ago"
		}
		return fmt.Sprintf("%d minutes ago", mins)
	case d < 24*time.Hour:
		hours := int(d.Hours())
		if hours == 1 {
			return "1 hour ago"
		}
		return fmt.Sprintf("%d hours ago", hours)
	case d < 7*24*time.Hour:
		days := int(d.Hours() / 24)
		if days == 1 {
			return "1 day ago"
		}
		return fmt.Sprintf("%d days ago", days)
	default:
		return t.Format("2006-01-02")
	}
}
