package cloud

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"

	v1 "github.com/openhands/skillctl/pkg/openhands/v1"
)

var (
	eventsLimit int
	eventsCount bool
	eventsJSON  bool
)

func init() {
	eventsCmd.Flags().IntVar(&eventsLimit, "limit", v1.DefaultEventsLimit, "maximum events to fetch")
	eventsCmd.Flags().BoolVar(&eventsCount, "count", false, "print only the event count")
	eventsCmd.Flags().BoolVar(&eventsJSON, "json", false, "print the raw API response")
	Cmd.AddCommand(eventsCmd)
}

var eventsCmd = &cobra.Command{
	Use:   "events <conversation-id>",
	Short: "List events for a conversation",
	Long: `List events recorded by the app server for a conversation.

This reads the server-side event store. For richer filtering against a
running sandbox, use 'skillctl cloud agent events' instead.`,
	Example: `  # Recent events
  skillctl cloud events 9a8b7c6d

  # Just how many there are
  skillctl cloud events 9a8b7c6d --count`,
	Args: cobra.ExactArgs(1),
	RunE: runEvents,
}

func runEvents(cmd *cobra.Command, args []string) error {
	return runEventsWithWriter(cmd, os.Stdout, args[0])
}

// runEventsWithWriter allows injecting a writer for testing.
func runEventsWithWriter(cmd *cobra.Command, w io.Writer, conversationID string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	if eventsCount {
		raw, err := client.CountEvents(cmd.Context(), conversationID)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, gjson.ParseBytes(raw).String())
		return nil
	}

	raw, err := client.SearchEvents(cmd.Context(), conversationID, eventsLimit)
	if err != nil {
		return err
	}

	if eventsJSON {
		return printRaw(w, raw)
	}

	items := gjson.GetBytes(raw, "items").Array()
	if len(items) == 0 && gjson.ParseBytes(raw).IsArray() {
		items = gjson.ParseBytes(raw).Array()
	}
	if len(items) == 0 {
		fmt.Fprintln(w, "No events.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tKIND\tSOURCE\tTIMESTAMP")
	for _, item := range items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			truncate(item.Get("id").String(), 12),
			item.Get("kind").String(),
			item.Get("source").String(),
			item.Get("timestamp").String(),
		)
	}
	return tw.Flush()
}
