package convo

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"

	v0 "github.com/openhands/skillctl/pkg/openhands/v0"
)

var (
	eventsStart   int
	eventsEnd     int
	eventsReverse bool
	eventsLimit   int
	eventsJSON    bool
)

func init() {
	eventsCmd.Flags().IntVar(&eventsStart, "start", 0, "first event id to include")
	eventsCmd.Flags().IntVar(&eventsEnd, "end", -1, "last event id to include (-1 for no bound)")
	eventsCmd.Flags().BoolVar(&eventsReverse, "reverse", false, "newest first")
	eventsCmd.Flags().IntVar(&eventsLimit, "limit", v0.DefaultEventsLimit,
		fmt.Sprintf("window size (server cap %d)", v0.MaxEventsLimit))
	eventsCmd.Flags().BoolVar(&eventsJSON, "json", false, "print the raw API response")
	Cmd.AddCommand(eventsCmd)
}

var eventsCmd = &cobra.Command{
	Use:   "events <id>",
	Short: "Read the event stream",
	Long: `Read a window of a conversation's event stream.

Events are the incremental view of a run: each agent action and each
observation is one event with a monotonically increasing id. Use
--start with the last id you saw to tail a running conversation.`,
	Example: `  # First events
  skillctl convo events 1f2e3d4c

  # The most recent events
  skillctl convo events 1f2e3d4c --reverse --limit 10

  # Continue from event 42
  skillctl convo events 1f2e3d4c --start 42`,
	Args: cobra.ExactArgs(1),
	RunE: runEvents,
}

func runEvents(cmd *cobra.Command, args []string) error {
	return runEventsWithWriter(cmd, os.Stdout, args[0])
}

// runEventsWithWriter allows injecting a writer for testing.
func runEventsWithWriter(cmd *cobra.Command, w io.Writer, id string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	opts := v0.GetEventsOptions{
		StartID: eventsStart,
		Reverse: eventsReverse,
		Limit:   eventsLimit,
	}
	if eventsEnd >= 0 {
		end := eventsEnd
		opts.EndID = &end
	}

	raw, err := client.GetEvents(cmd.Context(), id, opts)
	if err != nil {
		return err
	}

	if eventsJSON {
		return printRaw(w, raw)
	}

	events := gjson.GetBytes(raw, "events").Array()
	if len(events) == 0 && gjson.ParseBytes(raw).IsArray() {
		// Some deployments return a bare array
		events = gjson.ParseBytes(raw).Array()
	}
	if len(events) == 0 {
		fmt.Fprintln(w, "No events.")
		return nil
	}

	for _, evt := range events {
		fmt.Fprintf(w, "%4d  %-12s %-20s %s\n",
			evt.Get("id").Int(),
			evt.Get("source").String(),
			eventKind(evt),
			truncate(oneLine(evt.Get("message").String()), 80))
	}
	return nil
}

// eventKind names an event by its action or observation field.
func eventKind(evt gjson.Result) string {
	if action := evt.Get("action").String(); action != "" {
		return action
	}
	if obs := evt.Get("observation").String(); obs != "" {
		return obs
	}
	return "event"
}

// oneLine collapses newlines so an event renders as a single row.
func oneLine(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r == '\n' || r == '\r' || r == '\t' {
			r = ' '
		}
		out = append(out, r)
	}
	return string(out)
}
