package cloud

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"

	"github.com/openhands/skillctl/internal/errors"
	v1 "github.com/openhands/skillctl/pkg/openhands/v1"
)

var (
	agentServer     string
	agentSessionKey string

	agentEventsLimit int
	agentEventsKind  string
	agentEventsSrc   string
	agentEventsBody  string
	agentEventsDesc  bool
	agentEventsSince string
	agentEventsUntil string
	agentEventsCount bool
	agentEventsJSON  bool
)

func init() {
	agentCmd.PersistentFlags().StringVar(&agentServer, "server", "", "agent server URL (or OPENHANDS_AGENT_SERVER)")
	agentCmd.PersistentFlags().StringVar(&agentSessionKey, "session-key", "", "sandbox session key (or OPENHANDS_SESSION_API_KEY)")

	agentEventsCmd.Flags().IntVar(&agentEventsLimit, "limit", v1.DefaultEventsLimit, "maximum events to fetch")
	agentEventsCmd.Flags().StringVar(&agentEventsKind, "kind", "", "only events of this kind")
	agentEventsCmd.Flags().StringVar(&agentEventsSrc, "source", "", "only events from this source")
	agentEventsCmd.Flags().StringVar(&agentEventsBody, "body", "", "only events whose body contains this text")
	agentEventsCmd.Flags().BoolVar(&agentEventsDesc, "desc", false, "newest first")
	agentEventsCmd.Flags().StringVar(&agentEventsSince, "since", "", "only events at or after this RFC3339 time")
	agentEventsCmd.Flags().StringVar(&agentEventsUntil, "until", "", "only events before this RFC3339 time")
	agentEventsCmd.Flags().BoolVar(&agentEventsCount, "count", false, "print only the matching event count")
	agentEventsCmd.Flags().BoolVar(&agentEventsJSON, "json", false, "print the raw API response")

	agentCmd.AddCommand(agentEventsCmd)
	Cmd.AddCommand(agentCmd)
}

var agentCmd = &cobra.Command{
	Use:   "agent",
	Short: "Talk to a sandbox agent server",
	Long: `Talk to the agent server running inside a sandbox.

Unlike the other cloud commands, these hit the sandbox directly: every
sandbox publishes its own server URL and session key, both shown by
'skillctl cloud sandbox list --json'. Pass them with --server and
--session-key or via OPENHANDS_AGENT_SERVER and
OPENHANDS_SESSION_API_KEY.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var agentEventsCmd = &cobra.Command{
	Use:   "events <conversation-id>",
	Short: "Search the live event stream",
	Example: `  # Agent actions mentioning a file
  skillctl cloud agent events 9a8b7c6d --source agent --body main.go

  # How many events since this morning
  skillctl cloud agent events 9a8b7c6d --count --since 2026-08-25T00:00:00Z`,
	Args: cobra.ExactArgs(1),
	RunE: runAgentEvents,
}

// newAgentClient builds the sandbox client from flags or the environment.
func newAgentClient() (*v1.AgentClient, error) {
	server := agentServer
	if server == "" {
		server = os.Getenv("OPENHANDS_AGENT_SERVER")
	}
	key := agentSessionKey
	if key == "" {
		key = os.Getenv("OPENHANDS_SESSION_API_KEY")
	}
	if server == "" {
		return nil, errors.NewUsageError(
			errors.New("no agent server URL"),
			"Pass --server or set OPENHANDS_AGENT_SERVER; 'skillctl cloud sandbox list --json' shows it")
	}
	if key == "" {
		return nil, errors.NewUsageError(
			errors.New("no session key"),
			"Pass --session-key or set OPENHANDS_SESSION_API_KEY")
	}
	return v1.NewAgentClient(server, key)
}

// agentEventFilter translates the events flags, rejecting bad timestamps
// before any request goes out.
func agentEventFilter() (v1.EventFilter, error) {
	filter := v1.EventFilter{
		Kind:   agentEventsKind,
		Source: agentEventsSrc,
		Body:   agentEventsBody,
	}
	if agentEventsDesc {
		filter.SortOrder = v1.SortTimestampDesc
	}
	if agentEventsSince != "" {
		t, err := time.Parse(time.RFC3339, agentEventsSince)
		if err != nil {
			return filter, errors.NewUsageError(
				errors.Wrapf(err, "invalid --since value %q", agentEventsSince),
				"Use RFC3339, e.g. 2026-08-25T09:00:00Z")
		}
		filter.TimestampGTE = t
	}
	if agentEventsUntil != "" {
		t, err := time.Parse(time.RFC3339, agentEventsUntil)
		if err != nil {
			return filter, errors.NewUsageError(
				errors.Wrapf(err, "invalid --until value %q", agentEventsUntil),
				"Use RFC3339, e.g. 2026-08-25T17:00:00Z")
		}
		filter.TimestampLT = t
	}
	return filter, nil
}

func runAgentEvents(cmd *cobra.Command, args []string) error {
	return runAgentEventsWithWriter(cmd, os.Stdout, args[0])
}

// runAgentEventsWithWriter allows injecting a writer for testing.
func runAgentEventsWithWriter(cmd *cobra.Command, w io.Writer, conversationID string) error {
	filter, err := agentEventFilter()
	if err != nil {
		return err
	}
	client, err := newAgentClient()
	if err != nil {
		return err
	}

	if agentEventsCount {
		n, err := client.CountEvents(cmd.Context(), conversationID, filter)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, n)
		return nil
	}

	raw, err := client.SearchEvents(cmd.Context(), conversationID, agentEventsLimit, filter)
	if err != nil {
		return err
	}

	if agentEventsJSON {
		return printRaw(w, raw)
	}

	items := gjson.GetBytes(raw, "items").Array()
	if len(items) == 0 && gjson.ParseBytes(raw).IsArray() {
		items = gjson.ParseBytes(raw).Array()
	}
	if len(items) == 0 {
		fmt.Fprintln(w, "No events match.")
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
