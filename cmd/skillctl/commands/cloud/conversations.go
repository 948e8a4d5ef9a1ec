package cloud

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"

	"github.com/openhands/skillctl/internal/errors"
	"github.com/openhands/skillctl/pkg/openhands"
	v1 "github.com/openhands/skillctl/pkg/openhands/v1"
)

var (
	conversationsLimit int
	conversationsCount bool
	conversationsJSON  bool
	conversationJSON   bool
)

func init() {
	conversationsCmd.Flags().IntVar(&conversationsLimit, "limit", v1.DefaultSearchLimit, "page size")
	conversationsCmd.Flags().BoolVar(&conversationsCount, "count", false, "print only the total count")
	conversationsCmd.Flags().BoolVar(&conversationsJSON, "json", false, "print the raw API response")
	Cmd.AddCommand(conversationsCmd)

	conversationCmd.Flags().BoolVar(&conversationJSON, "json", false, "print the raw API response")
	Cmd.AddCommand(conversationCmd)
}

var conversationsCmd = &cobra.Command{
	Use:   "conversations",
	Short: "List app conversations",
	Long:  `List the account's app conversations, newest first.`,
	Example: `  # Recent conversations
  skillctl cloud conversations

  # Just the total
  skillctl cloud conversations --count`,
	Args: cobra.NoArgs,
	RunE: runConversations,
}

func runConversations(cmd *cobra.Command, _ []string) error {
	return runConversationsWithWriter(cmd, os.Stdout)
}

// runConversationsWithWriter allows injecting a writer for testing.
func runConversationsWithWriter(cmd *cobra.Command, w io.Writer) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	if conversationsCount {
		raw, err := client.CountConversations(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintln(w, gjson.ParseBytes(raw).String())
		return nil
	}

	raw, err := client.SearchConversations(cmd.Context(), conversationsLimit)
	if err != nil {
		return err
	}

	if conversationsJSON {
		return printRaw(w, raw)
	}

	items := gjson.GetBytes(raw, "items").Array()
	if len(items) == 0 && gjson.ParseBytes(raw).IsArray() {
		items = gjson.ParseBytes(raw).Array()
	}
	if len(items) == 0 {
		fmt.Fprintln(w, "No conversations.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "ID\tTITLE\tSTATUS\n")
	for _, item := range items {
		fmt.Fprintf(tw, "%s\t%s\t%s\n",
			item.Get("id").String(),
			truncate(item.Get("title").String(), 40),
			item.Get("status").String())
	}
	return errors.Wrap(tw.Flush(), "flushing tabwriter")
}

var conversationCmd = &cobra.Command{
	Use:     "conversation <id>",
	Short:   "Show one app conversation",
	Long:    `Show one app conversation by ID.`,
	Example: `  skillctl cloud conversation 1f2e3d4c`,
	Args:    cobra.ExactArgs(1),
	RunE:    runConversation,
}

func runConversation(cmd *cobra.Command, args []string) error {
	return runConversationWithWriter(cmd, os.Stdout, args[0])
}

// runConversationWithWriter allows injecting a writer for testing.
func runConversationWithWriter(cmd *cobra.Command, w io.Writer, id string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	raw, err := client.GetConversation(cmd.Context(), id)
	if err != nil {
		return err
	}
	if raw == nil {
		return errors.NewUserError(
			errors.Newf("conversation %q not found", id),
			"Run 'skillctl cloud conversations' to see recent conversations")
	}

	if conversationJSON {
		return printRaw(w, raw)
	}

	fmt.Fprintf(w, "Conversation: %s\n", openhands.StringField(raw, "id"))
	if title := openhands.Title(raw); title != "" {
		fmt.Fprintf(w, "Title: %s\n", title)
	}
	fmt.Fprintf(w, "Status: %s\n", openhands.Status(raw))
	if sandbox := openhands.StringField(raw, "sandbox_id"); sandbox != "" {
		fmt.Fprintf(w, "Sandbox: %s\n", sandbox)
	}
	return nil
}
