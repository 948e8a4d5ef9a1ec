package convo

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/openhands/skillctl/pkg/openhands"
)

var showJSON bool

func init() {
	showCmd.Flags().BoolVar(&showJSON, "json", false, "print the raw API response")
	Cmd.AddCommand(showCmd)
}

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one conversation",
	Long:  `Show a conversation's current status and metadata.`,
	Example: `  skillctl convo show 1f2e3d4c

  # Everything the API returns
  skillctl convo show 1f2e3d4c --json`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func runShow(cmd *cobra.Command, args []string) error {
	return runShowWithWriter(cmd, os.Stdout, args[0])
}

// runShowWithWriter allows injecting a writer for testing.
func runShowWithWriter(cmd *cobra.Command, w io.Writer, id string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	raw, err := client.GetConversation(cmd.Context(), id)
	if err != nil {
		return err
	}

	if showJSON {
		return printRaw(w, raw)
	}

	fmt.Fprintf(w, "Conversation: %s\n", openhands.ConversationID(raw))
	if title := openhands.Title(raw); title != "" {
		fmt.Fprintf(w, "Title: %s\n", title)
	}
	fmt.Fprintf(w, "Status: %s\n", openhands.Status(raw))
	if rs := openhands.RuntimeStatus(raw); rs != "" {
		fmt.Fprintf(w, "Runtime: %s\n", rs)
	}
	if repo := openhands.StringField(raw, "selected_repository"); repo != "" {
		fmt.Fprintf(w, "Repository: %s\n", repo)
	}
	if url := openhands.ConversationURL(raw); url != "" {
		fmt.Fprintf(w, "URL: %s\n", url)
	}
	return nil
}
