package convo

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func init() {
	Cmd.AddCommand(messageCmd)
}

var messageCmd = &cobra.Command{
	Use:   "message <id> <text>...",
	Short: "Send a message into a conversation",
	Long: `Send a user message into an existing conversation.

The agent picks the message up on its next turn; sending never blocks
on a response. Follow up with 'skillctl convo events' to see the
reaction.`,
	Example: `  skillctl convo message 1f2e3d4c "also update the README"`,
	Args:    cobra.MinimumNArgs(2),
	RunE:    runMessage,
}

func runMessage(cmd *cobra.Command, args []string) error {
	return runMessageWithWriter(cmd, os.Stdout, args[0], strings.Join(args[1:], " "))
}

// runMessageWithWriter allows injecting a writer for testing.
func runMessageWithWriter(cmd *cobra.Command, w io.Writer, id, text string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	if _, err := client.AddMessage(cmd.Context(), id, text); err != nil {
		return err
	}

	fmt.Fprintln(w, "Message sent.")
	return nil
}
