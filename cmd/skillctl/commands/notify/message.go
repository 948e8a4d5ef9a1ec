package notify

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"

	"github.com/openhands/skillctl/internal/errors"
)

var (
	messageToken         string
	messageAllowMentions bool
	messageJSON          bool
)

func init() {
	messageCmd.Flags().StringVar(&messageToken, "token", "", "bot token (or DISCORD_BOT_TOKEN)")
	messageCmd.Flags().BoolVar(&messageAllowMentions, "allow-mentions", false, "let the content ping users and roles")
	messageCmd.Flags().BoolVar(&messageJSON, "json", false, "print the created message as JSON")
	Cmd.AddCommand(messageCmd)
}

var messageCmd = &cobra.Command{
	Use:   "message <channel-id> <content>...",
	Short: "Post to a channel as a bot",
	Long: `Post content to a Discord channel using a bot token.

The bot must be in the server and have permission to send messages in
the channel. Mentions stay unparsed unless --allow-mentions is set.`,
	Example: `  skillctl notify message 1234567890 "deploy finished"

  # Actually ping the on-call role
  skillctl notify message 1234567890 --allow-mentions "<@&987> deploy failed"`,
	Args: cobra.MinimumNArgs(2),
	RunE: runMessage,
}

func runMessage(cmd *cobra.Command, args []string) error {
	return runMessageWithWriter(cmd, os.Stdout, args[0], strings.Join(args[1:], " "))
}

// runMessageWithWriter allows injecting a writer for testing.
func runMessageWithWriter(cmd *cobra.Command, w io.Writer, channelID, content string) error {
	if strings.TrimSpace(content) == "" {
		return errors.NewUsageError(
			errors.New("empty message content"),
			"Pass the message text after the channel id")
	}

	token, err := resolveBotToken(messageToken)
	if err != nil {
		return err
	}

	raw, err := newDiscordClient().SendMessage(cmd.Context(), token, channelID, content, messageAllowMentions)
	if err != nil {
		return err
	}

	if messageJSON {
		return printRaw(w, raw)
	}
	fmt.Fprintf(w, "Message %s sent to channel %s.\n", gjson.GetBytes(raw, "id").String(), channelID)
	return nil
}
