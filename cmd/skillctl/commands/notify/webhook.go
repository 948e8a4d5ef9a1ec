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
	webhookURL  string
	webhookWait bool
	webhookJSON bool
)

func init() {
	webhookCmd.Flags().StringVar(&webhookURL, "webhook-url", "", "incoming webhook URL (or DISCORD_WEBHOOK_URL)")
	webhookCmd.Flags().BoolVar(&webhookWait, "wait", false, "ask Discord to return the created message")
	webhookCmd.Flags().BoolVar(&webhookJSON, "json", false, "print the created message as JSON (implies --wait)")
	Cmd.AddCommand(webhookCmd)
}

var webhookCmd = &cobra.Command{
	Use:   "webhook <content>...",
	Short: "Post through an incoming webhook",
	Long: `Post content to a Discord incoming webhook.

Mentions in the content are never parsed, so an untrusted string cannot
ping @everyone. The webhook URL embeds a secret token; skillctl masks
it in every error message.`,
	Example: `  skillctl notify webhook "nightly checks passed"

  # From a pipeline, with the created message echoed back
  skillctl notify webhook --wait "run $RUN_ID matched"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runWebhook,
}

func runWebhook(cmd *cobra.Command, args []string) error {
	return runWebhookWithWriter(cmd, os.Stdout, strings.Join(args, " "))
}

// runWebhookWithWriter allows injecting a writer for testing.
func runWebhookWithWriter(cmd *cobra.Command, w io.Writer, content string) error {
	if strings.TrimSpace(content) == "" {
		return errors.NewUsageError(
			errors.New("empty message content"),
			"Pass the message text as arguments")
	}

	target, err := resolveWebhookURL(webhookURL)
	if err != nil {
		return err
	}

	wait := webhookWait || webhookJSON
	raw, err := newDiscordClient().PostWebhook(cmd.Context(), target, content, wait)
	if err != nil {
		return err
	}

	if webhookJSON && raw != nil {
		return printRaw(w, raw)
	}
	if raw != nil {
		if id := gjson.GetBytes(raw, "id").String(); id != "" {
			fmt.Fprintf(w, "Notification sent (message %s).\n", id)
			return nil
		}
	}
	fmt.Fprintln(w, "Notification sent.")
	return nil
}
