// Package notify implements the notify command group: Discord delivery
// for automation results, through an incoming webhook or a bot token.
package notify

import (
	"bytes"
	"encoding/json"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/openhands/skillctl/cmd/skillctl/commands/flags"
	"github.com/openhands/skillctl/internal/errors"
	"github.com/openhands/skillctl/internal/notify"
)

var (
	maxRetries int
	apiBase    string
)

// Cmd is the root notify command.
var Cmd = &cobra.Command{
	Use:   "notify",
	Short: "Send Discord notifications",
	Long: `Send Discord notifications, the usual tail of a verification run.

Rate-limited requests (HTTP 429) are retried with the wait Discord
advises, capped at 60 seconds per attempt.`,
	Example: `  # Through an incoming webhook
  skillctl notify webhook "nightly checks passed"

  # As a bot, into a channel
  skillctl notify message 1234567890 "deploy finished"

  See Also:
    skillctl plugin test - The runs these notifications usually report on`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

func init() {
	Cmd.PersistentFlags().IntVar(&maxRetries, "max-retries", notify.DefaultMaxRetries,
		"how often a rate-limited request is retried")
	Cmd.PersistentFlags().StringVar(&apiBase, "api-base", "",
		"override the Discord API endpoint")
	_ = Cmd.PersistentFlags().MarkHidden("api-base")
}

// newDiscordClient builds the shared Discord client from the persistent
// flags.
func newDiscordClient() *notify.Client {
	return &notify.Client{MaxRetries: maxRetries, APIBase: apiBase}
}

// resolveWebhookURL picks the webhook URL: flag, then environment, then
// config file.
func resolveWebhookURL(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if env := os.Getenv("DISCORD_WEBHOOK_URL"); env != "" {
		return env, nil
	}
	if cfg := flags.Config(); cfg.Notify.WebhookURL != "" {
		return cfg.Notify.WebhookURL, nil
	}
	return "", errors.NewUsageError(
		errors.New("no webhook URL"),
		"Pass --webhook-url, set DISCORD_WEBHOOK_URL, or add notify.webhook_url to the config file")
}

// resolveBotToken picks the bot token: flag, then environment.
func resolveBotToken(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if env := os.Getenv("DISCORD_BOT_TOKEN"); env != "" {
		return env, nil
	}
	return "", errors.NewUsageError(
		errors.New("no bot token"),
		"Pass --token or set DISCORD_BOT_TOKEN")
}

// printRaw pretty-prints a Discord response document.
func printRaw(w io.Writer, raw json.RawMessage) error {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		_, werr := w.Write(raw)
		return werr
	}
	buf.WriteByte('\n')
	_, err := w.Write(buf.Bytes())
	return err
}
