// Package convo provides CLI commands for driving cloud conversations
// over the V0 API.
package convo

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/spf13/cobra"

	"github.com/openhands/skillctl/cmd/skillctl/commands/flags"
	"github.com/openhands/skillctl/internal/cli"
	"github.com/openhands/skillctl/internal/errors"
	v0 "github.com/openhands/skillctl/pkg/openhands/v0"
)

var (
	apiKeyFlag  string
	baseURLFlag string
)

// Cmd is the root convo command.
var Cmd = &cobra.Command{
	Use:   "convo",
	Short: "Drive cloud conversations",
	Long: `Drive conversations on the OpenHands cloud: create them, send
messages, read events, and fetch trajectories.

These are the same calls the plugin harness makes; use them to poke at
a conversation directly when a verification run needs debugging.

The API key is resolved from --api-key, the OPENHANDS_API_KEY
environment variable, a .env file, or ~/.openhands/config.toml, in
that order.`,
	Example: `  # Start a conversation
  skillctl convo create --message "fix the failing test"

  # Watch it finish
  skillctl convo wait <id>

  # Read what happened
  skillctl convo events <id>

  See Also:
    skillctl plugin test - Verify a plugin end to end
    skillctl cloud       - The V1 API surface`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

func init() {
	Cmd.PersistentFlags().StringVar(&apiKeyFlag, "api-key", "",
		"API key (default: resolved from env, .env, config.toml)")
	Cmd.PersistentFlags().StringVar(&baseURLFlag, "base-url", "",
		"API base URL (default: from config)")
}

// newClient builds a V0 client from the command-line overrides and the
// loaded config.
func newClient() (*v0.Client, error) {
	return cli.NewV0Client(flags.Config(), cli.CloudOptions{
		APIKey:  apiKeyFlag,
		BaseURL: baseURLFlag,
	})
}

// printRaw pretty-prints an API response.
func printRaw(w io.Writer, raw json.RawMessage) error {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		// Not JSON after all; emit it untouched
		_, werr := w.Write(raw)
		return werr
	}
	buf.WriteByte('\n')
	_, err := w.Write(buf.Bytes())
	return errors.Wrap(err, "writing response")
}

// truncate shortens a string to maxLen characters, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
