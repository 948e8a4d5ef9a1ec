// Package cloud provides CLI commands for the V1 generation of the
// OpenHands Cloud API.
package cloud

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/spf13/cobra"

	"github.com/openhands/skillctl/cmd/skillctl/commands/flags"
	"github.com/openhands/skillctl/internal/cli"
	"github.com/openhands/skillctl/internal/errors"
	v1 "github.com/openhands/skillctl/pkg/openhands/v1"
)

var (
	apiKeyFlag  string
	baseURLFlag string
)

// Cmd is the root cloud command.
var Cmd = &cobra.Command{
	Use:   "cloud",
	Short: "Work with the V1 cloud API",
	Long: `Work with the V1 generation of the OpenHands Cloud API: app
conversations, start tasks, sandboxes, and trajectory archives.

Two servers are involved. The app server authenticates with your API
key and manages conversations and sandboxes. Each running sandbox
additionally exposes an agent server with its own URL and session key;
'skillctl cloud agent' talks to that one.`,
	Example: `  # Check credentials
  skillctl cloud me

  # Start a conversation and wait for its sandbox
  skillctl cloud start --message "fix the failing tests" --wait

  # Export a finished run
  skillctl cloud trajectory <id> --out run.zip

  See Also:
    skillctl convo - The V0 conversation surface`,
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

// newClient builds a V1 app-server client from the command-line
// overrides and the loaded config.
func newClient() (*v1.Client, error) {
	return cli.NewV1Client(flags.Config(), cli.CloudOptions{
		APIKey:  apiKeyFlag,
		BaseURL: baseURLFlag,
	})
}

// printRaw pretty-prints an API response.
func printRaw(w io.Writer, raw json.RawMessage) error {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
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
