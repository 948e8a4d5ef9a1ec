package cloud

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/openhands/skillctl/pkg/openhands"
)

var meJSON bool

func init() {
	meCmd.Flags().BoolVar(&meJSON, "json", false, "print the raw API response")
	Cmd.AddCommand(meCmd)
}

var meCmd = &cobra.Command{
	Use:   "me",
	Short: "Show the authenticated user",
	Long: `Show the user the configured API key belongs to.

This is the cheapest call of the API, which makes it the go-to
credential check; 'skillctl doctor' runs the same probe.`,
	Example: `  skillctl cloud me`,
	Args:    cobra.NoArgs,
	RunE:    runMe,
}

func runMe(cmd *cobra.Command, _ []string) error {
	return runMeWithWriter(cmd, os.Stdout)
}

// runMeWithWriter allows injecting a writer for testing.
func runMeWithWriter(cmd *cobra.Command, w io.Writer) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	raw, err := client.Me(cmd.Context())
	if err != nil {
		return err
	}

	if meJSON {
		return printRaw(w, raw)
	}

	if id := openhands.StringField(raw, "id"); id != "" {
		fmt.Fprintf(w, "User: %s\n", id)
	}
	if email := openhands.StringField(raw, "email"); email != "" {
		fmt.Fprintf(w, "Email: %s\n", email)
	}
	fmt.Fprintf(w, "Server: %s\n", client.BaseURL())
	return nil
}
