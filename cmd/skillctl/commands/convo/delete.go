package convo

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var deleteForce bool

func init() {
	deleteCmd.Flags().BoolVarP(&deleteForce, "force", "f", false,
		"delete without confirmation")
	Cmd.AddCommand(deleteCmd)
}

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a conversation",
	Long: `Delete a conversation and its history from the cloud.

Deletion is permanent; fetch the trajectory first if the run matters.`,
	Example: `  # Delete with confirmation
  skillctl convo delete 1f2e3d4c

  # Delete without prompting
  skillctl convo delete 1f2e3d4c --force`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

func runDelete(cmd *cobra.Command, args []string) error {
	return runDeleteWithInput(cmd, os.Stdout, os.Stdin, args[0])
}

// runDeleteWithInput allows injecting writer and reader for testing.
func runDeleteWithInput(cmd *cobra.Command, w io.Writer, in io.Reader, id string) error {
	if !deleteForce {
		fmt.Fprintf(w, "Delete conversation %s? This cannot be undone. [y/N] ", id)
		reader := bufio.NewReader(in)
		response, readErr := reader.ReadString('\n')
		if readErr != nil {
			fmt.Fprintln(w, "\nAborted")
			return nil
		}
		response = strings.TrimSpace(strings.ToLower(response))
		if response != "y" && response != "yes" {
			fmt.Fprintln(w, "Aborted")
			return nil
		}
	}

	client, err := newClient()
	if err != nil {
		return err
	}

	if _, err := client.DeleteConversation(cmd.Context(), id); err != nil {
		return err
	}

	fmt.Fprintf(w, "Conversation %s deleted.\n", id)
	return nil
}
