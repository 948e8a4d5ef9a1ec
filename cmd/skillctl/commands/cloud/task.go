package cloud

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/openhands/skillctl/internal/errors"
	"github.com/openhands/skillctl/pkg/openhands"
	v1 "github.com/openhands/skillctl/pkg/openhands/v1"
)

var (
	taskWait    bool
	taskMaxWait time.Duration
	taskPoll    time.Duration
	taskJSON    bool
)

func init() {
	taskCmd.Flags().BoolVar(&taskWait, "wait", false, "poll until the task finishes")
	taskCmd.Flags().DurationVar(&taskMaxWait, "max-wait", v1.DefaultTaskPollTimeout, "how long --wait waits")
	taskCmd.Flags().DurationVar(&taskPoll, "poll", v1.DefaultTaskPollInterval, "status check interval for --wait")
	taskCmd.Flags().BoolVar(&taskJSON, "json", false, "print the raw API response")
	Cmd.AddCommand(taskCmd)
}

var taskCmd = &cobra.Command{
	Use:   "task <id>",
	Short: "Show a start task",
	Long: `Show a conversation start task.

Start tasks track sandbox provisioning. Terminal statuses are READY,
ERROR, FAILED, and CANCELLED.`,
	Example: `  # One look
  skillctl cloud task 9a8b7c6d

  # Poll until provisioning is over
  skillctl cloud task 9a8b7c6d --wait`,
	Args: cobra.ExactArgs(1),
	RunE: runTask,
}

func runTask(cmd *cobra.Command, args []string) error {
	return runTaskWithWriter(cmd, os.Stdout, args[0])
}

// runTaskWithWriter allows injecting a writer for testing.
func runTaskWithWriter(cmd *cobra.Command, w io.Writer, id string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	var raw []byte
	if taskWait {
		raw, err = client.PollStartTask(cmd.Context(), id, taskPoll, taskMaxWait)
		if err != nil {
			var timeout *openhands.PollTimeoutError
			if errors.As(err, &timeout) {
				return errors.NewExitError(
					errors.Newf("start task still %q after %s", timeout.LastStatus, taskMaxWait),
					errors.ExitFailure)
			}
			return err
		}
	} else {
		raw, err = client.GetStartTask(cmd.Context(), id)
		if err != nil {
			return err
		}
		if raw == nil {
			return errors.NewUserError(
				errors.Newf("start task %q not found", id),
				"Fresh tasks can lag; retry in a moment or use --wait")
		}
	}

	if taskJSON {
		return printRaw(w, raw)
	}

	fmt.Fprintf(w, "Task: %s\n", openhands.StringField(raw, "id"))
	fmt.Fprintf(w, "Status: %s\n", openhands.Status(raw))
	if convoID := openhands.StringField(raw, "app_conversation_id"); convoID != "" {
		fmt.Fprintf(w, "Conversation: %s\n", convoID)
	}
	return nil
}
