package convo

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/openhands/skillctl/cmd/skillctl/commands/flags"
	"github.com/openhands/skillctl/internal/errors"
	"github.com/openhands/skillctl/pkg/openhands"
)

var (
	waitMaxWait time.Duration
	waitPoll    time.Duration
)

func init() {
	waitCmd.Flags().DurationVar(&waitMaxWait, "max-wait", 0,
		"how long to wait (default: from config)")
	waitCmd.Flags().DurationVar(&waitPoll, "poll", 0,
		"status check interval (default: from config)")
	Cmd.AddCommand(waitCmd)
}

var waitCmd = &cobra.Command{
	Use:   "wait <id>",
	Short: "Wait for a conversation to finish",
	Long: `Poll a conversation until it reaches a terminal status.

Terminal statuses are STOPPED, ERROR, FAILED, and CANCELLED. A run
still going when --max-wait expires exits with status 1.`,
	Example: `  # Wait with the configured limits
  skillctl convo wait 1f2e3d4c

  # Tight limits for a quick run
  skillctl convo wait 1f2e3d4c --max-wait 5m --poll 10s`,
	Args: cobra.ExactArgs(1),
	RunE: runWait,
}

func runWait(cmd *cobra.Command, args []string) error {
	cfg := flags.Config()
	if waitMaxWait <= 0 {
		waitMaxWait = cfg.Test.MaxWait
	}
	if waitPoll <= 0 {
		waitPoll = cfg.Test.Poll
	}
	return runWaitWithWriter(cmd, os.Stdout, args[0])
}

// runWaitWithWriter allows injecting a writer for testing.
func runWaitWithWriter(cmd *cobra.Command, w io.Writer, id string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(w, "Waiting for conversation %s (up to %s, polling every %s)\n",
		id, waitMaxWait, waitPoll)

	raw, err := client.PollUntilTerminal(ctx, id, waitPoll, waitMaxWait)
	if err != nil {
		var timeout *openhands.PollTimeoutError
		if errors.As(err, &timeout) {
			return errors.NewExitError(
				errors.Newf("still %q after %s", timeout.LastStatus, waitMaxWait),
				errors.ExitFailure)
		}
		return err
	}

	fmt.Fprintf(w, "Status: %s\n", openhands.Status(raw))
	return nil
}
