package cloud

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/openhands/skillctl/internal/errors"
	"github.com/openhands/skillctl/pkg/openhands"
	v1 "github.com/openhands/skillctl/pkg/openhands/v1"
)

var (
	startMessage    string
	startFromFile   string
	startAppendFile string
	startRun        bool
	startRepo       string
	startBranch     string
	startTitle      string
	startWait       bool
	startMaxWait    time.Duration
	startPoll       time.Duration
	startJSON       bool
)

func init() {
	startCmd.Flags().StringVarP(&startMessage, "message", "m", "", "initial user message")
	startCmd.Flags().StringVar(&startFromFile, "from-file", "", "read the initial message from a prompt file")
	startCmd.Flags().StringVar(&startAppendFile, "append-file", "", "append this file to the prompt (skipped when missing)")
	startCmd.Flags().BoolVar(&startRun, "run", true, "start the agent right away")
	startCmd.Flags().StringVar(&startRepo, "repo", "", "attach a repository (owner/repo)")
	startCmd.Flags().StringVar(&startBranch, "branch", "", "git branch to work on")
	startCmd.Flags().StringVar(&startTitle, "title", "", "conversation title")
	startCmd.Flags().BoolVar(&startWait, "wait", false, "wait for the start task to finish")
	startCmd.Flags().DurationVar(&startMaxWait, "max-wait", v1.DefaultTaskPollTimeout, "how long --wait waits")
	startCmd.Flags().DurationVar(&startPoll, "poll", v1.DefaultTaskPollInterval, "status check interval for --wait")
	startCmd.Flags().BoolVar(&startJSON, "json", false, "print the raw API response")
	Cmd.AddCommand(startCmd)
}

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start a new conversation",
	Long: `Start a V1 conversation and its sandbox.

Provisioning a sandbox routinely takes over a minute, so the API
answers immediately with a start task. With --wait the command polls
that task until the sandbox is up (or the task fails).

By default the agent begins working right away; --run=false creates
the conversation without running it.`,
	Example: `  # Fire and forget
  skillctl cloud start --message "fix the failing tests"

  # Wait for the sandbox before returning
  skillctl cloud start --message "fix the failing tests" --wait

  # From a prompt file, on a repository
  skillctl cloud start --from-file prompts/review.md \
    --repo example/website --branch main --title "nightly review"`,
	Args: cobra.NoArgs,
	RunE: runStart,
}

func runStart(cmd *cobra.Command, _ []string) error {
	return runStartWithWriter(cmd, os.Stdout)
}

// runStartWithWriter allows injecting a writer for testing.
func runStartWithWriter(cmd *cobra.Command, w io.Writer) error {
	if startMessage == "" && startFromFile == "" {
		return errors.NewUsageError(
			errors.New("either --message or --from-file is required"),
			"See: skillctl cloud start --help")
	}
	if startMessage != "" && startFromFile != "" {
		return errors.NewUsageError(
			errors.New("--message and --from-file are mutually exclusive"),
			"Pick one prompt source")
	}

	client, err := newClient()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var raw []byte
	if startFromFile != "" {
		raw, err = client.StartFromPromptFile(ctx, v1.StartFromPromptFileRequest{
			PromptFile:         startFromFile,
			AppendFile:         startAppendFile,
			Run:                startRun,
			SelectedRepository: startRepo,
			SelectedBranch:     startBranch,
			Title:              startTitle,
		})
	} else {
		raw, err = client.StartConversation(ctx, v1.StartConversationRequest{
			InitialMessage:     startMessage,
			Run:                startRun,
			SelectedRepository: startRepo,
			SelectedBranch:     startBranch,
			Title:              startTitle,
		})
	}
	if err != nil {
		return err
	}

	if startJSON && !startWait {
		return printRaw(w, raw)
	}

	convoID := openhands.StringField(raw, "conversation_id")
	if convoID == "" {
		convoID = openhands.StringField(raw, "app_conversation_id")
	}
	taskID := openhands.StringField(raw, "id")

	fmt.Fprintf(w, "Conversation: %s\n", convoID)
	fmt.Fprintf(w, "Start task: %s (%s)\n", taskID, openhands.Status(raw))

	if !startWait {
		return nil
	}

	task, err := client.PollStartTask(ctx, taskID, startPoll, startMaxWait)
	if err != nil {
		var timeout *openhands.PollTimeoutError
		if errors.As(err, &timeout) {
			return errors.NewExitError(
				errors.Newf("start task still %q after %s", timeout.LastStatus, startMaxWait),
				errors.ExitFailure)
		}
		return err
	}

	if startJSON {
		return printRaw(w, task)
	}
	fmt.Fprintf(w, "Start task finished: %s\n", openhands.Status(task))
	return nil
}
