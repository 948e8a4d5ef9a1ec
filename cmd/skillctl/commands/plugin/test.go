package plugin

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/openhands/skillctl/cmd/skillctl/commands/flags"
	"github.com/openhands/skillctl/internal/cli"
	"github.com/openhands/skillctl/internal/config"
	"github.com/openhands/skillctl/internal/errors"
	"github.com/openhands/skillctl/internal/harness"
	"github.com/openhands/skillctl/internal/paths"
	"github.com/openhands/skillctl/internal/runs"
)

var (
	testPlugin  string
	testMessage string
	testExpect  string
	testRegex   bool
	testOpen    bool
	testVerbose bool
	testJSON    bool
	testMaxWait time.Duration
	testPoll    time.Duration
	testAPIKey  string
	testBaseURL string
)

func init() {
	testCmd.Flags().StringVar(&testPlugin, "plugin", "", "plugin under test (required)")
	testCmd.Flags().StringVar(&testMessage, "message", "", "initial user message (required)")
	testCmd.Flags().StringVar(&testExpect, "expect", "", "pattern the trajectory must contain (required)")
	testCmd.Flags().BoolVar(&testRegex, "regex", false, "treat --expect as a regular expression")
	testCmd.Flags().BoolVar(&testOpen, "open", false, "open the conversation in the browser")
	testCmd.Flags().BoolVar(&testVerbose, "verbose", false, "stream poll progress")
	testCmd.Flags().BoolVar(&testJSON, "json", false, "print the run result as JSON")
	testCmd.Flags().DurationVar(&testMaxWait, "max-wait", config.DefaultMaxWait,
		"how long to wait for a terminal status")
	testCmd.Flags().DurationVar(&testPoll, "poll", config.DefaultPoll,
		"status check interval")
	testCmd.Flags().StringVar(&testAPIKey, "api-key", "", "API key (default: resolved from env, .env, config.toml)")
	testCmd.Flags().StringVar(&testBaseURL, "base-url", "", "API base URL (default: from config)")
	Cmd.AddCommand(testCmd)
}

var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Verify a plugin against a real cloud conversation",
	Long: `Run one end-to-end plugin verification.

The message is sent as a new conversation on the OpenHands cloud. The
run waits for the agent to reach a terminal status, fetches the
trajectory, and searches it for the expected pattern. A warning is
printed when the message contains none of the plugin's triggers.

Every run is recorded in the local run ledger; inspect past runs with
'skillctl runs list'. Ledger problems never fail a run.

Exit codes:
  0 - Pattern found in the trajectory
  1 - No match, timeout, or run failure
  2 - Usage error`,
	Example: `  # Substring match
  skillctl plugin test --plugin deploy-guard \
    --message "deploy the api to staging" --expect "pre_deploy"

  # Regex match, watching progress
  skillctl plugin test --plugin deploy-guard \
    --message "deploy to staging" --expect "pre_deploy.*staging" --regex --verbose

  # Open the conversation while it runs
  skillctl plugin test --plugin deploy-guard \
    --message "deploy to staging" --expect "pre_deploy" --open

  See Also:
    skillctl runs list - Inspect past verification runs
    skillctl convo     - Drive conversations directly`,
	Args: cobra.NoArgs,
	RunE: runTest,
}

func runTest(cmd *cobra.Command, _ []string) error {
	// Flags win; otherwise the config's harness defaults apply
	cfg := flags.Config()
	if !cmd.Flags().Changed("max-wait") {
		testMaxWait = cfg.Test.MaxWait
	}
	if !cmd.Flags().Changed("poll") {
		testPoll = cfg.Test.Poll
	}

	client, err := cli.NewV0Client(cfg, cli.CloudOptions{APIKey: testAPIKey, BaseURL: testBaseURL})
	if err != nil {
		return err
	}

	store := openLedger()
	if store != nil {
		defer func() { _ = store.Close() }()
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := &harness.Runner{
		Client:   client,
		Registry: flags.RegistryRoot(),
		Store:    store,
		Out:      cmd.OutOrStdout(),
	}

	return runTestWithRunner(ctx, cmd.OutOrStdout(), runner)
}

// runTestWithRunner allows injecting a runner for testing.
func runTestWithRunner(ctx context.Context, w io.Writer, runner *harness.Runner) error {
	res, err := runner.Run(ctx, harness.Options{
		Plugin:  testPlugin,
		Message: testMessage,
		Expect:  testExpect,
		Regex:   testRegex,
		Open:    testOpen,
		Verbose: testVerbose,
		MaxWait: testMaxWait,
		Poll:    testPoll,
	})
	if err != nil {
		return err
	}

	if testJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			return errors.Wrap(err, "encoding result")
		}
	}

	switch {
	case res.Matched:
		fmt.Fprintf(w, "PASS: pattern %q found (status %s, %s)\n",
			testExpect, res.Status, res.Duration.Round(time.Second))
		fmt.Fprintf(w, "Recorded as run %s\n", res.RunID)
		return nil
	case res.TimedOut:
		return errors.NewExitError(
			errors.Newf("run %s timed out after %s (last status %q)",
				res.RunID, testMaxWait, res.Status),
			errors.ExitFailure)
	default:
		return errors.NewExitError(
			errors.Newf("run %s: pattern %q not found in trajectory (status %s)",
				res.RunID, testExpect, res.Status),
			errors.ExitFailure)
	}
}

// openLedger opens the run ledger. Recording is best effort; a broken
// ledger is a warning, never a run failure.
func openLedger() *runs.Store {
	store, err := runs.Open(paths.RunsDBPath())
	if err != nil {
		slog.Warn("run ledger unavailable, this run will not be recorded",
			"path", paths.RunsDBPath(), "error", err)
		return nil
	}
	return store
}
