package cloud

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"

	"github.com/openhands/skillctl/internal/errors"
	v1 "github.com/openhands/skillctl/pkg/openhands/v1"
)

var (
	agentExecCwd     string
	agentExecTimeout time.Duration
	agentExecJSON    bool
)

func init() {
	agentExecCmd.Flags().StringVar(&agentExecCwd, "cwd", "", "working directory inside the sandbox")
	agentExecCmd.Flags().DurationVar(&agentExecTimeout, "timeout", v1.DefaultBashTimeout, "command timeout")
	agentExecCmd.Flags().BoolVar(&agentExecJSON, "json", false, "print the raw API response")
	agentCmd.AddCommand(agentExecCmd)
}

var agentExecCmd = &cobra.Command{
	Use:   "exec <command>...",
	Short: "Run a shell command in the sandbox",
	Long: `Run a shell command inside the sandbox workspace.

The command's stdout and stderr are printed, and its exit status becomes
skillctl's own exit status.`,
	Example: `  skillctl cloud agent exec ls -la /workspace
  skillctl cloud agent exec --cwd /workspace --timeout 2m "go test ./..."`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAgentExec,
}

func runAgentExec(cmd *cobra.Command, args []string) error {
	return runAgentExecWithWriter(cmd, os.Stdout, strings.Join(args, " "))
}

// runAgentExecWithWriter allows injecting a writer for testing.
func runAgentExecWithWriter(cmd *cobra.Command, w io.Writer, command string) error {
	client, err := newAgentClient()
	if err != nil {
		return err
	}

	raw, err := client.ExecuteBash(cmd.Context(), v1.BashRequest{
		Command: command,
		Cwd:     agentExecCwd,
		Timeout: agentExecTimeout,
	})
	if err != nil {
		return err
	}

	if agentExecJSON {
		return printRaw(w, raw)
	}

	if out := gjson.GetBytes(raw, "stdout").String(); out != "" {
		fmt.Fprint(w, out)
		if !strings.HasSuffix(out, "\n") {
			fmt.Fprintln(w)
		}
	}
	if errOut := gjson.GetBytes(raw, "stderr").String(); errOut != "" {
		fmt.Fprint(w, errOut)
		if !strings.HasSuffix(errOut, "\n") {
			fmt.Fprintln(w)
		}
	}

	if code := gjson.GetBytes(raw, "exit_code").Int(); code != 0 {
		return errors.NewExitError(
			errors.Newf("command exited with status %d", code),
			int(code))
	}
	return nil
}
