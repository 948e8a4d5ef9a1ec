package convo

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/openhands/skillctl/pkg/fileutil"
)

var trajectoryOut string

func init() {
	trajectoryCmd.Flags().StringVarP(&trajectoryOut, "out", "o", "",
		"write the trajectory to this file instead of stdout")
	Cmd.AddCommand(trajectoryCmd)
}

var trajectoryCmd = &cobra.Command{
	Use:   "trajectory <id>",
	Short: "Fetch the full event history",
	Long: `Fetch a conversation's complete trajectory as JSON.

This is the heavyweight endpoint the plugin harness matches patterns
against; prefer 'skillctl convo events' for incremental reads.`,
	Example: `  # To stdout, for piping into jq
  skillctl convo trajectory 1f2e3d4c | jq '.trajectory | length'

  # To a file
  skillctl convo trajectory 1f2e3d4c --out run.json`,
	Args: cobra.ExactArgs(1),
	RunE: runTrajectory,
}

func runTrajectory(cmd *cobra.Command, args []string) error {
	return runTrajectoryWithWriter(cmd, os.Stdout, args[0])
}

// runTrajectoryWithWriter allows injecting a writer for testing.
func runTrajectoryWithWriter(cmd *cobra.Command, w io.Writer, id string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	raw, err := client.GetTrajectory(cmd.Context(), id)
	if err != nil {
		return err
	}

	if trajectoryOut != "" {
		if err := fileutil.AtomicWriteFile(trajectoryOut, raw, 0o644); err != nil {
			return err
		}
		fmt.Fprintf(w, "Trajectory written to %s (%d bytes)\n", trajectoryOut, len(raw))
		return nil
	}

	return printRaw(w, raw)
}
