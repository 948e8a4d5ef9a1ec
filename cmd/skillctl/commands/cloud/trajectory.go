package cloud

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

var (
	trajectoryOut         string
	trajectoryCountEvents bool
	trajectoryExtractDir  string
	trajectoryJSON        bool
)

func init() {
	trajectoryCmd.Flags().StringVarP(&trajectoryOut, "out", "o", "", "where to write the archive (default <id>.zip)")
	trajectoryCmd.Flags().BoolVar(&trajectoryCountEvents, "count-events", false, "extract the archive and count its events")
	trajectoryCmd.Flags().StringVar(&trajectoryExtractDir, "extract-dir", "", "where --count-events extracts (default next to the archive)")
	trajectoryCmd.Flags().BoolVar(&trajectoryJSON, "json", false, "print the result as JSON")
	Cmd.AddCommand(trajectoryCmd)
}

var trajectoryCmd = &cobra.Command{
	Use:   "trajectory <conversation-id>",
	Short: "Download a conversation trajectory archive",
	Long: `Download the trajectory zip for a conversation.

With --count-events the archive is also extracted and its event files
counted, which works even when the sandbox is gone.`,
	Example: `  # Save the archive
  skillctl cloud trajectory 9a8b7c6d -o run.zip

  # Archive plus an offline event count
  skillctl cloud trajectory 9a8b7c6d --count-events`,
	Args: cobra.ExactArgs(1),
	RunE: runTrajectory,
}

func runTrajectory(cmd *cobra.Command, args []string) error {
	return runTrajectoryWithWriter(cmd, os.Stdout, args[0])
}

// runTrajectoryWithWriter allows injecting a writer for testing.
func runTrajectoryWithWriter(cmd *cobra.Command, w io.Writer, conversationID string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	outPath := trajectoryOut
	if outPath == "" {
		outPath = conversationID + ".zip"
	}

	if trajectoryCountEvents {
		extractDir := trajectoryExtractDir
		if extractDir == "" {
			extractDir = strings.TrimSuffix(outPath, ".zip") + "-events"
		}
		count, err := client.CountEventsFromTrajectory(cmd.Context(), conversationID, outPath, extractDir)
		if err != nil {
			return err
		}
		if trajectoryJSON {
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			return enc.Encode(count)
		}
		fmt.Fprintf(w, "Archive: %s (%d bytes)\n", count.Zip.File, count.Zip.Size)
		fmt.Fprintf(w, "Extracted to: %s\n", count.ExtractDir)
		fmt.Fprintf(w, "Events: %d\n", count.EventCount)
		if !count.HasMeta {
			fmt.Fprintln(w, "Note: archive has no meta.json")
		}
		return nil
	}

	info, err := client.DownloadTrajectory(cmd.Context(), conversationID, outPath)
	if err != nil {
		return err
	}
	if trajectoryJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	}
	fmt.Fprintf(w, "Trajectory written to %s (%d bytes)\n", filepath.Clean(info.File), info.Size)
	return nil
}
