package cloud

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/openhands/skillctl/internal/errors"
)

var agentUploadContentType string

func init() {
	agentUploadCmd.Flags().StringVar(&agentUploadContentType, "content-type", "", "MIME type to send (default text/plain)")
	agentCmd.AddCommand(agentDownloadCmd)
	agentCmd.AddCommand(agentUploadCmd)
}

var agentDownloadCmd = &cobra.Command{
	Use:   "download <remote-path> [local-path]",
	Short: "Fetch a file from the sandbox workspace",
	Example: `  skillctl cloud agent download /workspace/report.md
  skillctl cloud agent download /workspace/report.md ./report.md`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runAgentDownload,
}

var agentUploadCmd = &cobra.Command{
	Use:   "upload <local-path> <remote-path>",
	Short: "Copy a local text file into the sandbox workspace",
	Example: `  skillctl cloud agent upload notes.md /workspace/notes.md`,
	Args: cobra.ExactArgs(2),
	RunE: runAgentUpload,
}

func runAgentDownload(cmd *cobra.Command, args []string) error {
	local := ""
	if len(args) == 2 {
		local = args[1]
	}
	return runAgentDownloadWithWriter(cmd, os.Stdout, args[0], local)
}

// runAgentDownloadWithWriter allows injecting a writer for testing.
func runAgentDownloadWithWriter(cmd *cobra.Command, w io.Writer, remote, local string) error {
	client, err := newAgentClient()
	if err != nil {
		return err
	}

	if local == "" {
		local = filepath.Base(remote)
	}
	info, err := client.DownloadFile(cmd.Context(), remote, local)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Downloaded %s to %s (%d bytes)\n", remote, info.File, info.Size)
	return nil
}

func runAgentUpload(cmd *cobra.Command, args []string) error {
	return runAgentUploadWithWriter(cmd, os.Stdout, args[0], args[1])
}

// runAgentUploadWithWriter allows injecting a writer for testing.
func runAgentUploadWithWriter(cmd *cobra.Command, w io.Writer, local, remote string) error {
	content, err := os.ReadFile(local)
	if err != nil {
		return errors.NewUserError(
			errors.Wrapf(err, "reading %s", local),
			"The first argument is the local file, the second the sandbox path")
	}

	client, err := newAgentClient()
	if err != nil {
		return err
	}
	if _, err := client.UploadTextFile(cmd.Context(), remote, string(content), agentUploadContentType); err != nil {
		return err
	}
	fmt.Fprintf(w, "Uploaded %s to %s (%d bytes)\n", local, remote, len(content))
	return nil
}
