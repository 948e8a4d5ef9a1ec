package convo

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"

	"github.com/openhands/skillctl/pkg/openhands"
)

var filesJSON bool

func init() {
	filesCmd.Flags().BoolVar(&filesJSON, "json", false, "print the raw API response")
	Cmd.AddCommand(filesCmd)
	Cmd.AddCommand(fileCmd)
}

var filesCmd = &cobra.Command{
	Use:   "files <id> [path]",
	Short: "List sandbox workspace files",
	Long: `List files in the conversation's sandbox workspace.

Without a path the workspace root is listed.`,
	Example: `  # Workspace root
  skillctl convo files 1f2e3d4c

  # A subdirectory
  skillctl convo files 1f2e3d4c src/`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runFiles,
}

func runFiles(cmd *cobra.Command, args []string) error {
	var path string
	if len(args) > 1 {
		path = args[1]
	}
	return runFilesWithWriter(cmd, os.Stdout, args[0], path)
}

// runFilesWithWriter allows injecting a writer for testing.
func runFilesWithWriter(cmd *cobra.Command, w io.Writer, id, path string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	raw, err := client.ListFiles(cmd.Context(), id, path)
	if err != nil {
		return err
	}

	if filesJSON {
		return printRaw(w, raw)
	}

	entries := gjson.ParseBytes(raw).Array()
	if len(entries) == 0 {
		fmt.Fprintln(w, "No files.")
		return nil
	}
	for _, entry := range entries {
		fmt.Fprintln(w, entry.String())
	}
	return nil
}

var fileCmd = &cobra.Command{
	Use:   "file <id> <path>",
	Short: "Print one sandbox workspace file",
	Long:  `Print the content of one file from the conversation's sandbox workspace.`,
	Example: `  skillctl convo file 1f2e3d4c src/main.go

  # Into a local file
  skillctl convo file 1f2e3d4c report.md > report.md`,
	Args: cobra.ExactArgs(2),
	RunE: runFile,
}

func runFile(cmd *cobra.Command, args []string) error {
	return runFileWithWriter(cmd, os.Stdout, args[0], args[1])
}

// runFileWithWriter allows injecting a writer for testing.
func runFileWithWriter(cmd *cobra.Command, w io.Writer, id, path string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	raw, err := client.GetFileContent(cmd.Context(), id, path)
	if err != nil {
		return err
	}

	_, err = io.WriteString(w, openhands.StringField(raw, "code"))
	return err
}
