package cloud

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"

	v1 "github.com/openhands/skillctl/pkg/openhands/v1"
)

var (
	sandboxListLimit int
	sandboxListJSON  bool
	sandboxSpecsJSON bool
)

func init() {
	sandboxListCmd.Flags().IntVar(&sandboxListLimit, "limit", v1.DefaultSearchLimit, "maximum sandboxes to fetch")
	sandboxListCmd.Flags().BoolVar(&sandboxListJSON, "json", false, "print the raw API response")
	sandboxSpecsCmd.Flags().BoolVar(&sandboxSpecsJSON, "json", false, "print the raw API response")

	sandboxCmd.AddCommand(sandboxListCmd)
	sandboxCmd.AddCommand(sandboxPauseCmd)
	sandboxCmd.AddCommand(sandboxResumeCmd)
	sandboxCmd.AddCommand(sandboxSpecsCmd)
	Cmd.AddCommand(sandboxCmd)
}

var sandboxCmd = &cobra.Command{
	Use:   "sandbox",
	Short: "Manage sandboxes",
	Long: `Manage the sandboxes backing cloud conversations.

Paused sandboxes stop billing compute but keep their state; resume
brings one back without losing the conversation.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var sandboxListCmd = &cobra.Command{
	Use:   "list",
	Short: "List sandboxes",
	Example: `  skillctl cloud sandbox list
  skillctl cloud sandbox list --limit 50 --json`,
	Args: cobra.NoArgs,
	RunE: runSandboxList,
}

var sandboxPauseCmd = &cobra.Command{
	Use:   "pause <sandbox-id>",
	Short: "Pause a sandbox",
	Args:  cobra.ExactArgs(1),
	RunE:  runSandboxPause,
}

var sandboxResumeCmd = &cobra.Command{
	Use:   "resume <sandbox-id>",
	Short: "Resume a paused sandbox",
	Args:  cobra.ExactArgs(1),
	RunE:  runSandboxResume,
}

var sandboxSpecsCmd = &cobra.Command{
	Use:   "specs",
	Short: "List available sandbox specs",
	Args:  cobra.NoArgs,
	RunE:  runSandboxSpecs,
}

func runSandboxList(cmd *cobra.Command, _ []string) error {
	return runSandboxListWithWriter(cmd, os.Stdout)
}

// runSandboxListWithWriter allows injecting a writer for testing.
func runSandboxListWithWriter(cmd *cobra.Command, w io.Writer) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	raw, err := client.SearchSandboxes(cmd.Context(), sandboxListLimit)
	if err != nil {
		return err
	}

	if sandboxListJSON {
		return printRaw(w, raw)
	}

	items := gjson.GetBytes(raw, "items").Array()
	if len(items) == 0 && gjson.ParseBytes(raw).IsArray() {
		items = gjson.ParseBytes(raw).Array()
	}
	if len(items) == 0 {
		fmt.Fprintln(w, "No sandboxes.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTATUS\tSPEC")
	for _, item := range items {
		fmt.Fprintf(tw, "%s\t%s\t%s\n",
			item.Get("id").String(),
			item.Get("status").String(),
			item.Get("sandbox_spec_id").String(),
		)
	}
	return tw.Flush()
}

func runSandboxPause(cmd *cobra.Command, args []string) error {
	return runSandboxPauseWithWriter(cmd, os.Stdout, args[0])
}

func runSandboxPauseWithWriter(cmd *cobra.Command, w io.Writer, id string) error {
	client, err := newClient()
	if err != nil {
		return err
	}
	if _, err := client.PauseSandbox(cmd.Context(), id); err != nil {
		return err
	}
	fmt.Fprintf(w, "Sandbox %s paused.\n", id)
	return nil
}

func runSandboxResume(cmd *cobra.Command, args []string) error {
	return runSandboxResumeWithWriter(cmd, os.Stdout, args[0])
}

func runSandboxResumeWithWriter(cmd *cobra.Command, w io.Writer, id string) error {
	client, err := newClient()
	if err != nil {
		return err
	}
	if _, err := client.ResumeSandbox(cmd.Context(), id); err != nil {
		return err
	}
	fmt.Fprintf(w, "Sandbox %s resuming.\n", id)
	return nil
}

func runSandboxSpecs(cmd *cobra.Command, _ []string) error {
	return runSandboxSpecsWithWriter(cmd, os.Stdout)
}

func runSandboxSpecsWithWriter(cmd *cobra.Command, w io.Writer) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	raw, err := client.SearchSandboxSpecs(cmd.Context(), v1.DefaultSearchLimit)
	if err != nil {
		return err
	}

	if sandboxSpecsJSON {
		return printRaw(w, raw)
	}

	items := gjson.GetBytes(raw, "items").Array()
	if len(items) == 0 && gjson.ParseBytes(raw).IsArray() {
		items = gjson.ParseBytes(raw).Array()
	}
	if len(items) == 0 {
		fmt.Fprintln(w, "No sandbox specs.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCPU\tMEMORY")
	for _, item := range items {
		fmt.Fprintf(tw, "%s\t%s\t%s\n",
			item.Get("id").String(),
			item.Get("cpu").String(),
			item.Get("memory").String(),
		)
	}
	return tw.Flush()
}
