package convo

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"

	"github.com/openhands/skillctl/internal/errors"
	v0 "github.com/openhands/skillctl/pkg/openhands/v0"
)

var (
	listLimit int
	listPage  string
	listRepo  string
	listSubs  bool
	listJSON  bool
)

func init() {
	listCmd.Flags().IntVar(&listLimit, "limit", v0.DefaultListLimit, "page size")
	listCmd.Flags().StringVar(&listPage, "page", "", "page id from a previous listing")
	listCmd.Flags().StringVar(&listRepo, "repo", "", "filter to one repository (owner/repo)")
	listCmd.Flags().BoolVar(&listSubs, "subs", false, "include sub-conversations")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "print the raw API response")
	Cmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List conversations",
	Long: `List conversations, newest first.

Pages are cursor-based: each page carries a next_page_id, which --page
feeds back to continue the listing.`,
	Example: `  # First page
  skillctl convo list

  # Continue from a cursor
  skillctl convo list --page <next_page_id>

  # Conversations touching one repository
  skillctl convo list --repo example/website`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func runList(cmd *cobra.Command, _ []string) error {
	return runListWithWriter(cmd, os.Stdout)
}

// runListWithWriter allows injecting a writer for testing.
func runListWithWriter(cmd *cobra.Command, w io.Writer) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	opts := v0.ListConversationsOptions{
		Limit:              listLimit,
		PageID:             listPage,
		SelectedRepository: listRepo,
	}
	if listSubs {
		include := true
		opts.IncludeSubConversations = &include
	}

	raw, err := client.ListConversations(cmd.Context(), opts)
	if err != nil {
		return err
	}

	if listJSON {
		return printRaw(w, raw)
	}

	results := gjson.GetBytes(raw, "results").Array()
	if len(results) == 0 {
		fmt.Fprintln(w, "No conversations.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "ID\tTITLE\tSTATUS\tREPOSITORY\n")
	for _, res := range results {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			res.Get("conversation_id").String(),
			truncate(res.Get("title").String(), 40),
			res.Get("status").String(),
			res.Get("selected_repository").String())
	}
	if err := tw.Flush(); err != nil {
		return errors.Wrap(err, "flushing tabwriter")
	}

	if next := gjson.GetBytes(raw, "next_page_id").String(); next != "" {
		fmt.Fprintf(w, "\nMore: skillctl convo list --page %s\n", next)
	}
	return nil
}
