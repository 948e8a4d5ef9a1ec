package plugin

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/openhands/skillctl/cmd/skillctl/commands/flags"
	"github.com/openhands/skillctl/internal/errors"
	"github.com/openhands/skillctl/internal/skill/parser"
)

const instructionsPreviewLength = 400

var (
	showJSON bool
	showFull bool
)

func init() {
	showCmd.Flags().BoolVar(&showJSON, "json", false, "Output as JSON")
	showCmd.Flags().BoolVar(&showFull, "full", false, "Show complete instructions (default truncated)")
	Cmd.AddCommand(showCmd)
}

var showCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Display detailed plugin information",
	Long: `Display one plugin's metadata, hooks, and instructions.

Plugins live in the local registry; use 'skillctl search' to inspect
plugins inside cached sources.`,
	Example: `  # Show a plugin
  skillctl plugin show deploy-guard

  # Show the full instructions body
  skillctl plugin show deploy-guard --full

  # Machine-readable metadata
  skillctl plugin show deploy-guard --json

  See Also:
    skillctl plugin list - List plugins
    skillctl plugin edit - Edit a plugin`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

// showDetail holds plugin information for display.
type showDetail struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Triggers     []string `json:"triggers,omitempty"`
	License      string   `json:"license,omitempty"`
	Version      string   `json:"version,omitempty"`
	Hooks        []string `json:"hooks,omitempty"`
	Path         string   `json:"path"`
	Instructions string   `json:"instructions,omitempty"`
}

func runShow(_ *cobra.Command, args []string) error {
	return runShowWithWriter(os.Stdout, flags.RegistryRoot(), args[0])
}

// runShowWithWriter allows injecting a writer for testing.
func runShowWithWriter(w io.Writer, root, name string) error {
	entry, err := findLocal(root, name)
	if err != nil {
		return err
	}

	doc, err := parser.New().ParseFile(entry.DocPath())
	if err != nil {
		return errors.Wrapf(err, "parsing %s", entry.DocPath())
	}

	detail := &showDetail{
		Name:         doc.Name,
		Description:  doc.Description,
		Triggers:     doc.Triggers,
		License:      doc.License,
		Version:      doc.Version,
		Hooks:        listHooks(entry),
		Path:         entry.DocPath(),
		Instructions: strings.TrimSpace(doc.Instructions),
	}

	if !showFull && len(detail.Instructions) > instructionsPreviewLength {
		detail.Instructions = detail.Instructions[:instructionsPreviewLength]
	}

	if showJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(detail), "encoding output")
	}
	return outputShowText(w, detail)
}

func outputShowText(w io.Writer, detail *showDetail) error {
	fmt.Fprintf(w, "Plugin: %s\n", detail.Name)
	fmt.Fprintf(w, "Description: %s\n", detail.Description)

	if len(detail.Triggers) > 0 {
		fmt.Fprintf(w, "Triggers: %s\n", strings.Join(detail.Triggers, ", "))
	}
	if detail.License != "" {
		fmt.Fprintf(w, "License: %s\n", detail.License)
	}
	if detail.Version != "" {
		fmt.Fprintf(w, "Version: %s\n", detail.Version)
	}
	fmt.Fprintf(w, "Path: %s\n", detail.Path)

	if len(detail.Hooks) > 0 {
		fmt.Fprintln(w, "\nHooks:")
		for _, h := range detail.Hooks {
			fmt.Fprintf(w, "  - hooks/%s\n", h)
		}
	}

	if detail.Instructions != "" {
		fmt.Fprintln(w, "\nInstructions:")
		for _, line := range strings.Split(detail.Instructions, "\n") {
			fmt.Fprintf(w, "  %s\n", line)
		}
		if !showFull && len(detail.Instructions) == instructionsPreviewLength {
			fmt.Fprintln(w, "  [truncated, use --full for complete output]")
		}
	}

	return nil
}
