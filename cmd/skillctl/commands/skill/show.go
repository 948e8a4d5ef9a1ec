package skill

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/openhands/skillctl/cmd/skillctl/commands/flags"
	cliprompt "github.com/openhands/skillctl/internal/cli/prompt"
	"github.com/openhands/skillctl/internal/errors"
	"github.com/openhands/skillctl/internal/registry"
	"github.com/openhands/skillctl/internal/skill/parser"
)

const instructionsPreviewLength = 400

var (
	showJSON   bool
	showFull   bool
	showSource string
)

func init() {
	showCmd.Flags().BoolVar(&showJSON, "json", false, "Output as JSON")
	showCmd.Flags().BoolVar(&showFull, "full", false, "Show complete instructions (default truncated)")
	showCmd.Flags().StringVar(&showSource, "source", "", "Look up the skill in a specific source")
	Cmd.AddCommand(showCmd)
}

var showCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Display detailed skill information",
	Long: `Display one skill's metadata and instructions.

The local registry is searched first, then every cached source
collection. When the name exists in several places you pick one,
or pin it down with --source.`,
	Example: `  # Show a skill from the local registry
  skillctl skill show git-helper

  # Show the full instructions body
  skillctl skill show git-helper --full

  # Show a skill from a specific source
  skillctl skill show code-review --source community

  # Machine-readable metadata
  skillctl skill show git-helper --json

  See Also:
    skillctl skill list     - List skills
    skillctl skill edit     - Edit a skill`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

// showDetail holds skill information for display.
type showDetail struct {
	Name         string            `json:"name"`
	Description  string            `json:"description"`
	Triggers     []string          `json:"triggers,omitempty"`
	License      string            `json:"license,omitempty"`
	Version      string            `json:"version,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty"`
	Source       string            `json:"source,omitempty"`
	Path         string            `json:"path"`
	Instructions string            `json:"instructions,omitempty"`
}

func runShow(_ *cobra.Command, args []string) error {
	return runShowWithWriter(os.Stdout, flags.RegistryRoot(), args[0])
}

// runShowWithWriter allows injecting a writer for testing.
func runShowWithWriter(w io.Writer, root, name string) error {
	entry, err := resolveEntry(root, name)
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
		Metadata:     doc.Metadata,
		Source:       entry.Source,
		Path:         entry.DocPath(),
		Instructions: strings.TrimSpace(doc.Instructions),
	}

	if !showFull && len(detail.Instructions) > instructionsPreviewLength {
		detail.Instructions = detail.Instructions[:instructionsPreviewLength]
	}

	if showJSON {
		return outputShowJSON(w, detail)
	}
	return outputShowText(w, detail)
}

// resolveEntry finds the named skill locally, in one source, or across
// all sources, prompting when the name is ambiguous.
func resolveEntry(root, name string) (*registry.Entry, error) {
	if showSource != "" {
		entry, err := registry.FindInSource(name, registry.KindSkill, showSource)
		if err != nil {
			return nil, errors.Wrapf(err, "searching source %s", showSource)
		}
		if entry == nil {
			return nil, errors.Newf("skill %q not found in source %s", name, showSource)
		}
		return entry, nil
	}

	if entry, err := findLocal(root, name); err == nil {
		return entry, nil
	} else if !errors.Is(err, registry.ErrEntryNotFound) {
		return nil, err
	}

	matches, err := registry.FindByName(name, registry.KindSkill)
	if err != nil {
		if errors.Is(err, registry.ErrNoSourcesConfigured) {
			return nil, errors.Newf("skill %q not found in the registry", name)
		}
		return nil, errors.Wrap(err, "searching sources")
	}
	if len(matches) == 0 {
		return nil, errors.Newf("skill %q not found in the registry or any source", name)
	}

	return cliprompt.SelectEntryDefault(name, matches)
}

func outputShowJSON(w io.Writer, detail *showDetail) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(detail), "encoding output")
}

func outputShowText(w io.Writer, detail *showDetail) error {
	fmt.Fprintf(w, "Skill: %s\n", detail.Name)
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
	if detail.Source != "" {
		fmt.Fprintf(w, "Source: %s\n", detail.Source)
	}
	fmt.Fprintf(w, "Path: %s\n", detail.Path)

	if len(detail.Metadata) > 0 {
		fmt.Fprintln(w, "\nMetadata:")
		keys := make([]string, 0, len(detail.Metadata))
		for k := range detail.Metadata {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(w, "  %s: %s\n", k, detail.Metadata[k])
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
