package prompt

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/openhands/skillctl/internal/promptfactor"
)

var analyzeJSON bool

func init() {
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "output the analysis as JSON")
	Cmd.AddCommand(analyzeCmd)
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Decompose a prompt document",
	Long: `Decompose a prompt document into phases and suggest a skill for
each one.

Numbered "Phase N. Title:" blocks are preferred; documents without them
fall back to Markdown section headings. Each identified phase yields a
suggested skill name and classification.`,
	Example: `  skillctl prompt analyze prompts/big-refactor.md

  # Feed the suggestions to tooling
  skillctl prompt analyze prompts/big-refactor.md --json | jq '.suggested_skills[].suggested_skill_name'`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func runAnalyze(_ *cobra.Command, args []string) error {
	return runAnalyzeWithWriter(os.Stdout, args[0])
}

// runAnalyzeWithWriter allows injecting a writer for testing.
func runAnalyzeWithWriter(w io.Writer, path string) error {
	analysis, err := promptfactor.AnalyzeFile(path)
	if err != nil {
		return err
	}

	if analyzeJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(analysis)
	}

	promptfactor.WriteReport(w, analysis)
	if analysis.NumPhases == 0 {
		fmt.Fprintln(w, "\nNo phase structure found. Single-purpose prompts rarely need decomposing.")
	}
	return nil
}
