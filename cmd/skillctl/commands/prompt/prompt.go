// Package prompt implements the prompt command group: analyzing prompt
// documents for structure worth extracting into skills.
package prompt

import (
	"github.com/spf13/cobra"
)

// Cmd is the root prompt command.
var Cmd = &cobra.Command{
	Use:   "prompt",
	Short: "Work with prompt documents",
	Long: `Work with prompt documents.

A prompt that has grown phases and sections is usually several skills
in a trench coat; 'prompt analyze' finds the seams.`,
	Example: `  skillctl prompt analyze prompts/big-refactor.md

  See Also:
    skillctl skill init - Scaffold the skills the analysis suggests`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}
