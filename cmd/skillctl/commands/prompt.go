package commands

import "github.com/openhands/skillctl/cmd/skillctl/commands/prompt"

func init() {
	rootCmd.AddCommand(prompt.Cmd)
}
