package commands

import "github.com/openhands/skillctl/cmd/skillctl/commands/runs"

func init() {
	rootCmd.AddCommand(runs.Cmd)
}
