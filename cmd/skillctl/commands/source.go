package commands

import "github.com/openhands/skillctl/cmd/skillctl/commands/source"

func init() {
	rootCmd.AddCommand(source.Cmd)
}
