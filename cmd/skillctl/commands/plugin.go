package commands

import "github.com/openhands/skillctl/cmd/skillctl/commands/plugin"

func init() {
	rootCmd.AddCommand(plugin.Cmd)
}
