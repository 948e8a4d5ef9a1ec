package commands

import "github.com/openhands/skillctl/cmd/skillctl/commands/search"

func init() {
	rootCmd.AddCommand(search.Cmd)
}
