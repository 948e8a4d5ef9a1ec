package commands

import "github.com/openhands/skillctl/cmd/skillctl/commands/convo"

func init() {
	rootCmd.AddCommand(convo.Cmd)
}
