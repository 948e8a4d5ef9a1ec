package commands

import "github.com/openhands/skillctl/cmd/skillctl/commands/notify"

func init() {
	rootCmd.AddCommand(notify.Cmd)
}
