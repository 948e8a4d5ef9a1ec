package commands

import "github.com/openhands/skillctl/cmd/skillctl/commands/cloud"

func init() {
	rootCmd.AddCommand(cloud.Cmd)
}
