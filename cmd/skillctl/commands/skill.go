package commands

import "github.com/openhands/skillctl/cmd/skillctl/commands/skill"

func init() {
	rootCmd.AddCommand(skill.Cmd)
}
