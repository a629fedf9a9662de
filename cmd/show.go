package cmd

import (
	"github.com/spf13/cobra"

	"vcrm.dev/pkg/vcrm/internal/domain"
)

// showCmd represents the show command.
var showCmd = newShowCmd()

func newShowCmd() *cobra.Command {
	return fixtureCommand("show [fixture]", "Show a cassette read-only", func(cmd *cobra.Command, args domain.FixtureArgs) error {
		return workflow.Show(commandContext(cmd), args)
	})
}

func init() {
	rootCmd.AddCommand(showCmd)
}
