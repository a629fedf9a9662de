package cmd

import (
	"github.com/spf13/cobra"

	"vcrm.dev/pkg/vcrm/internal/domain"
)

// deleteCmd represents the delete command.
var deleteCmd = newDeleteCmd()

func newDeleteCmd() *cobra.Command {
	return fixtureCommand("delete [fixture]", "Delete a cassette file", func(cmd *cobra.Command, args domain.FixtureArgs) error {
		return workflow.Delete(commandContext(cmd), args)
	})
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
