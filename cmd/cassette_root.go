package cmd

import (
	"github.com/spf13/cobra"

	"vcrm.dev/pkg/vcrm/internal/domain"
)

// cassetteRootCmd represents the root command that stores the cassette root.
var cassetteRootCmd = newCassetteRootCmd()

func newCassetteRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "root [path]",
		Short: "Set the cassette root path",
		Long: `Store the cassette root, relative to the project directory, in vcrm.yaml.

Without an argument the current value is offered for editing. An empty
value disables cassette actions.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var setArgs domain.SetRootArgs
			if len(args) == 1 {
				setArgs.Value = &args[0]
			}

			return workflow.SetRoot(commandContext(cmd), setArgs)
		},
	}
}

func init() {
	rootCmd.AddCommand(cassetteRootCmd)
}
