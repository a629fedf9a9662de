package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"vcrm.dev/pkg/vcrm/internal/controller"
	"vcrm.dev/pkg/vcrm/internal/domain"
)

var lensParallelFlag int
var lensFormatFlag string

// lensCmd represents the lens command.
var lensCmd = newLensCmd()

func newLensCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lens [paths...]",
		Short: "List cassette actions for Python test files",
		Long:  lensLongDescription,
		RunE: func(cmd *cobra.Command, args []string) error {
			bindLensFlags(cmd)

			return workflow.Lens(commandContext(cmd), lensArgs(args))
		},
	}

	configureLensFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(lensCmd)
}

func configureLensFlags(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&lensParallelFlag, lensParallelFlagName, "p", viper.GetInt(lensParallelConfigKey), "number of files scanned in parallel")
	cmd.Flags().StringVarP(&lensFormatFlag, formatFlagName, "f", viper.GetString(formatConfigKey), "output format: table or yaml")
}

// bindLensFlags binds the lens flags of the running command. lens and watch
// share the config keys, so binding happens at run time.
func bindLensFlags(cmd *cobra.Command) {
	bindFlagToConfig(cmd.Flags().Lookup(lensParallelFlagName), lensParallelConfigKey)
	bindFlagToConfig(cmd.Flags().Lookup(formatFlagName), formatConfigKey)
}

func lensArgs(args []string) domain.LensArgs {
	return domain.LensArgs{
		Paths:   parsePaths(args),
		Exclude: viper.GetStringSlice(excludeConfigKey),
		Roots:   configuredRoots(),
		Marker:  viper.GetString(markerConfigKey),
		Threads: viper.GetInt(lensParallelConfigKey),
		Format:  controller.ParseFormat(viper.GetString(formatConfigKey)),
	}
}
