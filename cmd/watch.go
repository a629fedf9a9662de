package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"vcrm.dev/pkg/vcrm/internal/domain"
)

var watchDebounceFlag string

// watchCmd represents the watch command.
var watchCmd = newWatchCmd()

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [paths...]",
		Short: "List cassette actions and refresh them as files change",
		Long:  watchLongDescription,
		RunE: func(cmd *cobra.Command, args []string) error {
			bindLensFlags(cmd)

			ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return workflow.Watch(ctx, domain.WatchArgs{
				LensArgs: lensArgs(args),
				Debounce: parseDebounce(viper.GetString(debounceConfigKey)),
			})
		},
	}

	configureLensFlags(cmd)

	cmd.Flags().StringVar(&watchDebounceFlag, debounceFlagName, viper.GetString(debounceConfigKey), "quiet period before a changed file is rescanned")
	bindFlagToConfig(cmd.Flags().Lookup(debounceFlagName), debounceConfigKey)

	return cmd
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
