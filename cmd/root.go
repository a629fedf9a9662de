// Package cmd provides the root command and CLI setup for vcrm.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"vcrm.dev/pkg/vcrm/internal/adapter"
	"vcrm.dev/pkg/vcrm/internal/controller"
	"vcrm.dev/pkg/vcrm/internal/domain"
	m "vcrm.dev/pkg/vcrm/internal/model"
)

var fsAdapter adapter.SourceFSAdapter
var configStore adapter.ConfigStore
var fileWatcher adapter.FileWatcher
var rootResolver domain.RootResolver
var scanner domain.Scanner
var workflow domain.Workflow
var ui controller.UI

// excludePatterns is a root-level flag that filters files for applicable commands.
var excludePatterns []string

// projectRoots are the directories searched for the project marker.
var projectRoots []string

var markerFlag string
var logFileFlag string
var verboseFlag bool

func init() {
	configureRootFlags(rootCmd)

	// Initialize shared dependencies.
	ui = controller.NewUI(rootCmd, controller.IsTTY(os.Stdout))
	fsAdapter = adapter.NewLocalSourceFSAdapter()
	configStore = adapter.NewViperConfigStore(viper.GetViper(), configFilePath())
	fileWatcher = adapter.NewFSNotifyWatcher()
	rootResolver = domain.NewRootResolver(fsAdapter, configStore)
	scanner = domain.NewScanner()
	workflow = domain.NewWorkflow(
		fsAdapter,
		configStore,
		fileWatcher,
		ui,
		rootResolver,
		scanner,
	)
}

const pathPatternsHelp = `Supports path patterns:
  - ./...            recursively scan current directory
  - ./tests/...      recursively scan the tests directory
  - ./tests/test_a.py scan a single file`

const rootLongDescription = `vcrm finds pytest-recording and vcrpy cassette decorators in Python test
files and lets you show or delete the YAML cassette each decorated test
replays, without hunting for it on disk.

` + pathPatternsHelp

const lensLongDescription = `List every cassette decorator with its show and delete actions.

Actions are only produced once a cassette root is configured
(see "vcrm root").

` + pathPatternsHelp

const watchLongDescription = `List cassette actions, then rescan each Python file as it changes.

` + pathPatternsHelp

const fixtureArgsHelp = `The cassette is named either by its fixture path relative to the cassette
root (e.g. test_api/test_get.yaml) or with --at FILE:LINE pointing at a
decorated test.`

// rootCmd represents the base command when called without any subcommands.
var rootCmd = baseRootCmd()

func baseRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "vcrm",
		Short: "VCR cassette manager for Python tests",
		Long:  rootLongDescription,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			configureLogger(viper.GetString(logFilenameKey), viper.GetBool(logVerboseKey))

			return configReadErr
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
}

func newRootCmd() *cobra.Command {
	cmd := baseRootCmd()
	configureRootFlags(cmd)

	return cmd
}

func configureRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringArrayVarP(&excludePatterns, excludeFlagName, "x", viper.GetStringSlice(excludeConfigKey), "exclude files matching regex (can be repeated)")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(excludeFlagName), excludeConfigKey)

	cmd.PersistentFlags().StringArrayVar(&projectRoots, projectRootFlagName, viper.GetStringSlice(projectRootsConfigKey), "directory searched for the project marker (can be repeated)")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(projectRootFlagName), projectRootsConfigKey)

	cmd.PersistentFlags().StringVar(&markerFlag, markerFlagName, viper.GetString(markerConfigKey), "file that marks the project directory")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(markerFlagName), markerConfigKey)

	cmd.PersistentFlags().StringVar(&logFileFlag, logFlagName, viper.GetString(logFilenameKey), "log file path")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(logFlagName), logFilenameKey)

	cmd.PersistentFlags().BoolVarP(&verboseFlag, verboseFlagName, "v", viper.GetBool(logVerboseKey), "log at debug level")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(verboseFlagName), logVerboseKey)
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func parsePaths(args []string) []m.Path {
	paths := make([]m.Path, 0, len(args))
	for _, arg := range args {
		paths = append(paths, m.Path(arg))
	}

	return paths
}

// configuredRoots returns the project roots from flags, config or env.
func configuredRoots() []m.Path {
	return parsePaths(viper.GetStringSlice(projectRootsConfigKey))
}

// commandContext returns the command context, or Background when the
// command was executed without one.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}

	return context.Background()
}
