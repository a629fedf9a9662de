package cmd

import (
	"errors"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"vcrm.dev/pkg/vcrm/internal/domain"
	m "vcrm.dev/pkg/vcrm/internal/model"
)

var errFixtureRequired = errors.New("a fixture path or --at FILE:LINE is required")

// fixtureFlags are the inline action parameters shared by show and delete.
type fixtureFlags struct {
	at           string
	cassetteRoot string
	projectDir   string
}

func (f *fixtureFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.at, atFlagName, "", "locate the cassette from a decorated test at FILE:LINE")
	cmd.Flags().StringVar(&f.cassetteRoot, cassetteRootFlagName, "", "cassette root relative to the project directory (default: configured root)")
	cmd.Flags().StringVar(&f.projectDir, projectDirFlagName, "", "project directory (default: directory holding the project marker)")
}

func (f *fixtureFlags) args(args []string) (domain.FixtureArgs, error) {
	fixture := ""
	if len(args) > 0 {
		fixture = args[0]
	}

	if fixture == "" && f.at == "" {
		return domain.FixtureArgs{}, errFixtureRequired
	}

	return domain.FixtureArgs{
		Fixture:      fixture,
		At:           f.at,
		CassetteRoot: f.cassetteRoot,
		ProjectDir:   m.Path(f.projectDir),
		Roots:        configuredRoots(),
		Marker:       viper.GetString(markerConfigKey),
	}, nil
}

// fixtureCommand builds a show/delete style command around run.
func fixtureCommand(use, short string, run func(cmd *cobra.Command, args domain.FixtureArgs) error) *cobra.Command {
	flags := &fixtureFlags{}

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Long:  short + ".\n\n" + fixtureArgsHelp,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fixtureArgs, err := flags.args(args)
			if err != nil {
				return err
			}

			// Failures past this point were already shown to the user.
			cmd.SilenceUsage = true
			cmd.SilenceErrors = true

			return run(cmd, fixtureArgs)
		},
	}

	flags.register(cmd)

	return cmd
}
