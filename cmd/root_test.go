package cmd

import (
	"bytes"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	m "vcrm.dev/pkg/vcrm/internal/model"
)

func TestParsePaths(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []m.Path
	}{
		{"empty", []string{}, []m.Path{}},
		{"recursive", []string{"./..."}, []m.Path{"./..."}},
		{
			"mixed patterns and files",
			[]string{"./shop/tests/...", "conftest.py"},
			[]m.Path{"./shop/tests/...", "conftest.py"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parsePaths(tt.args))
		})
	}
}

func TestRootCmd_PersistentFlags(t *testing.T) {
	cmd := newRootCmd()

	tests := []struct {
		name      string
		shorthand string
		kind      string
	}{
		{excludeFlagName, "x", "stringArray"},
		{projectRootFlagName, "", "stringArray"},
		{markerFlagName, "", "string"},
		{logFlagName, "", "string"},
		{verboseFlagName, "v", "bool"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag := cmd.PersistentFlags().Lookup(tt.name)
			require.NotNil(t, flag)
			assert.Equal(t, tt.shorthand, flag.Shorthand)
			assert.Equal(t, tt.kind, flag.Value.Type())
		})
	}
}

// captureProjectSettings runs the root command with a subcommand that
// records the project roots and marker it sees.
func captureProjectSettings(t *testing.T, args ...string) ([]m.Path, string) {
	t.Helper()

	var roots []m.Path

	var marker string

	cmd := newRootCmd()
	cmd.AddCommand(&cobra.Command{
		Use: "settings",
		RunE: func(*cobra.Command, []string) error {
			roots = configuredRoots()
			marker = viper.GetString(markerConfigKey)

			return nil
		},
	})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append([]string{"settings", "--log", filepath.Join(t.TempDir(), "vcrm.log")}, args...))

	require.NoError(t, cmd.Execute())

	return roots, marker
}

func TestRootCmd_ProjectDefaults(t *testing.T) {
	roots, marker := captureProjectSettings(t)

	assert.Equal(t, []m.Path{"."}, roots)
	assert.Equal(t, "manage.py", marker)
}

func TestRootCmd_ProjectFlags(t *testing.T) {
	roots, marker := captureProjectSettings(t, "--project-root", "backend", "--project-root", "services", "--marker", "pyproject.toml")

	assert.Equal(t, []m.Path{"backend", "services"}, roots)
	assert.Equal(t, "pyproject.toml", marker)
}

func TestRootCmd_ProjectEnv(t *testing.T) {
	t.Setenv("VCRM_PROJECT_ROOTS", "backend services")
	t.Setenv("VCRM_PROJECT_MARKER", "setup.cfg")

	roots, marker := captureProjectSettings(t)

	assert.Equal(t, []m.Path{"backend", "services"}, roots)
	assert.Equal(t, "setup.cfg", marker)
}

func TestRootCmd_ConfigReadErrorStopsCommands(t *testing.T) {
	errBroken := errors.New("broken vcrm.yaml")

	original := configReadErr
	configReadErr = errBroken

	t.Cleanup(func() { configReadErr = original })

	withMockWorkflow(t)

	_, err := executeSubcommand(t, newLensCmd(), "lens")
	require.ErrorIs(t, err, errBroken)
}

func TestRootCmd_HelpListsCommands(t *testing.T) {
	cmd := newRootCmd()
	cmd.AddCommand(newLensCmd(), newShowCmd(), newDeleteCmd(), newCassetteRootCmd(), newWatchCmd())

	output := &bytes.Buffer{}
	cmd.SetOut(output)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--log", filepath.Join(t.TempDir(), "vcrm.log")})

	require.NoError(t, cmd.Execute())

	for _, want := range []string{"lens", "show", "delete", "root", "watch", "--project-root", "--marker", "Supports path patterns"} {
		assert.Contains(t, output.String(), want)
	}
}

func TestInit(t *testing.T) {
	assert.NotNil(t, ui)
	assert.NotNil(t, fsAdapter)
	assert.NotNil(t, configStore)
	assert.NotNil(t, fileWatcher)
	assert.NotNil(t, rootResolver)
	assert.NotNil(t, scanner)
	assert.NotNil(t, workflow)
}

// runExecuteSubprocess re-runs the test binary so Execute can call os.Exit.
func runExecuteSubprocess(t *testing.T, testName string, args ...string) ([]byte, error) {
	t.Helper()

	cmd := exec.Command(os.Args[0], "-test.run=^"+testName+"$")
	cmd.Env = append(os.Environ(),
		"VCRM_EXECUTE_ARGS_SET=1",
		"VCRM_EXECUTE_LOG="+filepath.Join(t.TempDir(), "vcrm.log"),
	)

	for i, arg := range args {
		cmd.Env = append(cmd.Env, "VCRM_EXECUTE_ARG"+strconv.Itoa(i)+"="+arg)
	}

	return cmd.CombinedOutput()
}

func executeFromEnv() {
	var args []string

	for i := 0; ; i++ {
		arg, ok := os.LookupEnv("VCRM_EXECUTE_ARG" + strconv.Itoa(i))
		if !ok {
			break
		}

		args = append(args, arg)
	}

	rootCmd.SetArgs(append(args, "--log", os.Getenv("VCRM_EXECUTE_LOG")))
	Execute()
}

func TestExecute_Version(t *testing.T) {
	if os.Getenv("VCRM_EXECUTE_ARGS_SET") == "1" {
		executeFromEnv()
		return
	}

	output, err := runExecuteSubprocess(t, "TestExecute_Version", "version")

	require.NoError(t, err, "output: %s", output)
	assert.Contains(t, string(output), "vcrm version")
}

func TestExecute_ShowWithoutFixtureExitsNonZero(t *testing.T) {
	if os.Getenv("VCRM_EXECUTE_ARGS_SET") == "1" {
		executeFromEnv()
		return
	}

	output, err := runExecuteSubprocess(t, "TestExecute_ShowWithoutFixtureExitsNonZero", "show")

	var exitErr *exec.ExitError
	require.ErrorAs(t, err, &exitErr, "output: %s", output)
	assert.Equal(t, 1, exitErr.ExitCode())
	assert.Contains(t, string(output), errFixtureRequired.Error())
}
