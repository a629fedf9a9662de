package controller

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
	m "vcrm.dev/pkg/vcrm/internal/model"
)

// SimpleUI implements UI using cobra Command's output and input streams.
type SimpleUI struct {
	cmd *cobra.Command
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd}
}

// DisplayLenses prints one row per action, or YAML.
func (s *SimpleUI) DisplayLenses(ctx context.Context, lenses []m.FileLens, format Format) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if format == FormatYAML {
		out, err := renderLensesYAML(lenses)
		if err != nil {
			return err
		}

		s.printf("%s", out)

		return nil
	}

	if countActions(lenses) == 0 {
		return nil
	}

	s.printf("\n%s", renderLensTable(lenses))

	return nil
}

// lensDocument is the YAML shape of one file's actions.
type lensDocument struct {
	Source  m.Path     `yaml:"source"`
	Actions []m.Action `yaml:"actions"`
}

func renderLensesYAML(lenses []m.FileLens) (string, error) {
	docs := make([]lensDocument, 0, len(lenses))

	for _, lens := range lenses {
		if len(lens.Actions) == 0 {
			continue
		}

		docs = append(docs, lensDocument{Source: lens.Source.Path, Actions: lens.Actions})
	}

	if len(docs) == 0 {
		return "", nil
	}

	var buf bytes.Buffer

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)

	if err := enc.Encode(docs); err != nil {
		return "", fmt.Errorf("encode yaml: %w", err)
	}

	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("encode yaml: %w", err)
	}

	return buf.String(), nil
}

func renderLensTable(lenses []m.FileLens) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Location", "Function", "Action", "Cassette"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT,
	})

	files := 0

	for _, lens := range lenses {
		if len(lens.Actions) == 0 {
			continue
		}

		files++

		for _, action := range lens.Actions {
			table.Append([]string{
				location(action),
				action.Reference.FunctionName,
				action.Title,
				action.Reference.FixturePath,
			})
		}
	}

	table.SetFooter([]string{
		fmt.Sprintf("Total Files %d", files),
		"",
		"",
		fmt.Sprintf("%d actions", countActions(lenses)),
	})

	table.Render()

	return tableBuffer.String()
}

// location renders the decorator position with a 1-based line number.
func location(action m.Action) string {
	return fmt.Sprintf("%s:%d", action.Source, action.Reference.AnchorLine+1)
}

func countActions(lenses []m.FileLens) int {
	total := 0
	for _, lens := range lenses {
		total += len(lens.Actions)
	}

	return total
}

// DisplayFixture prints the cassette contents.
func (s *SimpleUI) DisplayFixture(ctx context.Context, path m.Path, content []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.printf("# %s\n", path)
	s.printf("%s", content)

	if len(content) > 0 && !bytes.HasSuffix(content, []byte("\n")) {
		s.printf("\n")
	}

	return nil
}

// DisplayInfo prints message on stdout.
func (s *SimpleUI) DisplayInfo(ctx context.Context, message string) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("%s\n", message)
}

// DisplayError prints message on stderr.
func (s *SimpleUI) DisplayError(ctx context.Context, message string) {
	if err := ctx.Err(); err != nil {
		return
	}

	_, _ = fmt.Fprintf(s.cmd.ErrOrStderr(), "%s\n", message)
}

// clearToken entered at the prompt stores an empty value.
const clearToken = "-"

// Prompt reads one line. An empty line keeps initial and clearToken clears
// it; end of input without a line dismisses the prompt.
func (s *SimpleUI) Prompt(ctx context.Context, prompt, initial string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}

	if initial != "" {
		s.printf("%s [%s, %q to clear]: ", prompt, initial, clearToken)
	} else {
		s.printf("%s: ", prompt)
	}

	line, err := bufio.NewReader(s.cmd.InOrStdin()).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", false, err
	}

	if errors.Is(err, io.EOF) && line == "" {
		return "", false, nil
	}

	value := strings.TrimRight(line, "\r\n")
	switch strings.TrimSpace(value) {
	case "":
		return initial, true, nil
	case clearToken:
		return "", true, nil
	}

	return value, true, nil
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}
