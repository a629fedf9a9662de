package controller

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"
	m "vcrm.dev/pkg/vcrm/internal/model"
)

var (
	fileStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	lineStyle     = lipgloss.NewStyle().Faint(true)
	cassetteStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	actionStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("13"))
	titleStyle    = lipgloss.NewStyle().Bold(true).Reverse(true).Padding(0, 1)
	helpStyle     = lipgloss.NewStyle().Faint(true)
	infoStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
)

// pagerChrome is the number of lines used by the pager header and footer.
const pagerChrome = 2

// TUI implements UI using Bubble Tea for interactive display.
type TUI struct {
	cmd *cobra.Command
}

// NewTUI creates a new TUI.
func NewTUI(cmd *cobra.Command) *TUI {
	return &TUI{cmd: cmd}
}

func (t *TUI) output() io.Writer {
	return t.cmd.OutOrStdout()
}

// terminalSize returns the size of the output terminal, or zeros.
func (t *TUI) terminalSize() (int, int) {
	f, ok := t.output().(*os.File)
	if !ok {
		return 0, 0
	}

	width, height, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0, 0
	}

	return width, height
}

// DisplayLenses renders a styled listing of the actions grouped per decorator.
func (t *TUI) DisplayLenses(ctx context.Context, lenses []m.FileLens, format Format) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if format == FormatYAML {
		out, err := renderLensesYAML(lenses)
		if err != nil {
			return err
		}

		_, err = fmt.Fprint(t.output(), out)

		return err
	}

	_, err := fmt.Fprint(t.output(), renderLensList(lenses))

	return err
}

func renderLensList(lenses []m.FileLens) string {
	var b strings.Builder

	for _, lens := range lenses {
		if len(lens.Actions) == 0 {
			continue
		}

		b.WriteString(fileStyle.Render(string(lens.Source.Path)))
		b.WriteString("\n")

		for _, group := range groupByAnchor(lens.Actions) {
			ref := group[0].Reference

			titles := make([]string, 0, len(group))
			for _, action := range group {
				titles = append(titles, actionStyle.Render("["+action.Title+"]"))
			}

			fmt.Fprintf(&b, "  %s %s → %s  %s\n",
				lineStyle.Render(fmt.Sprintf("L%d", ref.AnchorLine+1)),
				ref.FunctionName,
				cassetteStyle.Render(ref.FixturePath),
				strings.Join(titles, " "))
		}
	}

	return b.String()
}

// groupByAnchor splits consecutive actions that share a decorator line.
func groupByAnchor(actions []m.Action) [][]m.Action {
	var groups [][]m.Action

	for _, action := range actions {
		last := len(groups) - 1
		if last >= 0 && groups[last][0].Reference.AnchorLine == action.Reference.AnchorLine {
			groups[last] = append(groups[last], action)
			continue
		}

		groups = append(groups, []m.Action{action})
	}

	return groups
}

// DisplayFixture prints short cassettes and pages long ones.
func (t *TUI) DisplayFixture(ctx context.Context, path m.Path, content []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	width, height := t.terminalSize()

	lines := bytes.Count(content, []byte("\n")) + 1
	if height == 0 || lines+pagerChrome <= height {
		_, err := fmt.Fprintf(t.output(), "%s\n%s", titleStyle.Render(string(path)), content)
		if err == nil && len(content) > 0 && !bytes.HasSuffix(content, []byte("\n")) {
			_, err = fmt.Fprintln(t.output())
		}

		return err
	}

	model := newPagerModel(string(path), string(content), width, height)

	program := tea.NewProgram(model,
		tea.WithContext(ctx),
		tea.WithInput(t.cmd.InOrStdin()),
		tea.WithOutput(t.output()),
		tea.WithAltScreen(),
	)
	if _, err := program.Run(); err != nil {
		return err
	}

	return nil
}

// DisplayInfo prints a styled confirmation.
func (t *TUI) DisplayInfo(ctx context.Context, message string) {
	if err := ctx.Err(); err != nil {
		return
	}

	_, _ = fmt.Fprintln(t.output(), infoStyle.Render(message))
}

// DisplayError prints a styled error on stderr.
func (t *TUI) DisplayError(ctx context.Context, message string) {
	if err := ctx.Err(); err != nil {
		return
	}

	_, _ = fmt.Fprintln(t.cmd.ErrOrStderr(), errorStyle.Render(message))
}

// Prompt runs a text input pre-filled with initial.
func (t *TUI) Prompt(ctx context.Context, prompt, initial string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}

	program := tea.NewProgram(newPromptModel(prompt, initial),
		tea.WithContext(ctx),
		tea.WithInput(t.cmd.InOrStdin()),
		tea.WithOutput(t.output()),
	)

	final, err := program.Run()
	if err != nil {
		return "", false, err
	}

	result, ok := final.(promptModel)
	if !ok || result.cancelled {
		return "", false, nil
	}

	return result.input.Value(), true, nil
}

// pagerModel shows a cassette in a scrollable read-only viewport.
type pagerModel struct {
	title    string
	viewport viewport.Model
}

func newPagerModel(title, content string, width, height int) pagerModel {
	vp := viewport.New(width, height-pagerChrome)
	vp.SetContent(content)

	return pagerModel{title: title, viewport: vp}
}

func (pm pagerModel) Init() tea.Cmd {
	return nil
}

func (pm pagerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		pm.viewport.Width = msg.Width
		pm.viewport.Height = msg.Height - pagerChrome

		return pm, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return pm, tea.Quit
		}
	}

	var cmd tea.Cmd
	pm.viewport, cmd = pm.viewport.Update(msg)

	return pm, cmd
}

func (pm pagerModel) View() string {
	footer := helpStyle.Render(fmt.Sprintf("%3.f%% | ↑/k ↓/j pgup pgdown | q: quit", pm.viewport.ScrollPercent()*100))

	return titleStyle.Render(pm.title) + "\n" + pm.viewport.View() + "\n" + footer
}

// promptModel asks for one line of text.
type promptModel struct {
	label     string
	input     textinput.Model
	cancelled bool
}

func newPromptModel(label, initial string) promptModel {
	input := textinput.New()
	input.SetValue(initial)
	input.CursorEnd()
	input.Focus()

	return promptModel{label: label, input: input}
}

func (pm promptModel) Init() tea.Cmd {
	return textinput.Blink
}

func (pm promptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyEnter:
			return pm, tea.Quit
		case tea.KeyEsc, tea.KeyCtrlC:
			pm.cancelled = true
			return pm, tea.Quit
		default:
		}
	}

	var cmd tea.Cmd
	pm.input, cmd = pm.input.Update(msg)

	return pm, cmd
}

func (pm promptModel) View() string {
	return pm.label + "\n" + pm.input.View() + "\n" + helpStyle.Render("enter: save | esc: cancel") + "\n"
}
