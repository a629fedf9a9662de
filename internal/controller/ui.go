// Package controller provides output adapters for displaying cassette actions
// and cassette contents.
package controller

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"
	m "vcrm.dev/pkg/vcrm/internal/model"
)

// Format selects how lenses are rendered.
type Format string

// Available Format values.
const (
	FormatTable Format = "table"
	FormatYAML  Format = "yaml"
)

// ParseFormat maps a flag value to a Format, defaulting to FormatTable.
func ParseFormat(value string) Format {
	switch Format(value) {
	case FormatYAML:
		return FormatYAML
	default:
		return FormatTable
	}
}

// UI defines how the workflow talks to the user.
// Implementations can use different output methods (simple text, TUI, etc).
type UI interface {
	// DisplayLenses shows the actions found for each scanned file.
	DisplayLenses(ctx context.Context, lenses []m.FileLens, format Format) error
	// DisplayFixture shows a cassette read-only.
	DisplayFixture(ctx context.Context, path m.Path, content []byte) error
	// DisplayInfo shows a confirmation message.
	DisplayInfo(ctx context.Context, message string)
	// DisplayError shows a non-fatal, user-visible error.
	DisplayError(ctx context.Context, message string)
	// Prompt asks for a value pre-filled with initial. ok is false when the
	// user dismissed the prompt.
	Prompt(ctx context.Context, prompt, initial string) (value string, ok bool, err error)
}

// NewUI returns a TUI when useTTY is set, else a SimpleUI writing through cmd.
func NewUI(cmd *cobra.Command, useTTY bool) UI {
	if useTTY {
		return NewTUI(cmd)
	}

	return NewSimpleUI(cmd)
}

// IsTTY reports whether w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}

	return term.IsTerminal(int(f.Fd()))
}
