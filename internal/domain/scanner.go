package domain

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	m "vcrm.dev/pkg/vcrm/internal/model"
)

// DefaultPatterns lists the recognized cassette decorators in priority order.
// The first pattern matching a line wins.
var DefaultPatterns = []m.AnnotationPattern{
	{
		Name:      "use_cassette",
		Regexp:    regexp.MustCompile(`@(vcr|vhs)[^\n]*use_cassette\s*\(\s*['"](.+?)['"]\s*\)`),
		PathGroup: 2,
	},
	{
		Name:   "use_cassette_default",
		Regexp: regexp.MustCompile(`@(vcr|vhs)[^\n]*use_cassette\s*\(\s*\)`),
	},
	{
		Name:      "pytest_mark",
		Regexp:    regexp.MustCompile(`@pytest\.mark\.vcr\s*\(\s*['"](.+?)['"]\s*\)`),
		PathGroup: 1,
	},
	{
		Name:   "pytest_mark_default",
		Regexp: regexp.MustCompile(`@pytest\.mark\.vcr\s*\(\s*\)`),
	},
}

var functionDefRegexp = regexp.MustCompile(`^\s*def\s+([a-zA-Z0-9_]+)\s*\(`)

// cancelCheckInterval is how many lines are scanned between context checks.
const cancelCheckInterval = 256

// Scanner finds cassette decorators in source text.
type Scanner interface {
	Scan(ctx context.Context, source m.Source, text string) ([]m.CassetteReference, error)
}

type scanner struct {
	patterns []m.AnnotationPattern
}

// NewScanner returns a Scanner trying patterns in order. With no patterns
// it uses DefaultPatterns.
func NewScanner(patterns ...m.AnnotationPattern) Scanner {
	if len(patterns) == 0 {
		patterns = DefaultPatterns
	}

	return &scanner{patterns: patterns}
}

// Scan returns the references found in text. A cancelled context discards
// everything found so far.
func (s *scanner) Scan(ctx context.Context, source m.Source, text string) ([]m.CassetteReference, error) {
	state := scanState{}

	for i, line := range strings.Split(text, "\n") {
		if i%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				slog.Debug("Scan cancelled", "source", source.Path, "line", i)
				return nil, err
			}
		}

		state.feed(s.patterns, source.BaseName, i, line)
	}

	slog.Debug("Scanned source", "source", source.Path, "references", len(state.refs))

	return state.refs, nil
}

// scanState is the {idle, pending} machine. pending == nil means idle.
type scanState struct {
	pending *m.PendingAnnotation
	refs    []m.CassetteReference
}

func (st *scanState) feed(patterns []m.AnnotationPattern, baseName string, index int, line string) {
	for i := range patterns {
		if match := patterns[i].Regexp.FindStringSubmatch(line); match != nil {
			// A newer decorator replaces one still waiting for its function.
			st.pending = &m.PendingAnnotation{LineIndex: index, Match: match, Pattern: &patterns[i]}
			break
		}
	}

	// The function check also runs on the line that just set pending.
	if st.pending == nil {
		return
	}

	fn := functionDefRegexp.FindStringSubmatch(line)
	if fn == nil {
		return
	}

	explicit := st.pending.Pattern.ExplicitPath(st.pending.Match)
	st.refs = append(st.refs, m.CassetteReference{
		AnchorLine:         st.pending.LineIndex,
		FixturePath:        FixturePath(baseName, fn[1], explicit),
		SourceFileBaseName: baseName,
		FunctionName:       fn[1],
		FunctionLine:       index,
		Explicit:           explicit != "",
	})
	st.pending = nil
}
