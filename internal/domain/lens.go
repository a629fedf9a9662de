package domain

import (
	"context"
	"log/slog"
	"strings"

	m "vcrm.dev/pkg/vcrm/internal/model"
)

// LensProvider turns one file snapshot into its inline actions.
type LensProvider interface {
	Provide(ctx context.Context, source m.Source, text string, roots m.RootContext) (m.FileLens, error)
}

type lensProvider struct {
	scanner Scanner
}

// NewLensProvider creates a LensProvider backed by scanner.
func NewLensProvider(scanner Scanner) LensProvider {
	return &lensProvider{scanner: scanner}
}

// Provide scans text and attaches a show and a delete action to every
// reference. When the cassette root is blank no action is surfaced.
func (lp *lensProvider) Provide(ctx context.Context, source m.Source, text string, roots m.RootContext) (m.FileLens, error) {
	refs, err := lp.scanner.Scan(ctx, source, text)
	if err != nil {
		return m.FileLens{}, err
	}

	lens := m.FileLens{Source: source, References: refs}

	if strings.TrimSpace(roots.CassetteRoot) == "" {
		if len(refs) > 0 {
			slog.Debug("Cassette root not configured, hiding actions", "source", source.Path, "references", len(refs))
		}

		return lens, nil
	}

	lens.Actions = make([]m.Action, 0, 2*len(refs))
	for _, ref := range refs {
		lens.Actions = append(lens.Actions,
			newAction(m.ActionShow, ref, source, roots),
			newAction(m.ActionDelete, ref, source, roots),
		)
	}

	return lens, nil
}

func newAction(kind m.ActionKind, ref m.CassetteReference, source m.Source, roots m.RootContext) m.Action {
	return m.Action{
		Kind:             kind,
		Title:            kind.Title(),
		Reference:        ref,
		CassetteRoot:     roots.CassetteRoot,
		ProjectMarkerDir: roots.ProjectMarkerDir,
		Source:           source.Path,
	}
}
