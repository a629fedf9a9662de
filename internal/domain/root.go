package domain

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"

	"vcrm.dev/pkg/vcrm/internal/adapter"
	m "vcrm.dev/pkg/vcrm/internal/model"
)

// DefaultProjectMarker identifies the project root of a Django project.
const DefaultProjectMarker = "manage.py"

// RootResolver locates the project marker directory and turns cassette
// paths into absolute file paths.
type RootResolver interface {
	FindProjectDir(ctx context.Context, roots []m.Path, marker string) m.Path
	RootContext(ctx context.Context, roots []m.Path, marker string) m.RootContext
}

type rootResolver struct {
	fsAdapter adapter.SourceFSAdapter
	config    adapter.ConfigStore
}

// NewRootResolver builds a RootResolver over the file system and the
// configured cassette root.
func NewRootResolver(fsAdapter adapter.SourceFSAdapter, config adapter.ConfigStore) RootResolver {
	return &rootResolver{
		fsAdapter: fsAdapter,
		config:    config,
	}
}

// FindProjectDir returns the first root holding marker directly, else the
// directory of the first marker found recursively, else the first root.
// Relative roots are made absolute against the working directory. It never
// fails; with no roots it returns "". An empty marker means
// DefaultProjectMarker.
func (r *rootResolver) FindProjectDir(ctx context.Context, roots []m.Path, marker string) m.Path {
	if len(roots) == 0 {
		return ""
	}

	roots = absRoots(roots)

	if marker == "" {
		marker = DefaultProjectMarker
	}

	for _, root := range roots {
		candidate := r.fsAdapter.JoinPath(ctx, string(root), marker)

		info, err := r.fsAdapter.FileInfo(ctx, candidate)
		if err == nil && !info.IsDir() {
			return root
		}
	}

	found, err := r.fsAdapter.FindFile(ctx, roots, marker)
	if err != nil {
		if !errors.Is(err, adapter.ErrFileNotFound) {
			slog.Warn("Project marker search failed", "marker", marker, "error", err)
		}

		slog.Debug("Project marker not found, using first root", "marker", marker, "root", roots[0])

		return roots[0]
	}

	return m.Path(filepath.Dir(string(found)))
}

func absRoots(roots []m.Path) []m.Path {
	abs := make([]m.Path, 0, len(roots))

	for _, root := range roots {
		path, err := filepath.Abs(string(root))
		if err != nil {
			slog.Warn("Cannot make root absolute", "root", root, "error", err)

			path = string(root)
		}

		abs = append(abs, m.Path(path))
	}

	return abs
}

// RootContext reads the cassette root afresh and pairs it with the project dir.
func (r *rootResolver) RootContext(ctx context.Context, roots []m.Path, marker string) m.RootContext {
	return m.RootContext{
		ProjectMarkerDir: r.FindProjectDir(ctx, roots, marker),
		CassetteRoot:     r.config.CassetteRoot(),
	}
}

// ResolveFixture joins projectDir, cassetteRoot and fixture. Empty segments
// contribute nothing.
func ResolveFixture(projectDir m.Path, cassetteRoot, fixture string) m.Path {
	return m.Path(filepath.Join(string(projectDir), cassetteRoot, fixture))
}
