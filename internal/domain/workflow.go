// Package domain holds the cassette decorator scanner, the path resolvers
// and the workflow behind every command.
package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"vcrm.dev/pkg/vcrm/internal/adapter"
	"vcrm.dev/pkg/vcrm/internal/controller"
	m "vcrm.dev/pkg/vcrm/internal/model"
)

var (
	// ErrCassetteNotFound is returned when a cassette to show does not exist.
	ErrCassetteNotFound = errors.New("cassette not found")
	// ErrCassetteDelete is returned when a cassette could not be removed.
	ErrCassetteDelete = errors.New("unable to delete cassette")
	// ErrInvalidAnchor is returned for a malformed or unmatched --at location.
	ErrInvalidAnchor = errors.New("no cassette decorator at location")
)

// LensArgs contains the arguments for listing cassette actions.
type LensArgs struct {
	Paths   []m.Path
	Exclude []string
	// Roots are the candidate project roots searched for Marker.
	Roots   []m.Path
	Marker  string
	Threads int
	Format  controller.Format
}

// FixtureArgs identifies one cassette for the show and delete handlers.
// Empty CassetteRoot and ProjectDir fall back to the configuration and the
// marker lookup.
type FixtureArgs struct {
	Fixture      string
	At           string
	CassetteRoot string
	ProjectDir   m.Path
	Roots        []m.Path
	Marker       string
}

// SetRootArgs holds the new cassette root; nil asks the user.
type SetRootArgs struct {
	Value *string
}

// WatchArgs contains the arguments for watch mode.
type WatchArgs struct {
	LensArgs
	Debounce time.Duration
}

// Workflow defines the user facing operations.
type Workflow interface {
	Lens(ctx context.Context, args LensArgs) error
	Show(ctx context.Context, args FixtureArgs) error
	Delete(ctx context.Context, args FixtureArgs) error
	SetRoot(ctx context.Context, args SetRootArgs) error
	Watch(ctx context.Context, args WatchArgs) error
}

type workflow struct {
	fsAdapter adapter.SourceFSAdapter
	config    adapter.ConfigStore
	watcher   adapter.FileWatcher
	ui        controller.UI
	roots     RootResolver
	scanner   Scanner
	lenses    LensProvider
}

// NewWorkflow creates a new Workflow instance with the provided dependencies.
func NewWorkflow(
	fsAdapter adapter.SourceFSAdapter,
	config adapter.ConfigStore,
	watcher adapter.FileWatcher,
	ui controller.UI,
	roots RootResolver,
	scanner Scanner,
) Workflow {
	return &workflow{
		fsAdapter: fsAdapter,
		config:    config,
		watcher:   watcher,
		ui:        ui,
		roots:     roots,
		scanner:   scanner,
		lenses:    NewLensProvider(scanner),
	}
}

// Lens scans every source under args.Paths and displays its actions.
func (w *workflow) Lens(ctx context.Context, args LensArgs) error {
	sources, err := w.fsAdapter.Get(ctx, args.Paths, args.Exclude...)
	if err != nil {
		slog.Error("Failed to discover sources", "error", err)
		return fmt.Errorf("get sources: %w", err)
	}

	rootCtx := w.roots.RootContext(ctx, args.Roots, args.Marker)

	lenses, err := w.collectLenses(ctx, sources, rootCtx, args.Threads)
	if err != nil {
		return err
	}

	if err := w.ui.DisplayLenses(ctx, lenses, args.Format); err != nil {
		slog.Error("Failed to display lenses", "error", err)
		return fmt.Errorf("display: %w", err)
	}

	return nil
}

// collectLenses scans sources on a bounded group and keeps their order.
// Any cancellation discards every lens.
func (w *workflow) collectLenses(ctx context.Context, sources []m.Source, rootCtx m.RootContext, threads int) ([]m.FileLens, error) {
	lenses := make([]m.FileLens, len(sources))

	group, groupCtx := errgroup.WithContext(ctx)
	if threads > 0 {
		group.SetLimit(threads)
	}

	for i, source := range sources {
		group.Go(func() error {
			lens, err := w.lensFor(groupCtx, source, rootCtx)
			if err != nil {
				return err
			}

			lenses[i] = lens

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, fmt.Errorf("scan sources: %w", err)
	}

	return lenses, nil
}

// lensFor reads and scans one source. Read failures are logged and yield
// an empty lens; only cancellation is returned.
func (w *workflow) lensFor(ctx context.Context, source m.Source, rootCtx m.RootContext) (m.FileLens, error) {
	content, err := w.fsAdapter.ReadFile(ctx, source.Path)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return m.FileLens{}, ctxErr
		}

		slog.Warn("Failed to read source", "source", source.Path, "error", err)

		return m.FileLens{Source: source}, nil
	}

	return w.lenses.Provide(ctx, source, string(content), rootCtx)
}

// Show displays the cassette read-only.
func (w *workflow) Show(ctx context.Context, args FixtureArgs) error {
	path, err := w.resolveFixture(ctx, args)
	if err != nil {
		w.ui.DisplayError(ctx, err.Error())
		return err
	}

	content, err := w.fsAdapter.ReadFile(ctx, path)
	if err != nil {
		slog.Warn("Cassette not readable", "path", path, "error", err)
		w.ui.DisplayError(ctx, fmt.Sprintf("%s: %s", ErrCassetteNotFound, path))

		return fmt.Errorf("%w: %s", ErrCassetteNotFound, path)
	}

	if err := w.ui.DisplayFixture(ctx, path, content); err != nil {
		return fmt.Errorf("display: %w", err)
	}

	return nil
}

// Delete removes the cassette file.
func (w *workflow) Delete(ctx context.Context, args FixtureArgs) error {
	path, err := w.resolveFixture(ctx, args)
	if err != nil {
		w.ui.DisplayError(ctx, err.Error())
		return err
	}

	if err := w.fsAdapter.Remove(ctx, path); err != nil {
		slog.Warn("Cassette not deleted", "path", path, "error", err)
		w.ui.DisplayError(ctx, fmt.Sprintf("%s: %s", ErrCassetteDelete, path))

		return fmt.Errorf("%w: %s", ErrCassetteDelete, path)
	}

	slog.Info("Cassette deleted", "path", path)
	w.ui.DisplayInfo(ctx, fmt.Sprintf("cassette deleted: %s", path))

	return nil
}

// SetRoot stores a new cassette root, prompting when none is given. A
// dismissed prompt leaves the configuration untouched.
func (w *workflow) SetRoot(ctx context.Context, args SetRootArgs) error {
	var value string

	if args.Value != nil {
		value = *args.Value
	} else {
		entered, ok, err := w.ui.Prompt(ctx, "Enter the root path for VHS cassettes", w.config.CassetteRoot())
		if err != nil {
			return fmt.Errorf("prompt: %w", err)
		}

		if !ok {
			slog.Debug("Cassette root prompt dismissed")
			return nil
		}

		value = entered
	}

	if err := w.config.SetCassetteRoot(value); err != nil {
		return err
	}

	w.ui.DisplayInfo(ctx, fmt.Sprintf("cassette root path set to: %s", value))

	return nil
}

// resolveFixture builds the absolute cassette path from the action
// parameters, falling back to the configuration and the marker lookup.
func (w *workflow) resolveFixture(ctx context.Context, args FixtureArgs) (m.Path, error) {
	fixture := args.Fixture
	if args.At != "" {
		ref, err := w.referenceAt(ctx, args.At)
		if err != nil {
			return "", err
		}

		fixture = ref.FixturePath
	}

	projectDir := args.ProjectDir
	if projectDir == "" {
		projectDir = w.roots.FindProjectDir(ctx, args.Roots, args.Marker)
	}

	cassetteRoot := args.CassetteRoot
	if cassetteRoot == "" {
		cassetteRoot = w.config.CassetteRoot()
	}

	return ResolveFixture(projectDir, cassetteRoot, fixture), nil
}

// referenceAt finds the reference covering "file.py:LINE" (1-based), from
// the decorator line down to its def line.
func (w *workflow) referenceAt(ctx context.Context, at string) (m.CassetteReference, error) {
	path, line, err := parseLocation(at)
	if err != nil {
		return m.CassetteReference{}, err
	}

	content, err := w.fsAdapter.ReadFile(ctx, path)
	if err != nil {
		return m.CassetteReference{}, fmt.Errorf("read %s: %w", path, err)
	}

	refs, err := w.scanner.Scan(ctx, m.NewSource(path), string(content))
	if err != nil {
		return m.CassetteReference{}, err
	}

	for _, ref := range refs {
		if line-1 >= ref.AnchorLine && line-1 <= ref.FunctionLine {
			return ref, nil
		}
	}

	return m.CassetteReference{}, fmt.Errorf("%w: %s", ErrInvalidAnchor, at)
}

func parseLocation(at string) (m.Path, int, error) {
	idx := strings.LastIndex(at, ":")
	if idx <= 0 || idx == len(at)-1 {
		return "", 0, fmt.Errorf("%w: %q (want FILE:LINE)", ErrInvalidAnchor, at)
	}

	line, err := strconv.Atoi(at[idx+1:])
	if err != nil || line < 1 {
		return "", 0, fmt.Errorf("%w: %q (want FILE:LINE)", ErrInvalidAnchor, at)
	}

	return m.Path(at[:idx]), line, nil
}
