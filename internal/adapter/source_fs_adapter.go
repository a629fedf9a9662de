// Package adapter contains the file system, configuration and watcher ports
// used by the domain layer.
package adapter

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	m "vcrm.dev/pkg/vcrm/internal/model"
)

// ErrFileNotFound is returned by FindFile when no root contains the file.
var ErrFileNotFound = errors.New("file not found")

const (
	recursiveSuffix = "..."
	pythonExt       = m.PythonExt
)

// skippedDirs are never descended into while walking.
var skippedDirs = map[string]struct{}{
	".git":         {},
	".hg":          {},
	".tox":         {},
	".venv":        {},
	"venv":         {},
	"node_modules": {},
	"__pycache__":  {},
}

// SourceFSAdapter abstracts filesystem-specific operations that the domain layer
// relies on when scanning user projects. It hides direct `os` access so the
// workflow logic can be tested without touching the disk.
//
//nolint:interfacebloat // A richer interface keeps workflow logic decoupled from os/fs.
type SourceFSAdapter interface {
	// Get expands path patterns ("./...", "./tests/...", plain files) into
	// the Python sources they denote, sorted by path.
	Get(ctx context.Context, paths []m.Path, exclude ...string) ([]m.Source, error)

	// ReadFile loads a file from disk and returns its contents.
	ReadFile(ctx context.Context, path m.Path) ([]byte, error)

	// FileInfo returns metadata for a path so the domain can check existence.
	FileInfo(ctx context.Context, path m.Path) (os.FileInfo, error)

	// FindFile walks roots in order and returns the first file called name.
	FindFile(ctx context.Context, roots []m.Path, name string) (m.Path, error)

	// Remove deletes a single file.
	Remove(ctx context.Context, path m.Path) error

	// JoinPath joins path elements into a single path.
	JoinPath(ctx context.Context, elem ...string) m.Path
}

// LocalSourceFSAdapter is the os backed SourceFSAdapter.
type LocalSourceFSAdapter struct{}

// NewLocalSourceFSAdapter constructs a LocalSourceFSAdapter instance ready to
// be wired into the workflow.
func NewLocalSourceFSAdapter() *LocalSourceFSAdapter {
	return &LocalSourceFSAdapter{}
}

// Get expands paths into Python sources.
func (a *LocalSourceFSAdapter) Get(ctx context.Context, paths []m.Path, exclude ...string) ([]m.Source, error) {
	excludes, err := compileExcludes(exclude)
	if err != nil {
		return nil, err
	}

	if len(paths) == 0 {
		paths = []m.Path{m.Path("." + string(filepath.Separator) + recursiveSuffix)}
	}

	seen := make(map[m.Path]struct{})

	var sources []m.Source

	for _, pattern := range paths {
		root, recursive := splitPattern(pattern)

		found, err := a.collect(ctx, root, recursive, excludes)
		if err != nil {
			return nil, err
		}

		for _, path := range found {
			if _, dup := seen[path]; dup {
				continue
			}

			seen[path] = struct{}{}
			sources = append(sources, m.NewSource(path))
		}
	}

	sort.Slice(sources, func(i, j int) bool {
		return sources[i].Path < sources[j].Path
	})

	slog.Debug("Discovered sources", "patterns", len(paths), "count", len(sources))

	return sources, nil
}

func (a *LocalSourceFSAdapter) collect(ctx context.Context, root string, recursive bool, excludes []*regexp.Regexp) ([]m.Path, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("root path error: %w", err)
	}

	if !info.IsDir() {
		// Explicitly named files are scanned whatever their extension.
		if isExcluded(root, excludes) {
			return nil, nil
		}

		return []m.Path{m.Path(root)}, nil
	}

	var found []m.Path

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if d.IsDir() {
			if path == root {
				return nil
			}

			if _, skip := skippedDirs[d.Name()]; skip || !recursive {
				return filepath.SkipDir
			}

			return nil
		}

		if filepath.Ext(path) != pythonExt || isExcluded(path, excludes) {
			return nil
		}

		found = append(found, m.Path(path))

		return nil
	})
	if err != nil {
		return nil, err
	}

	return found, nil
}

// splitPattern turns "dir/..." into (dir, true) and anything else into (path, false).
func splitPattern(pattern m.Path) (string, bool) {
	p := string(pattern)
	if p == recursiveSuffix {
		return ".", true
	}

	if strings.HasSuffix(p, recursiveSuffix) {
		root := strings.TrimSuffix(p, recursiveSuffix)
		root = strings.TrimSuffix(root, "/")
		root = strings.TrimSuffix(root, string(filepath.Separator))

		if root == "" {
			root = "."
		}

		return root, true
	}

	return p, false
}

func compileExcludes(patterns []string) ([]*regexp.Regexp, error) {
	compiled := make([]*regexp.Regexp, 0, len(patterns))

	for _, pattern := range patterns {
		if strings.TrimSpace(pattern) == "" {
			continue
		}

		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", pattern, err)
		}

		compiled = append(compiled, re)
	}

	return compiled, nil
}

func isExcluded(path string, excludes []*regexp.Regexp) bool {
	for _, re := range excludes {
		if re.MatchString(path) || re.MatchString(filepath.Base(path)) {
			return true
		}
	}

	return false
}

// ReadFile loads file contents from disk.
func (a *LocalSourceFSAdapter) ReadFile(ctx context.Context, path m.Path) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return os.ReadFile(string(path))
}

// FileInfo returns os.FileInfo metadata for the given path.
func (a *LocalSourceFSAdapter) FileInfo(ctx context.Context, path m.Path) (os.FileInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return os.Stat(string(path))
}

// FindFile walks each root in lexical order and returns the first regular
// file called name.
func (a *LocalSourceFSAdapter) FindFile(ctx context.Context, roots []m.Path, name string) (m.Path, error) {
	var found m.Path

	for _, root := range roots {
		err := filepath.WalkDir(string(root), func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				// Unreadable sub-trees do not stop the search.
				slog.Debug("Skipping unreadable path", "path", path, "error", err)

				if d != nil && d.IsDir() {
					return filepath.SkipDir
				}

				return nil
			}

			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}

			if d.IsDir() {
				if _, skip := skippedDirs[d.Name()]; skip && path != string(root) {
					return filepath.SkipDir
				}

				return nil
			}

			if d.Name() == name {
				found = m.Path(path)
				return fs.SkipAll
			}

			return nil
		})
		if err != nil {
			return "", err
		}

		if found != "" {
			return found, nil
		}
	}

	return "", fmt.Errorf("%s: %w", name, ErrFileNotFound)
}

// Remove deletes a single file. Directories are refused.
func (a *LocalSourceFSAdapter) Remove(ctx context.Context, path m.Path) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	info, err := os.Stat(string(path))
	if err != nil {
		return err
	}

	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}

	return os.Remove(string(path))
}

// JoinPath joins path elements into a single path.
func (a *LocalSourceFSAdapter) JoinPath(_ context.Context, elem ...string) m.Path {
	return m.Path(filepath.Join(elem...))
}
