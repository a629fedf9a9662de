// Package mocks provides testify mocks for the adapter interfaces.
package mocks

import (
	"context"
	"os"

	"github.com/stretchr/testify/mock"
	m "vcrm.dev/pkg/vcrm/internal/model"
)

// MockSourceFSAdapter is a mock implementation of adapter.SourceFSAdapter.
type MockSourceFSAdapter struct {
	mock.Mock
}

// Get provides a mock function with given fields: ctx, paths, exclude.
func (ma *MockSourceFSAdapter) Get(ctx context.Context, paths []m.Path, exclude ...string) ([]m.Source, error) {
	args := ma.Called(ctx, paths, exclude)

	var sources []m.Source
	if v := args.Get(0); v != nil {
		sources = v.([]m.Source)
	}

	return sources, args.Error(1)
}

// ReadFile provides a mock function with given fields: ctx, path.
func (ma *MockSourceFSAdapter) ReadFile(ctx context.Context, path m.Path) ([]byte, error) {
	args := ma.Called(ctx, path)

	var content []byte
	if v := args.Get(0); v != nil {
		content = v.([]byte)
	}

	return content, args.Error(1)
}

// FileInfo provides a mock function with given fields: ctx, path.
func (ma *MockSourceFSAdapter) FileInfo(ctx context.Context, path m.Path) (os.FileInfo, error) {
	args := ma.Called(ctx, path)

	var info os.FileInfo
	if v := args.Get(0); v != nil {
		info = v.(os.FileInfo)
	}

	return info, args.Error(1)
}

// FindFile provides a mock function with given fields: ctx, roots, name.
func (ma *MockSourceFSAdapter) FindFile(ctx context.Context, roots []m.Path, name string) (m.Path, error) {
	args := ma.Called(ctx, roots, name)
	return args.Get(0).(m.Path), args.Error(1)
}

// Remove provides a mock function with given fields: ctx, path.
func (ma *MockSourceFSAdapter) Remove(ctx context.Context, path m.Path) error {
	return ma.Called(ctx, path).Error(0)
}

// JoinPath provides a mock function with given fields: ctx, elem.
func (ma *MockSourceFSAdapter) JoinPath(ctx context.Context, elem ...string) m.Path {
	return ma.Called(ctx, elem).Get(0).(m.Path)
}

// MockConfigStore is a mock implementation of adapter.ConfigStore.
type MockConfigStore struct {
	mock.Mock
}

// CassetteRoot provides a mock function.
func (mc *MockConfigStore) CassetteRoot() string {
	return mc.Called().String(0)
}

// SetCassetteRoot provides a mock function with given fields: value.
func (mc *MockConfigStore) SetCassetteRoot(value string) error {
	return mc.Called(value).Error(0)
}

// MockFileWatcher is a mock implementation of adapter.FileWatcher.
type MockFileWatcher struct {
	mock.Mock
}

// Watch provides a mock function with given fields: ctx, dirs.
func (mw *MockFileWatcher) Watch(ctx context.Context, dirs []m.Path) (<-chan m.Path, error) {
	args := mw.Called(ctx, dirs)

	var events <-chan m.Path
	switch v := args.Get(0).(type) {
	case chan m.Path:
		events = v
	case <-chan m.Path:
		events = v
	}

	return events, args.Error(1)
}
