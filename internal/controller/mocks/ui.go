// Package mocks provides testify mocks for the controller interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"vcrm.dev/pkg/vcrm/internal/controller"
	m "vcrm.dev/pkg/vcrm/internal/model"
)

// MockUI is a mock implementation of controller.UI.
type MockUI struct {
	mock.Mock
}

// DisplayLenses provides a mock function with given fields: ctx, lenses, format.
func (mu *MockUI) DisplayLenses(ctx context.Context, lenses []m.FileLens, format controller.Format) error {
	return mu.Called(ctx, lenses, format).Error(0)
}

// DisplayFixture provides a mock function with given fields: ctx, path, content.
func (mu *MockUI) DisplayFixture(ctx context.Context, path m.Path, content []byte) error {
	return mu.Called(ctx, path, content).Error(0)
}

// DisplayInfo provides a mock function with given fields: ctx, message.
func (mu *MockUI) DisplayInfo(ctx context.Context, message string) {
	mu.Called(ctx, message)
}

// DisplayError provides a mock function with given fields: ctx, message.
func (mu *MockUI) DisplayError(ctx context.Context, message string) {
	mu.Called(ctx, message)
}

// Prompt provides a mock function with given fields: ctx, prompt, initial.
func (mu *MockUI) Prompt(ctx context.Context, prompt, initial string) (string, bool, error) {
	args := mu.Called(ctx, prompt, initial)
	return args.String(0), args.Bool(1), args.Error(2)
}
