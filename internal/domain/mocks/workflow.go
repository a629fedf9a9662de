// Package mocks provides testify mocks for the domain interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"vcrm.dev/pkg/vcrm/internal/domain"
)

// MockWorkflow is a mock implementation of domain.Workflow.
type MockWorkflow struct {
	mock.Mock
}

// NewMockWorkflow creates a MockWorkflow whose expectations are asserted
// when the test ends.
func NewMockWorkflow(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockWorkflow {
	mw := &MockWorkflow{}
	mw.Test(t)

	t.Cleanup(func() { mw.AssertExpectations(t) })

	return mw
}

// Lens provides a mock function with given fields: ctx, args.
func (mw *MockWorkflow) Lens(ctx context.Context, args domain.LensArgs) error {
	return mw.Called(ctx, args).Error(0)
}

// Show provides a mock function with given fields: ctx, args.
func (mw *MockWorkflow) Show(ctx context.Context, args domain.FixtureArgs) error {
	return mw.Called(ctx, args).Error(0)
}

// Delete provides a mock function with given fields: ctx, args.
func (mw *MockWorkflow) Delete(ctx context.Context, args domain.FixtureArgs) error {
	return mw.Called(ctx, args).Error(0)
}

// SetRoot provides a mock function with given fields: ctx, args.
func (mw *MockWorkflow) SetRoot(ctx context.Context, args domain.SetRootArgs) error {
	return mw.Called(ctx, args).Error(0)
}

// Watch provides a mock function with given fields: ctx, args.
func (mw *MockWorkflow) Watch(ctx context.Context, args domain.WatchArgs) error {
	return mw.Called(ctx, args).Error(0)
}
