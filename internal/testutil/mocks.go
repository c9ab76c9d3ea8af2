// Package testutil provides mock implementations for interfaces defined in the
// cljstyle core library (pkg/styler and subpackages). These mocks facilitate
// unit testing by isolating components.
package testutil

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/aclev/cljstyle/pkg/styler"
)

// MockResolver provides a mock implementation of the styler.Resolver interface.
// Configure expectations using testify/mock methods (e.g., .On("IsIgnored", ...).Return(...)).
type MockResolver struct {
	mock.Mock
}

// IsIgnored mocks the IsIgnored method.
func (m *MockResolver) IsIgnored(rules styler.RuleSet, root styler.Root, file string, isDir bool) bool {
	args := m.Called(rules, root, file, isDir)
	return args.Bool(0)
}

// IsSourceFile mocks the IsSourceFile method.
func (m *MockResolver) IsSourceFile(rules styler.RuleSet, file string) bool {
	args := m.Called(rules, file)
	return args.Bool(0)
}

// LocalOverrides mocks the LocalOverrides method.
func (m *MockResolver) LocalOverrides(dir string) (*styler.Override, error) {
	args := m.Called(dir)
	o, _ := args.Get(0).(*styler.Override)
	return o, args.Error(1)
}

// Merge mocks the Merge method.
func (m *MockResolver) Merge(rules styler.RuleSet, o *styler.Override) styler.RuleSet {
	args := m.Called(rules, o)
	merged, _ := args.Get(0).(styler.RuleSet)
	return merged
}

// MockProcessor provides a mock implementation of the styler.Processor
// interface. Tests that need behavior beyond canned returns (blocking,
// panicking) should use a hand-written Processor func instead.
type MockProcessor struct {
	mock.Mock
}

// Process mocks the Process method.
func (m *MockProcessor) Process(ctx context.Context, rules styler.RuleSet, displayPath, file string) (styler.Event, error) {
	args := m.Called(ctx, rules, displayPath, file)
	ev, _ := args.Get(0).(styler.Event)
	return ev, args.Error(1)
}

// MockHooks provides a mock implementation of the styler.Hooks interface.
// The mock is safe for concurrent use; testify serializes Called internally.
type MockHooks struct {
	mock.Mock
}

// OnFileDiscovered mocks the OnFileDiscovered method.
func (m *MockHooks) OnFileDiscovered(path string) error {
	args := m.Called(path)
	return args.Error(0)
}

// OnFileStatusUpdate mocks the OnFileStatusUpdate method.
func (m *MockHooks) OnFileStatusUpdate(path string, status styler.Status, message string, duration time.Duration) error {
	args := m.Called(path, status, message, duration)
	return args.Error(0)
}

// OnRunComplete mocks the OnRunComplete method.
func (m *MockHooks) OnRunComplete(report styler.Report) error {
	args := m.Called(report)
	return args.Error(0)
}

// MockSink provides a mock implementation of the styler.Sink interface.
type MockSink struct {
	mock.Mock
}

// EmitDebug mocks the EmitDebug method.
func (m *MockSink) EmitDebug(msg string) { m.Called(msg) }

// EmitInfo mocks the EmitInfo method.
func (m *MockSink) EmitInfo(msg string) { m.Called(msg) }

// EmitWarn mocks the EmitWarn method.
func (m *MockSink) EmitWarn(msg string) { m.Called(msg) }

// EmitFault mocks the EmitFault method.
func (m *MockSink) EmitFault(err error, verbose bool) { m.Called(err, verbose) }
