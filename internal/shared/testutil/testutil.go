// Package testutil provides mocks and fixtures shared by package tests.
package testutil

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockRunner is a mock implementation of process.Runner.
type MockRunner struct {
	mock.Mock
}

// Output mocks the Output method. Expectations receive the command name and
// the argument list joined with single spaces.
func (m *MockRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	ret := m.Called(name, strings.Join(args, " "))
	if ret.Get(0) == nil {
		return nil, ret.Error(1)
	}
	return ret.Get(0).([]byte), ret.Error(1)
}

// NewMockRunner creates a runner mock that fails any unexpected call.
func NewMockRunner(t *testing.T) *MockRunner {
	t.Helper()
	m := new(MockRunner)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// Bundle creates an empty application bundle directory with an Info.plist
// and returns its path.
func Bundle(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name+".app")
	require.NoError(t, os.MkdirAll(filepath.Join(path, "Contents"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(path, "Contents", "Info.plist"), []byte("<plist/>"), 0o644))
	return path
}

// Touch sets a path's modification time.
func Touch(t *testing.T, path string, mtime time.Time) {
	t.Helper()
	require.NoError(t, os.Chtimes(path, mtime, mtime))
}
