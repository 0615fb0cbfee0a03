package helpers

import (
	"context"
	"time"
)

// MockCommandRunner is a mock implementation of CommandRunner for testing
type MockCommandRunner struct {
	CommandExistsFunc   func(name string) bool
	RequireCommandFunc  func(name string) error
	RunCommandFunc      func(ctx context.Context, name string, args ...string) (string, error)
	RunCommandInDirFunc func(ctx context.Context, dir, name string, args ...string) (string, error)
	GetExitCodeFunc     func(err error) int
	RunInstallerFunc    func(ctx context.Context, path string, args []string, timeout time.Duration) (int, error)
}

// CommandExists implements CommandRunner.CommandExists
func (m *MockCommandRunner) CommandExists(name string) bool {
	if m.CommandExistsFunc != nil {
		return m.CommandExistsFunc(name)
	}
	return false
}

// RequireCommand implements CommandRunner.RequireCommand
func (m *MockCommandRunner) RequireCommand(name string) error {
	if m.RequireCommandFunc != nil {
		return m.RequireCommandFunc(name)
	}
	return nil
}

// RunCommand implements CommandRunner.RunCommand
func (m *MockCommandRunner) RunCommand(ctx context.Context, name string, args ...string) (string, error) {
	if m.RunCommandFunc != nil {
		return m.RunCommandFunc(ctx, name, args...)
	}
	return "", nil
}

// RunCommandInDir implements CommandRunner.RunCommandInDir
func (m *MockCommandRunner) RunCommandInDir(ctx context.Context, dir, name string, args ...string) (string, error) {
	if m.RunCommandInDirFunc != nil {
		return m.RunCommandInDirFunc(ctx, dir, name, args...)
	}
	return "", nil
}

// GetExitCode implements CommandRunner.GetExitCode
func (m *MockCommandRunner) GetExitCode(err error) int {
	if m.GetExitCodeFunc != nil {
		return m.GetExitCodeFunc(err)
	}
	return 0
}

// RunInstaller implements CommandRunner.RunInstaller
func (m *MockCommandRunner) RunInstaller(ctx context.Context, path string, args []string, timeout time.Duration) (int, error) {
	if m.RunInstallerFunc != nil {
		return m.RunInstallerFunc(ctx, path, args, timeout)
	}
	return 0, nil
}
