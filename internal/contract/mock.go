package contract

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

// MockGitClient is an autogenerated mock type for the GitClient type.
type MockGitClient struct {
	mock.Mock
}

var _ GitClient = &MockGitClient{} // Compile-time check

// Run implements the GitClient interface.
func (m *MockGitClient) Run(ctx context.Context, repoPath string, args ...string) (string, error) {
	mockArgs := []any{ctx, repoPath}
	for _, arg := range args {
		mockArgs = append(mockArgs, arg)
	}
	ret := m.Called(mockArgs...)
	return ret.String(0), ret.Error(1)
}

// IsInsideWorkTree implements the GitClient interface.
func (m *MockGitClient) IsInsideWorkTree(ctx context.Context, path string) bool {
	ret := m.Called(ctx, path)
	return ret.Bool(0)
}

// GetRepoRoot implements the GitClient interface.
func (m *MockGitClient) GetRepoRoot(ctx context.Context, path string) (string, error) {
	ret := m.Called(ctx, path)
	return ret.String(0), ret.Error(1)
}

// GetCommitLog implements the GitClient interface.
func (m *MockGitClient) GetCommitLog(ctx context.Context, repoPath string, since time.Time) (string, error) {
	ret := m.Called(ctx, repoPath, since)
	return ret.String(0), ret.Error(1)
}

// GetNumstatLog implements the GitClient interface.
func (m *MockGitClient) GetNumstatLog(ctx context.Context, repoPath string, since time.Time) (string, error) {
	ret := m.Called(ctx, repoPath, since)
	return ret.String(0), ret.Error(1)
}

// GetShortlog implements the GitClient interface.
func (m *MockGitClient) GetShortlog(ctx context.Context, repoPath string) (string, error) {
	ret := m.Called(ctx, repoPath)
	return ret.String(0), ret.Error(1)
}

// ListFiles implements the GitClient interface.
func (m *MockGitClient) ListFiles(ctx context.Context, repoPath string) ([]string, error) {
	ret := m.Called(ctx, repoPath)
	files, _ := ret.Get(0).([]string)
	return files, ret.Error(1)
}

// MockRunner is an autogenerated mock type for the Runner type.
type MockRunner struct {
	mock.Mock
}

var _ Runner = &MockRunner{} // Compile-time check

// Run implements the Runner interface.
func (m *MockRunner) Run(ctx context.Context, dir string, timeout time.Duration, name string, args ...string) Result {
	mockArgs := []any{ctx, dir, timeout, name}
	for _, arg := range args {
		mockArgs = append(mockArgs, arg)
	}
	ret := m.Called(mockArgs...)
	res, _ := ret.Get(0).(Result)
	return res
}

// LookPath implements the Runner interface.
func (m *MockRunner) LookPath(name string) (string, error) {
	ret := m.Called(name)
	return ret.String(0), ret.Error(1)
}
