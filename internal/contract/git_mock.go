package contract

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockGitClient is a mock implementation of GitClient for testing.
type MockGitClient struct {
	mock.Mock
}

var _ GitClient = &MockGitClient{} // Compile-time check

// Run implements the GitClient interface.
func (m *MockGitClient) Run(ctx context.Context, dir string, args ...string) ([]byte, error) {
	mockArgs := []any{ctx, dir}
	for _, arg := range args {
		mockArgs = append(mockArgs, arg)
	}
	ret := m.Called(mockArgs...)
	output, _ := ret.Get(0).([]byte)
	return output, ret.Error(1)
}

// CloneMirror implements the GitClient interface.
func (m *MockGitClient) CloneMirror(ctx context.Context, cloneURL, dest string) error {
	return m.Called(ctx, cloneURL, dest).Error(0)
}

// FetchMirror implements the GitClient interface.
func (m *MockGitClient) FetchMirror(ctx context.Context, dir string) error {
	return m.Called(ctx, dir).Error(0)
}
