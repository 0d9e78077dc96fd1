package contract

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// skipIfGitNotAvailable skips the test if git binary is not found in PATH
func skipIfGitNotAvailable(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skipf("git binary not found in PATH: %v", err)
	}
}

// initRepo creates a repository with a single commit using the git binary.
func initRepo(t *testing.T, dir string) {
	t.Helper()
	client := NewLocalGitClient()
	ctx := context.Background()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	_, err := client.Run(ctx, dir, "init", "--quiet")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("hello\n"), 0o644))
	_, err = client.Run(ctx, dir, "add", "README.md")
	require.NoError(t, err)
	_, err = client.Run(ctx, dir, "-c", "user.name=Test", "-c", "user.email=test@example.com", "commit", "--quiet", "-m", "init")
	require.NoError(t, err)
}

func TestMockGitClient(t *testing.T) {
	ctx := context.Background()
	mockClient := new(MockGitClient)

	mockClient.On("Run", ctx, "/repo", "rev-parse", "HEAD").Return([]byte("abc\n"), nil).Once()
	mockClient.On("CloneMirror", ctx, "git@host:a.git", "/m/a.git").Return(errors.New("denied")).Once()
	mockClient.On("FetchMirror", ctx, "/m/b.git").Return(nil).Once()

	out, err := mockClient.Run(ctx, "/repo", "rev-parse", "HEAD")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc\n"), out)

	assert.EqualError(t, mockClient.CloneMirror(ctx, "git@host:a.git", "/m/a.git"), "denied")
	assert.NoError(t, mockClient.FetchMirror(ctx, "/m/b.git"))

	mockClient.AssertExpectations(t)
}

func TestLocalGitClientMirror(t *testing.T) {
	skipIfGitNotAvailable(t)
	ctx := context.Background()
	client := NewLocalGitClient()

	base := t.TempDir()
	src := filepath.Join(base, "src")
	initRepo(t, src)
	assert.True(t, client.IsGitRepo(ctx, src))

	dest := filepath.Join(base, "mirrors", "src.git")
	require.NoError(t, os.MkdirAll(filepath.Dir(dest), 0o755))
	require.NoError(t, client.CloneMirror(ctx, src, dest))
	assert.True(t, client.IsGitRepo(ctx, dest))

	require.NoError(t, client.FetchMirror(ctx, dest))
}

func TestLocalGitClientRunFailure(t *testing.T) {
	skipIfGitNotAvailable(t)
	dir := t.TempDir()

	_, err := NewLocalGitClient().Run(context.Background(), dir, "rev-parse", "HEAD")
	assert.Error(t, err)
	assert.False(t, NewLocalGitClient().IsGitRepo(context.Background(), dir))
}
