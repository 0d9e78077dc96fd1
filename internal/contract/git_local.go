package contract

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// LocalGitClient implements the GitClient interface by executing the
// local 'git' binary installed on the machine.
type LocalGitClient struct{}

var _ GitClient = &LocalGitClient{} // Compile-time check

// NewLocalGitClient creates a new instance of the local Git client.
func NewLocalGitClient() *LocalGitClient {
	return &LocalGitClient{}
}

// Run executes a git command in dir and returns its stdout.
func (c *LocalGitClient) Run(ctx context.Context, dir string, args ...string) ([]byte, error) {
	fullArgs := append([]string{"-C", dir}, args...)
	cmd := exec.CommandContext(ctx, "git", fullArgs...)
	out, err := cmd.Output()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		stderr := strings.TrimSpace(string(exitErr.Stderr))
		return nil, fmt.Errorf("git %s failed in %q: %s", args[0], dir, stderr)
	} else if err != nil {
		return nil, fmt.Errorf("git command failed: %w. Ensure Git is installed and available on your PATH", err)
	}
	return out, nil
}

// CloneMirror implements the GitClient interface.
func (c *LocalGitClient) CloneMirror(ctx context.Context, cloneURL, dest string) error {
	parent, name := filepath.Split(filepath.Clean(dest))
	if parent == "" {
		parent = "."
	}
	_, err := c.Run(ctx, parent, "clone", "--quiet", "--mirror", cloneURL, name)
	return err
}

// FetchMirror implements the GitClient interface.
func (c *LocalGitClient) FetchMirror(ctx context.Context, dir string) error {
	_, err := c.Run(ctx, dir, "fetch", "--quiet", "--prune", "origin")
	return err
}

// IsGitRepo reports whether dir is a git work tree or a bare repository.
func (c *LocalGitClient) IsGitRepo(ctx context.Context, dir string) bool {
	out, err := c.Run(ctx, dir, "rev-parse", "--is-inside-work-tree", "--is-bare-repository")
	if err != nil {
		return false
	}
	return strings.Contains(string(out), "true")
}
