package discover

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/vino9org/git-indexer/internal/contract"
)

// LocalSource finds git repositories below a base directory: work trees as
// well as bare mirrors. Repositories without any commit are left out.
type LocalSource struct{}

var _ contract.RepositorySource = &LocalSource{} // Compile-time check

// Repositories implements the RepositorySource interface. query is the base
// directory; a leading ~ is expanded.
func (LocalSource) Repositories(ctx context.Context, query string) ([]string, error) {
	base, err := expandHome(query)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(base)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", base)
	}

	var repos []string
	err = filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() && path != base {
				return fs.SkipDir
			}
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if !d.IsDir() || path == base {
			return nil
		}
		if d.Name() == ".git" {
			return fs.SkipDir
		}
		if !looksLikeRepo(path) {
			return nil
		}
		if hasHead(path) {
			repos = append(repos, path)
		}
		return fs.SkipDir
	})
	if err != nil {
		return nil, err
	}
	return repos, nil
}

// looksLikeRepo is a cheap check before go-git opens the directory.
func looksLikeRepo(dir string) bool {
	if st, err := os.Stat(filepath.Join(dir, ".git")); err == nil && st.IsDir() {
		return true
	}
	for _, name := range []string{"HEAD", "objects", "refs"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			return false
		}
	}
	return true
}

func hasHead(dir string) bool {
	repo, err := git.PlainOpen(dir)
	if err != nil {
		return false
	}
	_, err = repo.Head()
	return err == nil
}

func expandHome(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return filepath.Abs(path)
}
