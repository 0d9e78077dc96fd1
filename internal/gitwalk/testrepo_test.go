package gitwalk

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"
)

// testRepo builds a repository on disk one commit at a time.
type testRepo struct {
	t    *testing.T
	dir  string
	repo *git.Repository
	wt   *git.Worktree
	when time.Time
}

func newTestRepo(t *testing.T) *testRepo {
	t.Helper()
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	wt, err := repo.Worktree()
	require.NoError(t, err)
	return &testRepo{t: t, dir: dir, repo: repo, wt: wt, when: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)}
}

func (r *testRepo) write(name, content string) {
	r.t.Helper()
	path := filepath.Join(r.dir, name)
	require.NoError(r.t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(r.t, os.WriteFile(path, []byte(content), 0o644))
	_, err := r.wt.Add(name)
	require.NoError(r.t, err)
}

func (r *testRepo) remove(name string) {
	r.t.Helper()
	_, err := r.wt.Remove(name)
	require.NoError(r.t, err)
}

func (r *testRepo) signature() *object.Signature {
	r.when = r.when.Add(time.Hour)
	return &object.Signature{Name: "Bob Builder", Email: "Bob@Example.com", When: r.when}
}

func (r *testRepo) commit(msg string) plumbing.Hash {
	r.t.Helper()
	h, err := r.wt.Commit(msg, &git.CommitOptions{Author: r.signature()})
	require.NoError(r.t, err)
	return h
}

func (r *testRepo) merge(msg string, parents ...plumbing.Hash) plumbing.Hash {
	r.t.Helper()
	h, err := r.wt.Commit(msg, &git.CommitOptions{Author: r.signature(), Parents: parents, AllowEmptyCommits: true})
	require.NoError(r.t, err)
	return h
}

func (r *testRepo) checkout(branch string, create bool) {
	r.t.Helper()
	require.NoError(r.t, r.wt.Checkout(&git.CheckoutOptions{
		Branch: plumbing.NewBranchReferenceName(branch),
		Create: create,
	}))
}
