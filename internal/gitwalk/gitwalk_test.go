package gitwalk

import (
	"context"
	"testing"

	"github.com/go-git/go-git/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vino9org/git-indexer/schema"
)

const mainV1 = `package main

func a() int {
	return 1
}

func b() int {
	return 2
}
`

const mainV2 = `package main

func a() int {
	return 1
}

func b() int {
	return 3
}
`

func collect(t *testing.T, src *Source, cloneURL string) []*schema.RawCommit {
	t.Helper()
	var commits []*schema.RawCommit
	for c, err := range src.Commits(context.Background(), cloneURL) {
		require.NoError(t, err)
		commits = append(commits, c)
	}
	return commits
}

func fileByPath(t *testing.T, c *schema.RawCommit, path string) schema.RawFile {
	t.Helper()
	for _, f := range c.Files {
		if f.Path() == path {
			return f
		}
	}
	t.Fatalf("commit %s has no file %s", c.Hash, path)
	return schema.RawFile{}
}

func TestCommitsWalksAllBranches(t *testing.T) {
	r := newTestRepo(t)
	r.write("main.go", mainV1)
	r.write("README.md", "hello\n")
	c1 := r.commit("initial\n\n")

	r.write("main.go", mainV2)
	r.write("assets/logo.png", "\x89PNG\x00\x00\x01binary")
	c2 := r.commit("change b")

	r.checkout("feature", true)
	r.remove("README.md")
	c3 := r.commit("drop readme")

	r.checkout("master", false)
	r.write("go.sum", "example.com/x v1.0.0 h1:abc\n")
	c4 := r.commit("add sums")
	c5 := r.merge("merge feature", c4, c3)

	commits := collect(t, NewSource(nil, Options{}), r.dir)
	require.Len(t, commits, 5)

	hashes := make([]string, len(commits))
	for i, c := range commits {
		hashes[i] = c.Hash
	}
	assert.Equal(t, []string{c1.String(), c2.String(), c3.String(), c4.String(), c5.String()}, hashes)

	first := commits[0]
	assert.Equal(t, "initial", first.Message)
	assert.Equal(t, "Bob Builder", first.AuthorName)
	assert.Equal(t, "Bob@Example.com", first.AuthorEmail)
	assert.False(t, first.IsMerge)
	assert.Equal(t, []string{"feature", "master"}, first.Branches)
	require.Len(t, first.Files, 2)

	mainGo := fileByPath(t, first, "main.go")
	assert.Equal(t, schema.AddChange, mainGo.Kind)
	assert.Equal(t, 9, mainGo.Added)
	assert.Zero(t, mainGo.Deleted)
	assert.Equal(t, 7, mainGo.NLOC)
	assert.Equal(t, 2, mainGo.Methods)
	assert.Equal(t, 2, mainGo.MethodsChanged)

	readme := fileByPath(t, first, "README.md")
	assert.Equal(t, 1, readme.Added)
	assert.Zero(t, readme.Methods)

	second := commits[1]
	mainGo = fileByPath(t, second, "main.go")
	assert.Equal(t, schema.ModifyChange, mainGo.Kind)
	assert.Equal(t, 1, mainGo.Added)
	assert.Equal(t, 1, mainGo.Deleted)
	assert.Equal(t, 2, mainGo.Methods)
	assert.Equal(t, 1, mainGo.MethodsChanged)

	logo := fileByPath(t, second, "assets/logo.png")
	assert.Equal(t, schema.AddChange, logo.Kind)
	assert.Zero(t, logo.Added)
	assert.Zero(t, logo.NLOC)

	third := commits[2]
	assert.Equal(t, []string{"feature", "master"}, third.Branches)
	deleted := fileByPath(t, third, "README.md")
	assert.Equal(t, schema.DeleteChange, deleted.Kind)
	assert.Equal(t, "README.md", deleted.OldPath)
	assert.Empty(t, deleted.NewPath)
	assert.Equal(t, 1, deleted.Deleted)

	assert.Equal(t, []string{"master"}, commits[3].Branches)

	merge := commits[4]
	assert.True(t, merge.IsMerge)
	assert.Empty(t, merge.Files)
	assert.Equal(t, []string{"master"}, merge.Branches)
}

func TestCommitsEmptyRepository(t *testing.T) {
	dir := t.TempDir()
	_, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	assert.Empty(t, collect(t, NewSource(nil, Options{}), dir))
}

func TestCommitsFileURL(t *testing.T) {
	r := newTestRepo(t)
	r.write("a.txt", "a\n")
	r.commit("one")

	assert.Len(t, collect(t, NewSource(nil, Options{}), "file://"+r.dir), 1)
}

func TestCommitsOpenError(t *testing.T) {
	src := NewSource(nil, Options{})
	var errs []error
	for c, err := range src.Commits(context.Background(), t.TempDir()+"/missing") {
		assert.Nil(t, c)
		errs = append(errs, err)
	}
	require.Len(t, errs, 1)
	assert.Error(t, errs[0])
}

func TestCommitsStopsOnCancel(t *testing.T) {
	r := newTestRepo(t)
	r.write("a.txt", "a\n")
	r.commit("one")
	r.write("a.txt", "b\n")
	r.commit("two")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	var seen int
	var lastErr error
	for c, err := range NewSource(nil, Options{}).Commits(ctx, r.dir) {
		if err != nil {
			lastErr = err
			break
		}
		seen++
		assert.NotNil(t, c)
		cancel()
	}
	assert.Equal(t, 1, seen)
	assert.ErrorIs(t, lastErr, context.Canceled)
}

func TestCommitsConsumerCanStop(t *testing.T) {
	r := newTestRepo(t)
	for _, content := range []string{"1\n", "2\n", "3\n"} {
		r.write("n.txt", content)
		r.commit("n")
	}

	seen := 0
	for range NewSource(nil, Options{}).Commits(context.Background(), r.dir) {
		seen++
		if seen == 2 {
			break
		}
	}
	assert.Equal(t, 2, seen)
}

func TestIsRemote(t *testing.T) {
	tests := []struct {
		url    string
		remote bool
	}{
		{"https://github.com/org/repo.git", true},
		{"git@github.com:org/repo.git", true},
		{"ssh://git@gitlab.com/org/repo.git", true},
		{"file:///tmp/repo", false},
		{"/tmp/repo", false},
		{"relative/repo", false},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.remote, IsRemote(tt.url))
		})
	}
}
