package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vino9org/git-indexer/schema"
)

func TestEnsureRepository(t *testing.T) {
	s := newMemoryStore(t)
	ctx := context.Background()

	tx, err := s.Begin(ctx)
	require.NoError(t, err)
	defer func() { _ = tx.Rollback() }()

	first, err := tx.EnsureRepository(ctx, "git@github.com:vino9org/app.git", "")
	require.NoError(t, err)
	assert.Positive(t, first.ID)
	assert.Equal(t, schema.GitHubRepo, first.RepoType)
	assert.Equal(t, "https://github.com/vino9org/app", first.BrowseURL)
	assert.Equal(t, "app", first.Name)

	// the type is inferred once and never recomputed
	again, err := tx.EnsureRepository(ctx, "git@github.com:vino9org/app.git", schema.OtherRepo)
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)
	assert.Equal(t, schema.GitHubRepo, again.RepoType)
	assert.True(t, again.IncludeInStats)
	assert.Nil(t, again.LastIndexedAt)

	_, err = tx.EnsureRepository(ctx, "/tmp/x", "sourceforge")
	assert.Error(t, err)
}

func TestEnsureAuthorMatchesNameAndEmail(t *testing.T) {
	s := newMemoryStore(t)
	ctx := context.Background()

	tx, err := s.Begin(ctx)
	require.NoError(t, err)

	alice, err := tx.EnsureAuthor(ctx, "Alice", "ALICE@example.com")
	require.NoError(t, err)
	assert.Equal(t, "alice", alice.Name)
	assert.Equal(t, "alice@example.com", alice.Email)
	assert.Equal(t, "alice", alice.RealName)
	assert.Equal(t, "alice@example.com", alice.RealEmail)

	same, err := tx.EnsureAuthor(ctx, "alice", "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, same.ID)

	// same email with another name is a different author
	other, err := tx.EnsureAuthor(ctx, "Alice Smith", "alice@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, alice.ID, other.ID)

	require.NoError(t, tx.Commit())
	assert.Equal(t, int64(2), countRows(t, s, authorsTable))
}

func TestCreateAttachAndUpdateCommit(t *testing.T) {
	s := newMemoryStore(t)
	ctx := context.Background()
	when := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	seedCommit(t, s, "/repos/a", &schema.Commit{SHA: sha(1), Branches: "main", CreatedAt: when, NLines: 12},
		[]schema.CommittedFile{
			{ChangeType: schema.AddChange, FilePath: "a.go", FileName: "a.go", FileType: "go", NLinesAdded: 10, NLinesChanged: 10},
			{ChangeType: schema.ModifyChange, FilePath: "go.sum", FileName: "go.sum", FileType: "sum", NLinesAdded: 2, NLinesChanged: 2, IsOnExcludeList: true, IsSuperfluous: true},
		})

	tx, err := s.Begin(ctx)
	require.NoError(t, err)
	repo, err := tx.EnsureRepository(ctx, "/repos/a", "")
	require.NoError(t, err)

	known, err := tx.RepositoryCommits(ctx, repo.ID)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{sha(1): "main"}, known)

	exists, err := tx.CommitExists(ctx, sha(1))
	require.NoError(t, err)
	assert.True(t, exists)
	exists, err = tx.CommitExists(ctx, sha(2))
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, tx.UpdateBranches(ctx, sha(1), "feature,main"))
	stamp := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, tx.StampIndexed(ctx, repo.ID, stamp))

	// attaching twice violates the join key
	assert.Error(t, tx.AttachCommit(ctx, repo.ID, sha(1)))
	require.NoError(t, tx.Rollback())

	assert.Equal(t, int64(1), countRows(t, s, commitsTable))
	assert.Equal(t, int64(2), countRows(t, s, committedFilesTable))
	assert.Equal(t, int64(1), countRows(t, s, repoToCommitsTable))

	// the rollback discarded the branch update
	tx, err = s.Begin(ctx)
	require.NoError(t, err)
	known, err = tx.RepositoryCommits(ctx, repo.ID)
	require.NoError(t, err)
	assert.Equal(t, "main", known[sha(1)])
	require.NoError(t, tx.Commit())
}

func TestStampIndexedRoundTrip(t *testing.T) {
	s := newMemoryStore(t)
	ctx := context.Background()

	tx, err := s.Begin(ctx)
	require.NoError(t, err)
	repo, err := tx.EnsureRepository(ctx, "/repos/b", "")
	require.NoError(t, err)
	stamp := time.Date(2024, 3, 4, 5, 6, 7, 890000000, time.UTC)
	require.NoError(t, tx.StampIndexed(ctx, repo.ID, stamp))
	require.NoError(t, tx.Commit())

	tx, err = s.Begin(ctx)
	require.NoError(t, err)
	defer func() { _ = tx.Rollback() }()
	again, err := tx.EnsureRepository(ctx, "/repos/b", "")
	require.NoError(t, err)
	require.NotNil(t, again.LastIndexedAt)
	assert.True(t, stamp.Equal(*again.LastIndexedAt))
}
