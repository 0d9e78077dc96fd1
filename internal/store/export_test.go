package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vino9org/git-indexer/schema"
)

func TestExportRows(t *testing.T) {
	s := newMemoryStore(t)
	ctx := context.Background()
	when := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)

	seedCommit(t, s, "https://gitlab.com/team/svc.git", &schema.Commit{SHA: sha(1), CreatedAt: when, Branches: "main", NLines: 9}, []schema.CommittedFile{
		{ChangeType: schema.AddChange, FilePath: "cmd/main.go", FileName: "main.go", FileType: "go", NLinesAdded: 7, NLinesChanged: 7, NMethods: 2},
		{ChangeType: schema.AddChange, FilePath: "yarn.lock", FileName: "yarn.lock", FileType: "lock", NLinesAdded: 2, NLinesChanged: 2, IsOnExcludeList: true, IsSuperfluous: true},
	})
	// a merge has no files and therefore no export rows
	seedCommit(t, s, "https://gitlab.com/team/svc.git", &schema.Commit{SHA: sha(2), CreatedAt: when, IsMerge: true}, nil)
	require.NoError(t, s.UpdateCommitStats(ctx))

	var rows []schema.ExportRow
	require.NoError(t, s.ExportRows(ctx, func(r *schema.ExportRow) error {
		rows = append(rows, *r)
		return nil
	}))

	require.Len(t, rows, 2)
	first := rows[0]
	assert.Equal(t, sha(1), first.SHA)
	assert.Equal(t, "alice@example.com", first.RealEmail)
	assert.True(t, when.Equal(first.CommitDate))
	assert.Equal(t, when.Unix(), first.CommitDateTS)
	assert.Equal(t, 9, first.CommitNLines)
	assert.Equal(t, 7, first.CommitNLinesChanged)
	assert.Equal(t, 2, first.CommitNLinesIgnored)
	assert.Equal(t, "cmd/main.go", first.FilePath)
	assert.Equal(t, "ADD", first.ChangeType)
	assert.Equal(t, 2, first.NMethods)
	assert.Equal(t, "svc", first.RepoName)
	assert.Equal(t, "gitlab", first.RepoType)
	assert.Equal(t, "https://gitlab.com/team/svc", first.BrowseURL)
	assert.True(t, first.RepoIncludeInStats)
	assert.Nil(t, first.LastIndexedAt)

	assert.True(t, rows[1].IsSuperfluous)
	assert.True(t, rows[1].IsOnExcludeList)
}

func TestExportRowsStopsOnCallbackError(t *testing.T) {
	s := newMemoryStore(t)
	seedCommit(t, s, "/repos/a", &schema.Commit{SHA: sha(1), CreatedAt: time.Now()}, []schema.CommittedFile{
		{ChangeType: schema.AddChange, FilePath: "a", FileName: "a", FileType: "generic"},
		{ChangeType: schema.AddChange, FilePath: "b", FileName: "b", FileType: "generic"},
	})

	calls := 0
	boom := errors.New("disk full")
	err := s.ExportRows(context.Background(), func(*schema.ExportRow) error {
		calls++
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
}
