package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vino9org/git-indexer/schema"
)

func TestGetStatus(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "index.db")
	s, err := NewStore(ctx, schema.SQLiteBackend, "", path)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	status, err := s.GetStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", status.Backend)
	assert.True(t, status.Connected)
	assert.True(t, status.InMemory)
	assert.Equal(t, path, status.SnapshotPath)
	assert.Zero(t, status.SnapshotBytes)
	assert.Equal(t, uint(1), status.SchemaVersion)
	assert.Empty(t, status.LastIndexedRepo)
	assert.Len(t, status.TableSizes, 5)

	seedCommit(t, s, "/repos/a", &schema.Commit{SHA: sha(1), CreatedAt: time.Now()}, nil)
	tx, err := s.Begin(ctx)
	require.NoError(t, err)
	repo, err := tx.EnsureRepository(ctx, "/repos/a", "")
	require.NoError(t, err)
	require.NoError(t, tx.StampIndexed(ctx, repo.ID, time.Now()))
	require.NoError(t, tx.Commit())
	require.NoError(t, s.Flush(ctx, path))

	status, err = s.GetStatus(ctx)
	require.NoError(t, err)
	assert.Positive(t, status.SnapshotBytes)
	assert.Equal(t, int64(1), status.TableSizes[commitsTable])
	assert.Equal(t, int64(1), status.TableSizes[repoToCommitsTable])
	assert.Equal(t, "/repos/a", status.LastIndexedRepo)
	assert.NotNil(t, status.LastIndexedAt)

	assert.NotPanics(t, func() { PrintStoreStatus(status) })
}
