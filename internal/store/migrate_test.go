package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vino9org/git-indexer/schema"
)

func TestMigrateStoreFileBacked(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "index.db")

	// Run migration to latest version (should go to version 1)
	require.NoError(t, MigrateStore(ctx, schema.SQLiteBackend, dbPath, "", -1))

	// Run migration again (should be a no-op)
	require.NoError(t, MigrateStore(ctx, schema.SQLiteBackend, dbPath, "", -1))

	// Run migration to a specific version (version 1)
	require.NoError(t, MigrateStore(ctx, schema.SQLiteBackend, dbPath, "", 1))

	// Rollback to version 0
	require.NoError(t, MigrateStore(ctx, schema.SQLiteBackend, dbPath, "", 0))

	s, err := openStore(ctx, schema.SQLiteBackend, dbPath, "")
	require.NoError(t, err)
	version, err := s.schemaVersion()
	require.NoError(t, err)
	assert.Equal(t, uint(0), version)
	require.NoError(t, s.Close())

	// Migrate back up to version 1
	require.NoError(t, MigrateStore(ctx, schema.SQLiteBackend, dbPath, "", 1))
}

func TestMigrateStoreSnapshot(t *testing.T) {
	ctx := context.Background()
	snapshot := filepath.Join(t.TempDir(), "index.db")

	require.NoError(t, MigrateStore(ctx, schema.SQLiteBackend, "", snapshot, -1))
	assert.FileExists(t, snapshot)

	s, err := NewStore(ctx, schema.SQLiteBackend, "", snapshot)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()
	version, err := s.schemaVersion()
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
}

func TestMigrateStoreUnsupportedBackend(t *testing.T) {
	err := MigrateStore(context.Background(), "oracle", "", "", -1)
	assert.Error(t, err)
}
