package core

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	pq "github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vino9org/git-indexer/internal/contract"
	"github.com/vino9org/git-indexer/internal/parquet"
	"github.com/vino9org/git-indexer/internal/store"
	"github.com/vino9org/git-indexer/schema"
	"go.uber.org/zap"
)

// initLocalRepo creates a repository at dir with the given commits, each one
// writing a single file.
func initLocalRepo(t *testing.T, dir string, files ...string) {
	t.Helper()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	wt, err := repo.Worktree()
	require.NoError(t, err)

	when := time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC)
	for i, name := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("package main\n\nfunc main() {}\n"), 0o644))
		_, err := wt.Add(name)
		require.NoError(t, err)
		when = when.Add(time.Hour)
		_, err = wt.Commit("add "+name, &git.CommitOptions{
			Author: &object.Signature{Name: "Dev", Email: "dev@example.com", When: when},
		})
		require.NoError(t, err, "commit %d", i)
	}
}

func testConfig(t *testing.T, query string) *contract.Config {
	t.Helper()
	dir := t.TempDir()
	return &contract.Config{
		Source:    schema.LocalSource,
		Query:     query,
		Filter:    contract.DefaultFilter,
		RepoType:  schema.LocalRepo,
		DBBackend: schema.SQLiteBackend,
		DBFile:    filepath.Join(dir, "db", "index.db"),
		Timeout:   time.Hour,
		Output:    schema.JSONOut,
		Limit:     contract.DefaultResultLimit,
		Workers:   1,
	}
}

func TestExecuteIndexEndToEnd(t *testing.T) {
	root := t.TempDir()
	initLocalRepo(t, filepath.Join(root, "app"), "main.go", "util.go", "go.sum")
	initLocalRepo(t, filepath.Join(root, "lib"), "lib.go")

	cfg := testConfig(t, root)
	cfg.OutputFile = filepath.Join(t.TempDir(), "summary.json")
	cfg.MetricsFile = filepath.Join(t.TempDir(), "index.prom")
	ctx := context.Background()
	log := zap.NewNop()

	require.NoError(t, ExecuteIndex(ctx, cfg, log))
	assert.FileExists(t, cfg.DBFile, "snapshot is flushed at the end of the run")
	assert.FileExists(t, cfg.MetricsFile)

	data, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)
	var summary schema.RunSummary
	require.NoError(t, json.Unmarshal(data, &summary))
	assert.Equal(t, 2, summary.Repositories)
	assert.Equal(t, 4, summary.Changes)
	assert.True(t, summary.StatsUpdated)
	assert.NotEmpty(t, summary.RunID)

	t.Run("second run finds nothing new", func(t *testing.T) {
		require.NoError(t, ExecuteIndex(ctx, cfg, log))
		data, err := os.ReadFile(cfg.OutputFile)
		require.NoError(t, err)
		var again schema.RunSummary
		require.NoError(t, json.Unmarshal(data, &again))
		assert.Equal(t, 0, again.Changes)
		assert.False(t, again.StatsUpdated)
	})

	t.Run("search reads the snapshot", func(t *testing.T) {
		searchCfg := *cfg
		searchCfg.OutputFile = filepath.Join(t.TempDir(), "search.json")
		require.NoError(t, ExecuteSearch(ctx, &searchCfg, "app"))

		data, err := os.ReadFile(searchCfg.OutputFile)
		require.NoError(t, err)
		var result struct {
			Kind    string                `json:"kind"`
			Commits []schema.CommitRecord `json:"commits"`
		}
		require.NoError(t, json.Unmarshal(data, &result))
		assert.Equal(t, "repo", result.Kind)
		assert.Len(t, result.Commits, 3)
		assert.Equal(t, "dev@example.com", result.Commits[0].AuthorEmail)
	})

	t.Run("export parquet", func(t *testing.T) {
		exportCfg := *cfg
		exportCfg.Output = schema.ParquetOut
		exportCfg.OutputFile = filepath.Join(t.TempDir(), "all_commit_data.parquet")
		require.NoError(t, ExecuteExport(ctx, &exportCfg, log))

		rows, err := pq.ReadFile[parquet.CommitDataRow](exportCfg.OutputFile)
		require.NoError(t, err)
		assert.Len(t, rows, 4, "one row per committed file")

		ignored := 0
		for _, r := range rows {
			if r.IsSuperfluous {
				ignored++
				assert.Equal(t, "go.sum", r.FileName)
			}
		}
		assert.Equal(t, 1, ignored)
	})

	t.Run("export csv", func(t *testing.T) {
		exportCfg := *cfg
		exportCfg.Output = schema.CSVOut
		exportCfg.OutputFile = filepath.Join(t.TempDir(), "all_commit_data.csv")
		require.NoError(t, ExecuteExport(ctx, &exportCfg, log))

		file, err := os.Open(exportCfg.OutputFile)
		require.NoError(t, err)
		defer file.Close()
		records, err := csv.NewReader(file).ReadAll()
		require.NoError(t, err)
		assert.Len(t, records, 5, "header plus one row per committed file")
	})

	t.Run("export rejects text output", func(t *testing.T) {
		exportCfg := *cfg
		exportCfg.Output = schema.TextOut
		assert.Error(t, ExecuteExport(ctx, &exportCfg, log))
	})

	t.Run("stats and status", func(t *testing.T) {
		require.NoError(t, ExecuteStats(ctx, cfg, log))
		require.NoError(t, ExecuteStatus(ctx, cfg, log))
	})
}

func TestExecuteIndexDryRun(t *testing.T) {
	root := t.TempDir()
	initLocalRepo(t, filepath.Join(root, "app"), "main.go")

	cfg := testConfig(t, root)
	cfg.DryRun = true
	require.NoError(t, ExecuteIndex(context.Background(), cfg, zap.NewNop()))
	assert.NoFileExists(t, cfg.DBFile, "dry run never opens the store")
}

func TestExecuteIndexInvalidSource(t *testing.T) {
	cfg := testConfig(t, filepath.Join(t.TempDir(), "missing"))
	err := ExecuteIndex(context.Background(), cfg, zap.NewNop())
	assert.ErrorContains(t, err, "is not a directory")
}

func TestExecuteMirrorRequiresDir(t *testing.T) {
	cfg := testConfig(t, t.TempDir())
	assert.ErrorContains(t, ExecuteMirror(context.Background(), cfg, zap.NewNop()), "--mirror-dir is required")
}

func TestFlushStore(t *testing.T) {
	t.Run("no snapshot path", func(t *testing.T) {
		assert.NoError(t, FlushStore(context.Background(), newTestStore(t), zap.NewNop()))
	})

	t.Run("file database has no snapshot", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "index.db")
		st, err := store.NewStore(context.Background(), schema.SQLiteBackend, path, filepath.Join(t.TempDir(), "ignored.db"))
		require.NoError(t, err)
		defer st.Close()
		assert.NoError(t, FlushStore(context.Background(), st, zap.NewNop()))
	})
}
