// Package core has the indexing engine: commit normalization, deduplication,
// the per-repository orchestrator and the entry points used by the CLI.
package core

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/vino9org/git-indexer/internal/contract"
	"github.com/vino9org/git-indexer/internal/discover"
	"github.com/vino9org/git-indexer/internal/gitwalk"
	"github.com/vino9org/git-indexer/internal/mirror"
	"github.com/vino9org/git-indexer/internal/outwriter"
	"github.com/vino9org/git-indexer/internal/parquet"
	"github.com/vino9org/git-indexer/internal/store"
	"github.com/vino9org/git-indexer/schema"
	"go.uber.org/zap"
)

// ExecutorFunc defines the function signature of the command entry points.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, log *zap.Logger) error

// OpenStore opens the configured index and restores its snapshot.
func OpenStore(ctx context.Context, cfg *contract.Config) (*store.Store, error) {
	return store.NewStore(ctx, cfg.DBBackend, cfg.DBConnect, cfg.DBFile)
}

// FlushStore writes the in-memory index back to its snapshot. Durable
// backends and stores opened without a snapshot have nothing to flush.
func FlushStore(ctx context.Context, st *store.Store, log *zap.Logger) error {
	if st.SnapshotPath() == "" {
		return nil
	}
	start := time.Now()
	err := st.Flush(ctx, st.SnapshotPath())
	if errors.Is(err, store.ErrNoSnapshot) {
		return nil
	}
	if err != nil {
		return err
	}
	log.Info("flushed snapshot", zap.String("path", st.SnapshotPath()), zap.Duration("elapsed", time.Since(start)))
	return nil
}

// DiscoverRepositories enumerates the clone URLs selected by the configured source, query and filter.
func DiscoverRepositories(ctx context.Context, cfg *contract.Config) ([]string, error) {
	if err := contract.ValidateSource(cfg); err != nil {
		return nil, err
	}
	src, err := discover.New(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return discover.Discover(ctx, src, cfg.Query, cfg.Filter)
}

// ExecuteIndex discovers repositories, indexes each of them, refreshes the
// commit statistics and flushes the snapshot. It serves as the main entry
// point for the 'index' command.
func ExecuteIndex(ctx context.Context, cfg *contract.Config, log *zap.Logger) error {
	cloneURLs, err := DiscoverRepositories(ctx, cfg)
	if err != nil {
		return err
	}
	log.Info("discovered repositories", zap.String("source", string(cfg.Source)), zap.Int("count", len(cloneURLs)))

	if cfg.DryRun {
		for _, cloneURL := range cloneURLs {
			fmt.Println(cloneURL)
		}
		return nil
	}

	st, err := OpenStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	metrics := NewMetrics()
	src := gitwalk.NewSource(log, gitwalk.Options{GitHubToken: cfg.GitHubToken})
	ix := NewIndexer(st, src, log, metrics, IndexerOptions{ShowProgress: cfg.ShowProgress})
	summary := ix.Run(ctx, cloneURLs, cfg.RepoType, cfg.Timeout)

	// The snapshot is written even when the run was interrupted, so that the
	// repositories committed so far are kept.
	if err := FlushStore(context.WithoutCancel(ctx), st, log); err != nil {
		return fmt.Errorf("failed to flush snapshot: %w", err)
	}
	if cfg.MetricsFile != "" {
		if err := metrics.WriteFile(cfg.MetricsFile); err != nil {
			contract.LogWarn("failed to write metrics file", err)
		}
	}
	return outwriter.NewOutWriter().WriteRunSummary(summary, cfg)
}

// ExecuteStats recomputes the derived commit counters for the whole index.
func ExecuteStats(ctx context.Context, cfg *contract.Config, log *zap.Logger) error {
	st, err := OpenStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	ix := NewIndexer(st, nil, log, nil, IndexerOptions{})
	if err := ix.UpdateStats(ctx); err != nil {
		return err
	}
	return FlushStore(ctx, st, log)
}

// ExecuteSearch looks up commits by hash, email or repository name and prints them.
func ExecuteSearch(ctx context.Context, cfg *contract.Config, term string) error {
	st, err := OpenStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	records, kind, err := SearchCommits(ctx, st, term, cfg.Limit)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteSearch(records, kind, cfg)
}

// ExecuteExport writes the all_commit_data view to cfg.OutputFile as Parquet or CSV.
func ExecuteExport(ctx context.Context, cfg *contract.Config, log *zap.Logger) error {
	st, err := OpenStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	start := time.Now()
	var n int
	switch cfg.Output {
	case schema.ParquetOut:
		if cfg.OutputFile == "" {
			return fmt.Errorf("--output-file is required for parquet export")
		}
		n, err = exportParquet(ctx, st, cfg.OutputFile)
	case schema.CSVOut:
		n, err = outwriter.NewOutWriter().WriteExportCSV(ctx, st, cfg.OutputFile)
	default:
		return fmt.Errorf("export supports parquet or csv output, got %s", cfg.Output)
	}
	if err != nil {
		return fmt.Errorf("failed to export commit data: %w", err)
	}
	log.Info("exported commit data", zap.Int("rows", n), zap.String("format", string(cfg.Output)),
		zap.Duration("elapsed", time.Since(start)))
	return nil
}

func exportParquet(ctx context.Context, qs contract.QueryStore, path string) (int, error) {
	file, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("failed to create parquet file: %w", err)
	}
	n, err := parquet.ExportCommitData(ctx, qs, file)
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(path)
		return 0, err
	}
	return n, nil
}

// ExecuteStatus prints the state of the index.
func ExecuteStatus(ctx context.Context, cfg *contract.Config, _ *zap.Logger) error {
	st, err := OpenStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	status, err := st.GetStatus(ctx)
	if err != nil {
		return err
	}
	store.PrintStoreStatus(status)
	return nil
}

// ExecuteMirror discovers repositories and keeps a bare mirror of each under cfg.MirrorDir.
func ExecuteMirror(ctx context.Context, cfg *contract.Config, log *zap.Logger) error {
	if cfg.MirrorDir == "" {
		return fmt.Errorf("--mirror-dir is required")
	}
	cloneURLs, err := DiscoverRepositories(ctx, cfg)
	if err != nil {
		return err
	}

	m := mirror.New(contract.NewLocalGitClient(), log, mirror.Options{
		Dir:       cfg.MirrorDir,
		DryRun:    cfg.DryRun,
		Overwrite: cfg.Overwrite,
		Workers:   cfg.Workers,
	})
	results, err := m.MirrorAll(ctx, cloneURLs)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteMirror(results, cfg)
}
