package core

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/vino9org/git-indexer/schema"
	"go.uber.org/zap"
)

// Run indexes every repository in turn and, when anything changed, refreshes
// the commit statistics once at the end. All log lines of the run carry a
// fresh run_id.
func (ix *Indexer) Run(ctx context.Context, cloneURLs []string, repoType schema.RepoType, timeout time.Duration) schema.RunSummary {
	runID := uuid.NewString()
	run := *ix
	run.log = ix.log.With(zap.String("run_id", runID))

	start := ix.now()
	summary := schema.RunSummary{RunID: runID}
	run.log.Info("starting run", zap.Int("repositories", len(cloneURLs)), zap.Duration("timeout", timeout))

	for _, cloneURL := range cloneURLs {
		if err := ctx.Err(); err != nil {
			run.log.Warn("run interrupted", zap.Error(err))
			break
		}
		result := run.Index(ctx, cloneURL, repoType, timeout)
		summary.Results = append(summary.Results, result)
		summary.Repositories++
		summary.Changes += result.Changes()
		if result.Failed {
			summary.Failed++
		}
	}

	if summary.Changes > 0 {
		summary.StatsUpdated = run.UpdateStats(context.WithoutCancel(ctx)) == nil
	}

	summary.Elapsed = ix.now().Sub(start)
	run.log.Info("run finished",
		zap.Int("repositories", summary.Repositories),
		zap.Int("changes", summary.Changes),
		zap.Int("failed", summary.Failed),
		zap.Duration("elapsed", summary.Elapsed))
	return summary
}

// UpdateStats recomputes the derived commit counters.
func (ix *Indexer) UpdateStats(ctx context.Context) error {
	start := ix.now()
	err := ix.store.UpdateCommitStats(ctx)
	elapsed := ix.now().Sub(start)
	ix.metrics.observeRollup(elapsed)
	if err != nil {
		ix.log.Error("failed to update commit stats", zap.Error(err))
		return err
	}
	ix.log.Info("updated commit stats", zap.Duration("elapsed", elapsed))
	return nil
}
