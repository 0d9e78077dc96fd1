package core

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/vino9org/git-indexer/internal/contract"
	"github.com/vino9org/git-indexer/schema"
	"go.uber.org/zap"
)

const (
	defaultProgressEvery = 200
	displayURLWidth      = 60
)

// IndexerOptions tunes an Indexer.
type IndexerOptions struct {
	ShowProgress  bool
	ProgressEvery int // defaults to 200 processed commits
}

// Indexer brings the store up to date with the history of one repository at a time.
type Indexer struct {
	store   contract.IndexStore
	source  contract.CommitSource
	log     *zap.Logger
	metrics *Metrics
	opts    IndexerOptions
	now     func() time.Time
}

// NewIndexer wires an Indexer. Nil logger and metrics get no-op defaults.
func NewIndexer(st contract.IndexStore, src contract.CommitSource, log *zap.Logger, metrics *Metrics, opts IndexerOptions) *Indexer {
	if log == nil {
		log = zap.NewNop()
	}
	if metrics == nil {
		metrics = NewMetrics()
	}
	if opts.ProgressEvery <= 0 {
		opts.ProgressEvery = defaultProgressEvery
	}
	return &Indexer{store: st, source: src, log: log, metrics: metrics, opts: opts, now: time.Now}
}

// IndexRepository indexes cloneURL and returns the number of changes made:
// commits newly attached to the repository plus branch summary updates.
// Failures are logged and count as zero.
func (ix *Indexer) IndexRepository(ctx context.Context, cloneURL string, repoType schema.RepoType, timeout time.Duration) int {
	return ix.Index(ctx, cloneURL, repoType, timeout).Changes()
}

// Index is IndexRepository with the full outcome. It never returns an error
// and never panics; a failed pass reports Failed with zero counts and leaves
// nothing but the repository row behind.
func (ix *Indexer) Index(ctx context.Context, cloneURL string, repoType schema.RepoType, timeout time.Duration) (result schema.IndexResult) {
	start := ix.now()
	log := ix.log.With(zap.String("repo", contract.DisplayURL(cloneURL, displayURLWidth)))
	p := &pass{ix: ix, log: log, result: schema.IndexResult{CloneURL: cloneURL}}

	defer func() {
		if r := recover(); r != nil {
			p.fail(fmt.Errorf("panic: %v", r))
		}
		p.result.Elapsed = ix.now().Sub(start)
		outcome := resultIndexed
		switch {
		case p.result.Failed:
			outcome = resultFailed
		case p.result.TimedOut:
			outcome = resultTimedOut
		}
		ix.metrics.observeRepository(outcome, p.result.Elapsed)
		result = p.result
	}()

	if err := p.run(ctx, cloneURL, repoType, timeout); err != nil {
		p.fail(err)
		return
	}
	ix.metrics.observeCommits(p.created, p.reused, p.result.BranchUpdates)
	log.Info("indexed repository",
		zap.Int("new_commits", p.result.NewCommits),
		zap.Int("branch_updates", p.result.BranchUpdates),
		zap.Duration("elapsed", ix.now().Sub(start)),
		zap.String("heap", heapInUse()))
	return
}

// pass is the state of one Index call.
type pass struct {
	ix       *Indexer
	log      *zap.Logger
	tx       contract.IndexTx
	result   schema.IndexResult
	lastHash string
	created  int
	reused   int
}

func (p *pass) run(ctx context.Context, cloneURL string, repoType schema.RepoType, timeout time.Duration) error {
	repo, err := p.ensureRepository(ctx, cloneURL, repoType)
	if err != nil {
		return err
	}

	if p.tx, err = p.ix.store.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	dd, err := newDeduper(ctx, p.tx, repo.ID)
	if err != nil {
		return err
	}

	traversalStart := p.ix.now()
	processed := 0
	for raw, err := range p.ix.source.Commits(ctx, cloneURL) {
		if err != nil {
			return err
		}
		if elapsed := p.ix.now().Sub(traversalStart); elapsed > timeout {
			p.result.TimedOut = true
			p.log.Warn("timeout reached, keeping partial results",
				zap.Duration("timeout", timeout),
				zap.Int("new_commits", p.result.NewCommits))
			break
		}

		p.lastHash = raw.Hash
		action, err := dd.apply(ctx, raw)
		if err != nil {
			return err
		}
		switch action {
		case ActionCreate:
			p.created++
			p.result.NewCommits++
		case ActionReuse:
			p.reused++
			p.result.NewCommits++
		case ActionUpdateBranches:
			p.result.BranchUpdates++
		}

		processed++
		if p.ix.opts.ShowProgress && processed%p.ix.opts.ProgressEvery == 0 {
			p.log.Info("progress",
				zap.Int("processed", processed),
				zap.Int("new_commits", p.result.NewCommits),
				zap.Int("branch_updates", p.result.BranchUpdates),
				zap.String("heap", heapInUse()))
		}
	}

	if err := p.tx.StampIndexed(ctx, repo.ID, p.ix.now().UTC()); err != nil {
		return err
	}
	tx := p.tx
	p.tx = nil
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

// ensureRepository registers the repository in its own transaction so the
// row survives a failed pass.
func (p *pass) ensureRepository(ctx context.Context, cloneURL string, repoType schema.RepoType) (*schema.Repository, error) {
	tx, err := p.ix.store.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	repo, err := tx.EnsureRepository(ctx, cloneURL, repoType)
	if err != nil {
		_ = tx.Rollback()
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to register repository: %w", err)
	}
	return repo, nil
}

// fail rolls back the open transaction and resets the counts.
func (p *pass) fail(err error) {
	if p.tx != nil {
		if rbErr := p.tx.Rollback(); rbErr != nil {
			p.log.Warn("rollback failed", zap.Error(rbErr))
		}
		p.tx = nil
	}
	p.log.Error("failed to index repository",
		zap.String("clone_url", p.result.CloneURL),
		zap.String("sha", p.lastHash),
		zap.Error(err))
	p.result = schema.IndexResult{CloneURL: p.result.CloneURL, Failed: true}
	p.created, p.reused = 0, 0
}

func heapInUse() string {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	return humanize.Bytes(ms.HeapInuse)
}
