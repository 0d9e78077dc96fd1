// Package contract provides interfaces and shared utilities for the git-indexer internals.
package contract

import (
	"context"
	"iter"
	"time"

	"github.com/vino9org/git-indexer/schema"
)

// GitClient wraps the git binary. It is used where a full on-disk copy of a
// repository is wanted, e.g. for mirroring.
// This allows the mirror logic to be tested without a real git executable.
type GitClient interface {
	// Run executes a git command inside dir and returns its stdout.
	Run(ctx context.Context, dir string, args ...string) ([]byte, error)

	// CloneMirror creates a bare mirror of cloneURL at dest.
	CloneMirror(ctx context.Context, cloneURL, dest string) error

	// FetchMirror updates an existing mirror, pruning deleted refs.
	FetchMirror(ctx context.Context, dir string) error
}

// CommitSource walks every commit reachable from any branch or remote ref of a repository.
// The sequence stops at the first error, which is yielded with a nil commit.
type CommitSource interface {
	Commits(ctx context.Context, cloneURL string) iter.Seq2[*schema.RawCommit, error]
}

// RepositorySource enumerates clone URLs to index or mirror.
type RepositorySource interface {
	Repositories(ctx context.Context, query string) ([]string, error)
}

// IndexStore is the write side of the index.
type IndexStore interface {
	// Begin opens the single transaction used for one repository pass.
	Begin(ctx context.Context) (IndexTx, error)

	// UpdateCommitStats recomputes the derived counters of every commit from its files.
	UpdateCommitStats(ctx context.Context) error
}

// IndexTx holds all writes for one repository pass. Nothing is visible to
// readers until Commit; Rollback discards every change made through it.
type IndexTx interface {
	// EnsureRepository returns the repository with cloneURL, creating it when absent.
	EnsureRepository(ctx context.Context, cloneURL string, repoType schema.RepoType) (*schema.Repository, error)

	// RepositoryCommits returns the hashes already attached to a repository with their branch summary.
	RepositoryCommits(ctx context.Context, repoID int64) (map[string]string, error)

	// CommitExists reports whether a commit with sha is stored for any repository.
	CommitExists(ctx context.Context, sha string) (bool, error)

	// EnsureAuthor returns the author matching both name and email, creating it when absent.
	EnsureAuthor(ctx context.Context, name, email string) (*schema.Author, error)

	// CreateCommit stores a new commit together with its files.
	CreateCommit(ctx context.Context, commit *schema.Commit, files []schema.CommittedFile) error

	// AttachCommit links an existing commit to a repository.
	AttachCommit(ctx context.Context, repoID int64, sha string) error

	// UpdateBranches overwrites the branch summary of a commit.
	UpdateBranches(ctx context.Context, sha, branches string) error

	// StampIndexed records when a repository was last indexed.
	StampIndexed(ctx context.Context, repoID int64, at time.Time) error

	Commit() error
	Rollback() error
}

// QueryStore is the read side of the index.
type QueryStore interface {
	FindCommitsBySHA(ctx context.Context, sha string, limit int) ([]schema.CommitRecord, error)
	FindCommitsByEmail(ctx context.Context, email string, limit int) ([]schema.CommitRecord, error)
	FindCommitsByRepoName(ctx context.Context, name string, limit int) ([]schema.CommitRecord, error)

	// ExportRows streams every row of the denormalized commit view to fn.
	ExportRows(ctx context.Context, fn func(*schema.ExportRow) error) error

	// GetStatus returns status information about the store
	GetStatus(ctx context.Context) (schema.StoreStatus, error)
}
