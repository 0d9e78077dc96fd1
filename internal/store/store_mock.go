package store

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/vino9org/git-indexer/internal/contract"
	"github.com/vino9org/git-indexer/schema"
)

// MockIndexStore is a mock implementation of IndexStore for testing.
type MockIndexStore struct {
	mock.Mock
}

var _ contract.IndexStore = &MockIndexStore{} // Compile-time check

// Begin implements the IndexStore interface.
func (m *MockIndexStore) Begin(ctx context.Context) (contract.IndexTx, error) {
	args := m.Called(ctx)
	tx, _ := args.Get(0).(contract.IndexTx)
	return tx, args.Error(1)
}

// UpdateCommitStats implements the IndexStore interface.
func (m *MockIndexStore) UpdateCommitStats(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// MockIndexTx is a mock implementation of IndexTx for testing.
type MockIndexTx struct {
	mock.Mock
}

var _ contract.IndexTx = &MockIndexTx{} // Compile-time check

// EnsureRepository implements the IndexTx interface.
func (m *MockIndexTx) EnsureRepository(ctx context.Context, cloneURL string, repoType schema.RepoType) (*schema.Repository, error) {
	args := m.Called(ctx, cloneURL, repoType)
	repo, _ := args.Get(0).(*schema.Repository)
	return repo, args.Error(1)
}

// RepositoryCommits implements the IndexTx interface.
func (m *MockIndexTx) RepositoryCommits(ctx context.Context, repoID int64) (map[string]string, error) {
	args := m.Called(ctx, repoID)
	known, _ := args.Get(0).(map[string]string)
	return known, args.Error(1)
}

// CommitExists implements the IndexTx interface.
func (m *MockIndexTx) CommitExists(ctx context.Context, sha string) (bool, error) {
	args := m.Called(ctx, sha)
	return args.Bool(0), args.Error(1)
}

// EnsureAuthor implements the IndexTx interface.
func (m *MockIndexTx) EnsureAuthor(ctx context.Context, name, email string) (*schema.Author, error) {
	args := m.Called(ctx, name, email)
	author, _ := args.Get(0).(*schema.Author)
	return author, args.Error(1)
}

// CreateCommit implements the IndexTx interface.
func (m *MockIndexTx) CreateCommit(ctx context.Context, commit *schema.Commit, files []schema.CommittedFile) error {
	return m.Called(ctx, commit, files).Error(0)
}

// AttachCommit implements the IndexTx interface.
func (m *MockIndexTx) AttachCommit(ctx context.Context, repoID int64, sha string) error {
	return m.Called(ctx, repoID, sha).Error(0)
}

// UpdateBranches implements the IndexTx interface.
func (m *MockIndexTx) UpdateBranches(ctx context.Context, sha, branches string) error {
	return m.Called(ctx, sha, branches).Error(0)
}

// StampIndexed implements the IndexTx interface.
func (m *MockIndexTx) StampIndexed(ctx context.Context, repoID int64, at time.Time) error {
	return m.Called(ctx, repoID, at).Error(0)
}

// Commit implements the IndexTx interface.
func (m *MockIndexTx) Commit() error {
	return m.Called().Error(0)
}

// Rollback implements the IndexTx interface.
func (m *MockIndexTx) Rollback() error {
	return m.Called().Error(0)
}
