package contract

import (
	"context"
	"iter"

	"github.com/stretchr/testify/mock"
	"github.com/vino9org/git-indexer/schema"
)

// MockCommitSource is a mock implementation of CommitSource for testing.
type MockCommitSource struct {
	mock.Mock
}

var _ CommitSource = &MockCommitSource{} // Compile-time check

// Commits implements the CommitSource interface.
func (m *MockCommitSource) Commits(ctx context.Context, cloneURL string) iter.Seq2[*schema.RawCommit, error] {
	seq, _ := m.Called(ctx, cloneURL).Get(0).(iter.Seq2[*schema.RawCommit, error])
	if seq == nil {
		return func(func(*schema.RawCommit, error) bool) {}
	}
	return seq
}

// CommitSeq yields commits in order, then err when it is not nil.
func CommitSeq(err error, commits ...*schema.RawCommit) iter.Seq2[*schema.RawCommit, error] {
	return func(yield func(*schema.RawCommit, error) bool) {
		for _, c := range commits {
			if !yield(c, nil) {
				return
			}
		}
		if err != nil {
			yield(nil, err)
		}
	}
}

// MockRepositorySource is a mock implementation of RepositorySource for testing.
type MockRepositorySource struct {
	mock.Mock
}

var _ RepositorySource = &MockRepositorySource{} // Compile-time check

// Repositories implements the RepositorySource interface.
func (m *MockRepositorySource) Repositories(ctx context.Context, query string) ([]string, error) {
	args := m.Called(ctx, query)
	urls, _ := args.Get(0).([]string)
	return urls, args.Error(1)
}
