// Package gitwalk traverses the commit history of a git repository with go-git
// and turns every reachable commit into a schema.RawCommit.
package gitwalk

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"sort"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/go-git/go-git/v5/storage/memory"
	"github.com/vino9org/git-indexer/internal/contract"
	"github.com/vino9org/git-indexer/schema"
	"go.uber.org/zap"
)

// Options configures a Source.
type Options struct {
	// GitHubToken authenticates https clones from github.com.
	GitHubToken string
}

// Source walks repositories with go-git. Local paths are opened in place,
// remote URLs are cloned into memory for the duration of the walk.
type Source struct {
	log  *zap.Logger
	opts Options
}

var _ contract.CommitSource = &Source{} // Compile-time check

// NewSource creates a Source. A nil logger disables logging.
func NewSource(log *zap.Logger, opts Options) *Source {
	if log == nil {
		log = zap.NewNop()
	}
	return &Source{log: log, opts: opts}
}

// Commits implements the CommitSource interface. Commits are yielded oldest
// first by committer time; each carries the short names of every branch and
// remote ref it is reachable from.
func (s *Source) Commits(ctx context.Context, cloneURL string) iter.Seq2[*schema.RawCommit, error] {
	return func(yield func(*schema.RawCommit, error) bool) {
		repo, err := s.open(ctx, cloneURL)
		if err != nil {
			yield(nil, err)
			return
		}

		commits, branches, err := reachableCommits(ctx, repo)
		if err != nil {
			yield(nil, err)
			return
		}
		s.log.Debug("walking repository", zap.String("repo", cloneURL), zap.Int("commits", len(commits)))

		for _, c := range commits {
			if err := ctx.Err(); err != nil {
				yield(nil, err)
				return
			}
			raw, err := toRawCommit(ctx, c, branches[c.Hash])
			if err != nil {
				yield(nil, fmt.Errorf("failed to read commit %s: %w", c.Hash, err))
				return
			}
			if !yield(raw, nil) {
				return
			}
		}
	}
}

// IsRemote reports whether cloneURL has to be cloned rather than opened in place.
func IsRemote(cloneURL string) bool {
	if strings.HasPrefix(cloneURL, "git@") {
		return true
	}
	return strings.Contains(cloneURL, "://") && !strings.HasPrefix(cloneURL, "file://")
}

func (s *Source) open(ctx context.Context, cloneURL string) (*git.Repository, error) {
	if !IsRemote(cloneURL) {
		path := strings.TrimPrefix(cloneURL, "file://")
		repo, err := git.PlainOpen(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open repository %s: %w", path, err)
		}
		return repo, nil
	}

	opts := &git.CloneOptions{URL: cloneURL, Tags: git.NoTags}
	if s.opts.GitHubToken != "" && strings.HasPrefix(cloneURL, "https://github.com/") {
		opts.Auth = &githttp.BasicAuth{Username: "x-access-token", Password: s.opts.GitHubToken}
	}
	s.log.Debug("cloning into memory", zap.String("repo", cloneURL))
	repo, err := git.CloneContext(ctx, memory.NewStorage(), nil, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to clone %s: %w", cloneURL, err)
	}
	return repo, nil
}

// reachableCommits collects every commit reachable from a branch or remote
// ref together with the names of the refs reaching it. An empty repository
// yields nothing.
func reachableCommits(ctx context.Context, repo *git.Repository) ([]*object.Commit, map[plumbing.Hash][]string, error) {
	refs, err := repo.References()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list references: %w", err)
	}

	var tips []*plumbing.Reference
	err = refs.ForEach(func(ref *plumbing.Reference) error {
		if ref.Type() != plumbing.HashReference {
			return nil
		}
		if ref.Name().IsBranch() || ref.Name().IsRemote() {
			tips = append(tips, ref)
		}
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list references: %w", err)
	}

	byHash := make(map[plumbing.Hash]*object.Commit)
	branches := make(map[plumbing.Hash][]string)
	for _, ref := range tips {
		tip, err := repo.CommitObject(ref.Hash())
		if errors.Is(err, plumbing.ErrObjectNotFound) {
			continue
		}
		if err != nil {
			return nil, nil, fmt.Errorf("failed to resolve %s: %w", ref.Name(), err)
		}

		name := ref.Name().Short()
		err = object.NewCommitPreorderIter(tip, nil, nil).ForEach(func(c *object.Commit) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if _, ok := byHash[c.Hash]; !ok {
				byHash[c.Hash] = c
			}
			branches[c.Hash] = append(branches[c.Hash], name)
			return nil
		})
		if err != nil && !errors.Is(err, storer.ErrStop) {
			return nil, nil, fmt.Errorf("failed to walk %s: %w", ref.Name(), err)
		}
	}

	commits := make([]*object.Commit, 0, len(byHash))
	for _, c := range byHash {
		commits = append(commits, c)
	}
	sort.Slice(commits, func(i, j int) bool {
		a, b := commits[i].Committer.When, commits[j].Committer.When
		if !a.Equal(b) {
			return a.Before(b)
		}
		return commits[i].Hash.String() < commits[j].Hash.String()
	})
	for h := range branches {
		sort.Strings(branches[h])
	}
	return commits, branches, nil
}

// toRawCommit reports the committer identity. Merge commits carry no files.
func toRawCommit(ctx context.Context, c *object.Commit, branches []string) (*schema.RawCommit, error) {
	raw := &schema.RawCommit{
		Hash:        c.Hash.String(),
		AuthorName:  c.Committer.Name,
		AuthorEmail: c.Committer.Email,
		CommittedAt: c.Committer.When,
		IsMerge:     c.NumParents() > 1,
		Message:     strings.TrimSpace(c.Message),
		Branches:    branches,
	}
	if raw.IsMerge {
		return raw, nil
	}

	files, err := commitFiles(ctx, c)
	if err != nil {
		return nil, err
	}
	raw.Files = files
	return raw, nil
}
