package core

import (
	"context"
	"fmt"

	"github.com/vino9org/git-indexer/internal/contract"
	"github.com/vino9org/git-indexer/schema"
)

// Action is what the dedup step did with a traversed commit.
type Action int

// All dedup actions.
const (
	ActionSkip Action = iota
	ActionUpdateBranches
	ActionReuse
	ActionCreate
)

func (a Action) String() string {
	switch a {
	case ActionSkip:
		return "skip"
	case ActionUpdateBranches:
		return "update_branches"
	case ActionReuse:
		return "reuse"
	case ActionCreate:
		return "create"
	}
	return fmt.Sprintf("Action(%d)", int(a))
}

// deduper applies traversed commits of one repository inside its transaction.
// known maps every hash attached to the repository to its branch summary; it
// is loaded once before traversal and kept current as commits are attached.
type deduper struct {
	tx     contract.IndexTx
	repoID int64
	known  map[string]string
}

func newDeduper(ctx context.Context, tx contract.IndexTx, repoID int64) (*deduper, error) {
	known, err := tx.RepositoryCommits(ctx, repoID)
	if err != nil {
		return nil, fmt.Errorf("failed to load known commits: %w", err)
	}
	if known == nil {
		known = make(map[string]string)
	}
	return &deduper{tx: tx, repoID: repoID, known: known}, nil
}

// apply persists whatever raw needs and reports the action taken.
func (d *deduper) apply(ctx context.Context, raw *schema.RawCommit) (Action, error) {
	branches := NormalizeBranches(raw.Branches)

	if current, ok := d.known[raw.Hash]; ok {
		if current == branches {
			return ActionSkip, nil
		}
		if err := d.tx.UpdateBranches(ctx, raw.Hash, branches); err != nil {
			return ActionSkip, err
		}
		d.known[raw.Hash] = branches
		return ActionUpdateBranches, nil
	}

	exists, err := d.tx.CommitExists(ctx, raw.Hash)
	if err != nil {
		return ActionSkip, err
	}
	if exists {
		if err := d.tx.AttachCommit(ctx, d.repoID, raw.Hash); err != nil {
			return ActionSkip, err
		}
		d.known[raw.Hash] = branches
		return ActionReuse, nil
	}

	author, err := d.tx.EnsureAuthor(ctx, raw.AuthorName, raw.AuthorEmail)
	if err != nil {
		return ActionSkip, err
	}
	commit, files := NormalizeCommit(raw, author.ID)
	if err := d.tx.CreateCommit(ctx, commit, files); err != nil {
		return ActionSkip, err
	}
	if err := d.tx.AttachCommit(ctx, d.repoID, raw.Hash); err != nil {
		return ActionSkip, err
	}
	d.known[raw.Hash] = commit.Branches
	return ActionCreate, nil
}
