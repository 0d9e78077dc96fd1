package gitwalk

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/utils/merkletrie"
	"github.com/vino9org/git-indexer/schema"
)

// commitFiles diffs a commit against its only parent, or against the empty
// tree for a root commit.
func commitFiles(ctx context.Context, c *object.Commit) ([]schema.RawFile, error) {
	tree, err := c.Tree()
	if err != nil {
		return nil, err
	}

	var parentTree *object.Tree
	if c.NumParents() == 1 {
		parent, err := c.Parent(0)
		if err != nil {
			return nil, err
		}
		if parentTree, err = parent.Tree(); err != nil {
			return nil, err
		}
	}

	changes, err := object.DiffTreeWithOptions(ctx, parentTree, tree, object.DefaultDiffTreeOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to diff trees: %w", err)
	}

	files := make([]schema.RawFile, 0, len(changes))
	for _, change := range changes {
		f, err := fileRecord(change)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, nil
}

func fileRecord(change *object.Change) (schema.RawFile, error) {
	rec := schema.RawFile{OldPath: change.From.Name, NewPath: change.To.Name}

	action, err := change.Action()
	if err != nil {
		return rec, err
	}
	switch {
	case action == merkletrie.Insert:
		rec.Kind = schema.AddChange
	case action == merkletrie.Delete:
		rec.Kind = schema.DeleteChange
	case rec.OldPath != rec.NewPath:
		rec.Kind = schema.RenameChange
	default:
		rec.Kind = schema.ModifyChange
	}

	from, to, err := change.Files()
	if errors.Is(err, plumbing.ErrObjectNotFound) {
		// submodule entries point at commits of another repository
		return rec, nil
	}
	if err != nil {
		return rec, fmt.Errorf("failed to read %s: %w", rec.Path(), err)
	}

	oldText, oldBinary, err := blobText(from)
	if err != nil {
		return rec, err
	}
	newText, newBinary, err := blobText(to)
	if err != nil {
		return rec, err
	}
	if oldBinary || newBinary {
		return rec, nil
	}

	d := diffLines(oldText, newText)
	rec.Added = d.added
	rec.Deleted = d.deleted
	rec.NLOC = nonBlankLines(newText)

	if isGoSource(rec.Path()) {
		newFuncs := goFuncs(rec.NewPath, newText)
		rec.Methods = len(newFuncs)
		rec.MethodsChanged = countChangedFuncs(newFuncs, d.newRanges, goFuncs(rec.OldPath, oldText), d.oldRanges)
	}
	return rec, nil
}

// blobText returns the contents of a file, or reports it as binary without
// reading it. A nil file is empty.
func blobText(f *object.File) (string, bool, error) {
	if f == nil {
		return "", false, nil
	}
	binary, err := f.IsBinary()
	if err != nil {
		return "", false, fmt.Errorf("failed to read %s: %w", f.Name, err)
	}
	if binary {
		return "", true, nil
	}
	text, err := f.Contents()
	if err != nil {
		return "", false, fmt.Errorf("failed to read %s: %w", f.Name, err)
	}
	return text, false, nil
}
