package core

import (
	"path"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/vino9org/git-indexer/schema"
)

// maxBranchSegment is the longest branch prefix kept per ref.
const maxBranchSegment = 10

// NormalizeBranches reduces a list of ref names to a sorted, comma separated
// summary of their leading segments, e.g. "feature,master,release".
// Symbolic refs ("origin/HEAD -> origin/master") are ignored.
func NormalizeBranches(branches []string) string {
	seen := make(map[string]struct{}, len(branches))
	for _, b := range branches {
		if strings.Contains(b, "->") {
			continue
		}
		b = strings.TrimPrefix(b, "origin/")
		head, _, _ := strings.Cut(b, "/")
		seen[strings.TrimSpace(truncateRunes(head, maxBranchSegment))] = struct{}{}
	}

	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return truncateRunes(strings.Join(keys, ","), schema.MaxBranchesLength)
}

// FileType classifies a file name: "hidden" for dotfiles without a further
// extension, the lower-cased extension when there is one, "generic" otherwise.
func FileType(fileName string) string {
	base := path.Base(fileName)
	if strings.HasPrefix(base, ".") && !strings.Contains(base[1:], ".") {
		return "hidden"
	}
	ext := path.Ext(base)
	if ext == "" || ext == base {
		return "generic"
	}
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// NormalizeCommit turns a traversed commit into the rows persisted for it.
// The caller resolves the author beforehand.
func NormalizeCommit(raw *schema.RawCommit, authorID int64) (*schema.Commit, []schema.CommittedFile) {
	commit := &schema.Commit{
		SHA:       raw.Hash,
		Branches:  NormalizeBranches(raw.Branches),
		Message:   truncateRunes(raw.Message, schema.MaxMessageLength),
		CreatedAt: raw.CommittedAt,
		IsMerge:   raw.IsMerge,
		AuthorID:  authorID,
	}

	files := make([]schema.CommittedFile, 0, len(raw.Files))
	for _, f := range raw.Files {
		filePath := f.Path()
		fileName := path.Base(filePath)
		excluded := ShouldExclude(filePath)
		files = append(files, schema.CommittedFile{
			CommitSHA:       raw.Hash,
			ChangeType:      changeKindOrUnknown(f.Kind),
			FilePath:        filePath,
			FileName:        fileName,
			FileType:        FileType(fileName),
			NLinesAdded:     f.Added,
			NLinesDeleted:   f.Deleted,
			NLinesChanged:   f.Added + f.Deleted,
			NLinesOfCode:    f.NLOC,
			NMethods:        f.Methods,
			NMethodsChanged: f.MethodsChanged,
			IsOnExcludeList: excluded,
			IsSuperfluous:   excluded,
		})
		commit.NInsertions += f.Added
		commit.NDeletions += f.Deleted
	}
	commit.NLines = commit.NInsertions + commit.NDeletions
	commit.NFiles = len(files)

	return commit, files
}

func changeKindOrUnknown(kind schema.ChangeKind) schema.ChangeKind {
	switch kind {
	case schema.AddChange, schema.ModifyChange, schema.DeleteChange, schema.RenameChange, schema.CopyChange:
		return kind
	default:
		return schema.UnknownChange
	}
}

// truncateRunes cuts s to at most n runes.
func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}
