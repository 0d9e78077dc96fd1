// Package schema has the models, enums and small pure helpers shared by all parts of git-indexer.
package schema

import "time"

// Field limits enforced before anything is persisted.
const (
	MaxBranchesLength = 1024
	MaxMessageLength  = 2048
)

// Repository is a git repository registered for indexing.
// Its RepoType and BrowseURL are inferred once when the row is created.
type Repository struct {
	ID             int64      `json:"id"`
	CloneURL       string     `json:"clone_url"`
	RepoType       RepoType   `json:"repo_type"`
	BrowseURL      string     `json:"browse_url"`
	Name           string     `json:"repo_name"`
	Group          string     `json:"repo_group,omitempty"`
	Component      string     `json:"component,omitempty"`
	IncludeInStats bool       `json:"include_in_stats"`
	IsActive       bool       `json:"is_active"`
	LastIndexedAt  *time.Time `json:"last_indexed_at,omitempty"`
}

// Author is a commit identity. Name and Email are stored lower-cased and
// together form the natural key.
type Author struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	RealName  string `json:"real_name"`
	RealEmail string `json:"real_email"`
	Company   string `json:"company,omitempty"`
	Team      string `json:"team,omitempty"`
	Group     string `json:"author_group,omitempty"`
}

// Commit is a normalized commit. The derived counters (NLinesChanged and
// friends) are zero at creation and filled in by the stats rollup.
type Commit struct {
	SHA         string    `json:"sha"`
	Branches    string    `json:"branches"`
	Message     string    `json:"message"`
	CreatedAt   time.Time `json:"created_at"`
	IsMerge     bool      `json:"is_merge"`
	AuthorID    int64     `json:"author_id"`
	NLines      int       `json:"n_lines"`
	NFiles      int       `json:"n_files"`
	NInsertions int       `json:"n_insertions"`
	NDeletions  int       `json:"n_deletions"`

	NLinesChanged int `json:"n_lines_changed"`
	NLinesIgnored int `json:"n_lines_ignored"`
	NFilesChanged int `json:"n_files_changed"`
	NFilesIgnored int `json:"n_files_ignored"`
}

// CommittedFile is one file touched by a commit.
type CommittedFile struct {
	ID              int64      `json:"id"`
	CommitSHA       string     `json:"commit_sha"`
	ChangeType      ChangeKind `json:"change_type"`
	FilePath        string     `json:"file_path"`
	FileName        string     `json:"file_name"`
	FileType        string     `json:"file_type"`
	NLinesAdded     int        `json:"n_lines_added"`
	NLinesDeleted   int        `json:"n_lines_deleted"`
	NLinesChanged   int        `json:"n_lines_changed"`
	NLinesOfCode    int        `json:"n_lines_of_code"`
	NMethods        int        `json:"n_methods"`
	NMethodsChanged int        `json:"n_methods_changed"`
	IsOnExcludeList bool       `json:"is_on_exclude_list"`
	IsSuperfluous   bool       `json:"is_superfluous"`
}

// RawCommit is what a traversal source yields for every reachable commit.
// Author fields carry the committer identity.
type RawCommit struct {
	Hash        string
	AuthorName  string
	AuthorEmail string
	CommittedAt time.Time
	IsMerge     bool
	Message     string
	Branches    []string
	Files       []RawFile
}

// RawFile is a single per-file diff record of a RawCommit.
type RawFile struct {
	OldPath        string
	NewPath        string
	Kind           ChangeKind
	Added          int
	Deleted        int
	NLOC           int
	Methods        int
	MethodsChanged int
}

// Path returns the new path, or the old path for deletions.
func (f RawFile) Path() string {
	if f.NewPath != "" {
		return f.NewPath
	}
	return f.OldPath
}
