package schema

import "time"

// CommitRecord is a commit joined with its author and one repository that contains it.
// It is the row type returned by searches.
type CommitRecord struct {
	SHA           string    `json:"sha"`
	Message       string    `json:"message"`
	AuthorName    string    `json:"author_name"`
	AuthorEmail   string    `json:"author_email"`
	CreatedAt     time.Time `json:"created_at"`
	Branches      string    `json:"branches"`
	IsMerge       bool      `json:"is_merge"`
	NLinesChanged int       `json:"n_lines_changed"`
	NFilesChanged int       `json:"n_files_changed"`
	RepoName      string    `json:"repo_name"`
	RepoType      RepoType  `json:"repo_type"`
	BrowseURL     string    `json:"browse_url"`
	CommitURL     string    `json:"commit_url,omitempty"`
}

// ExportRow is one row of the all_commit_data view: an author, a commit, one of
// its files and one repository containing the commit.
type ExportRow struct {
	AuthorID    int64  `json:"author_id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	RealName    string `json:"real_name"`
	RealEmail   string `json:"real_email"`
	Company     string `json:"company"`
	Team        string `json:"team"`
	AuthorGroup string `json:"author_group"`

	SHA                 string     `json:"sha"`
	CommitDate          time.Time  `json:"commit_date"`
	CommitDateTS        int64      `json:"commit_date_ts"`
	IsMerge             bool       `json:"is_merge"`
	CommitNLines        int        `json:"commit_n_lines"`
	CommitNFiles        int        `json:"commit_n_files"`
	CommitNInsertions   int        `json:"commit_n_insertions"`
	CommitNDeletions    int        `json:"commit_n_deletions"`
	CommitNLinesChanged int        `json:"commit_n_lines_changed"`
	CommitNLinesIgnored int        `json:"commit_n_lines_ignored"`
	CommitNFilesChanged int        `json:"commit_n_files_changed"`
	CommitNFilesIgnored int        `json:"commit_n_files_ignored"`
	CommittedFileID     int64      `json:"committed_file_id"`
	ChangeType          string     `json:"change_type"`
	FilePath            string     `json:"file_path"`
	FileName            string     `json:"file_name"`
	FileType            string     `json:"file_type"`
	NLinesAdded         int        `json:"n_lines_added"`
	NLinesDeleted       int        `json:"n_lines_deleted"`
	NLinesChanged       int        `json:"n_lines_changed"`
	NLinesOfCode        int        `json:"n_lines_of_code"`
	NMethods            int        `json:"n_methods"`
	NMethodsChanged     int        `json:"n_methods_changed"`
	IsOnExcludeList     bool       `json:"is_on_exclude_list"`
	IsSuperfluous       bool       `json:"is_superfluous"`
	RepoName            string     `json:"repo_name"`
	RepoGroup           string     `json:"repo_group"`
	RepoType            string     `json:"repo_type"`
	Component           string     `json:"component"`
	CloneURL            string     `json:"clone_url"`
	BrowseURL           string     `json:"browse_url"`
	RepoID              int64      `json:"repo_id"`
	RepoIncludeInStats  bool       `json:"repo_include_in_stats"`
	LastIndexedAt       *time.Time `json:"last_indexed_at,omitempty"`
}

// IndexResult is the outcome of one repository pass.
type IndexResult struct {
	CloneURL      string        `json:"clone_url"`
	NewCommits    int           `json:"new_commits"`
	BranchUpdates int           `json:"branch_updates"`
	Elapsed       time.Duration `json:"elapsed"`
	TimedOut      bool          `json:"timed_out"`
	Failed        bool          `json:"failed"`
}

// Changes returns new commits plus branch updates.
func (r IndexResult) Changes() int {
	return r.NewCommits + r.BranchUpdates
}

// RunSummary aggregates the results of a batch run over many repositories.
type RunSummary struct {
	RunID        string        `json:"run_id"`
	Results      []IndexResult `json:"results"`
	Repositories int           `json:"repositories"`
	Changes      int           `json:"changes"`
	Failed       int           `json:"failed"`
	StatsUpdated bool          `json:"stats_updated"`
	Elapsed      time.Duration `json:"elapsed"`
}
