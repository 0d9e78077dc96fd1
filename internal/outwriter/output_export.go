package outwriter

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/vino9org/git-indexer/internal/contract"
	"github.com/vino9org/git-indexer/schema"
)

// exportHeader follows the column order of the all_commit_data view.
var exportHeader = []string{
	"author_id", "name", "email", "real_name", "real_email", "company", "team", "author_group",
	"sha", "commit_date", "commit_date_ts", "is_merge",
	"commit_n_lines", "commit_n_files", "commit_n_insertions", "commit_n_deletions",
	"commit_n_lines_changed", "commit_n_lines_ignored", "commit_n_files_changed", "commit_n_files_ignored",
	"committed_file_id", "change_type", "file_path", "file_name", "file_type",
	"n_lines_added", "n_lines_deleted", "n_lines_changed", "n_lines_of_code", "n_methods", "n_methods_changed",
	"is_on_exclude_list", "is_superfluous",
	"repo_name", "repo_group", "repo_type", "component", "clone_url", "browse_url", "repo_id",
	"repo_include_in_stats", "last_indexed_at",
}

// WriteExportCSV streams every row of the commit view from qs as CSV and
// returns the number of rows written.
func WriteExportCSV(ctx context.Context, w io.Writer, qs contract.QueryStore) (int, error) {
	n := 0
	err := writeCSVWithHeader(w, exportHeader, func(cw *csv.Writer) error {
		return qs.ExportRows(ctx, func(r *schema.ExportRow) error {
			n++
			return cw.Write(exportRecord(r))
		})
	})
	return n, err
}

func exportRecord(r *schema.ExportRow) []string {
	itoa := strconv.Itoa
	lastIndexed := ""
	if r.LastIndexedAt != nil {
		lastIndexed = r.LastIndexedAt.UTC().Format(time.RFC3339)
	}
	return []string{
		strconv.FormatInt(r.AuthorID, 10), r.Name, r.Email, r.RealName, r.RealEmail, r.Company, r.Team, r.AuthorGroup,
		r.SHA, r.CommitDate.UTC().Format(time.RFC3339), strconv.FormatInt(r.CommitDateTS, 10), strconv.FormatBool(r.IsMerge),
		itoa(r.CommitNLines), itoa(r.CommitNFiles), itoa(r.CommitNInsertions), itoa(r.CommitNDeletions),
		itoa(r.CommitNLinesChanged), itoa(r.CommitNLinesIgnored), itoa(r.CommitNFilesChanged), itoa(r.CommitNFilesIgnored),
		strconv.FormatInt(r.CommittedFileID, 10), r.ChangeType, r.FilePath, r.FileName, r.FileType,
		itoa(r.NLinesAdded), itoa(r.NLinesDeleted), itoa(r.NLinesChanged), itoa(r.NLinesOfCode), itoa(r.NMethods), itoa(r.NMethodsChanged),
		strconv.FormatBool(r.IsOnExcludeList), strconv.FormatBool(r.IsSuperfluous),
		r.RepoName, r.RepoGroup, r.RepoType, r.Component, r.CloneURL, r.BrowseURL, strconv.FormatInt(r.RepoID, 10),
		strconv.FormatBool(r.RepoIncludeInStats), lastIndexed,
	}
}
