package store

import (
	"context"
	"fmt"

	"github.com/vino9org/git-indexer/schema"
)

// ExportRows implements the QueryStore interface. Rows are ordered by commit,
// file and repository so exports are reproducible.
func (s *Store) ExportRows(ctx context.Context, fn func(*schema.ExportRow) error) error {
	query := fmt.Sprintf(`SELECT author_id, name, email, real_name, real_email, company, team, author_group,
			sha, commit_date, commit_date_ts, is_merge, commit_n_lines, commit_n_files, commit_n_insertions,
			commit_n_deletions, commit_n_lines_changed, commit_n_lines_ignored, commit_n_files_changed,
			commit_n_files_ignored, committed_file_id, change_type, file_path, file_name, file_type,
			n_lines_added, n_lines_deleted, n_lines_changed, n_lines_of_code, n_methods, n_methods_changed,
			is_on_exclude_list, is_superfluous, repo_name, repo_group, repo_type, component, clone_url,
			browse_url, repo_id, repo_include_in_stats, last_indexed_at
		FROM %s
		ORDER BY sha, committed_file_id, repo_id`, quoteTableName(allCommitDataView, s.backend))

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to query %s: %w", allCommitDataView, err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var r schema.ExportRow
		var commitDate, lastIndexed dbTime
		if err := rows.Scan(&r.AuthorID, &r.Name, &r.Email, &r.RealName, &r.RealEmail, &r.Company, &r.Team, &r.AuthorGroup,
			&r.SHA, &commitDate, &r.CommitDateTS, &r.IsMerge, &r.CommitNLines, &r.CommitNFiles, &r.CommitNInsertions,
			&r.CommitNDeletions, &r.CommitNLinesChanged, &r.CommitNLinesIgnored, &r.CommitNFilesChanged,
			&r.CommitNFilesIgnored, &r.CommittedFileID, &r.ChangeType, &r.FilePath, &r.FileName, &r.FileType,
			&r.NLinesAdded, &r.NLinesDeleted, &r.NLinesChanged, &r.NLinesOfCode, &r.NMethods, &r.NMethodsChanged,
			&r.IsOnExcludeList, &r.IsSuperfluous, &r.RepoName, &r.RepoGroup, &r.RepoType, &r.Component, &r.CloneURL,
			&r.BrowseURL, &r.RepoID, &r.RepoIncludeInStats, &lastIndexed); err != nil {
			return fmt.Errorf("failed to scan %s row: %w", allCommitDataView, err)
		}
		r.CommitDate = commitDate.Time
		r.LastIndexedAt = lastIndexed.ptr()
		if err := fn(&r); err != nil {
			return err
		}
	}
	return rows.Err()
}
