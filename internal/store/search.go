package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/vino9org/git-indexer/schema"
)

// findCommits returns commits joined with author and repository that match
// where, largest changes first.
func (s *Store) findCommits(ctx context.Context, where string, arg any, limit int) ([]schema.CommitRecord, error) {
	query := fmt.Sprintf(`SELECT c.sha, c.message, a.name, a.email, c.created_at, c.branches, c.is_merge,
			c.n_lines_changed, c.n_files_changed, r.repo_name, r.repo_type, r.browse_url
		FROM %s c
		JOIN %s a ON a.id = c.author_id
		JOIN %s rc ON rc.commit_sha = c.sha
		JOIN %s r ON r.id = rc.repo_id
		WHERE %s
		ORDER BY c.n_lines_changed DESC, c.sha, r.repo_name
		LIMIT ?`,
		quoteTableName(commitsTable, s.backend), quoteTableName(authorsTable, s.backend),
		quoteTableName(repoToCommitsTable, s.backend), quoteTableName(repositoriesTable, s.backend), where)

	rows, err := s.db.QueryContext(ctx, s.rebind(query), arg, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search commits: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []schema.CommitRecord
	for rows.Next() {
		var rec schema.CommitRecord
		var createdAt dbTime
		var repoType string
		if err := rows.Scan(&rec.SHA, &rec.Message, &rec.AuthorName, &rec.AuthorEmail, &createdAt, &rec.Branches,
			&rec.IsMerge, &rec.NLinesChanged, &rec.NFilesChanged, &rec.RepoName, &repoType, &rec.BrowseURL); err != nil {
			return nil, err
		}
		rec.CreatedAt = createdAt.Time
		rec.RepoType = schema.RepoType(repoType)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// FindCommitsBySHA implements the QueryStore interface.
func (s *Store) FindCommitsBySHA(ctx context.Context, sha string, limit int) ([]schema.CommitRecord, error) {
	return s.findCommits(ctx, "c.sha = ?", strings.ToLower(strings.TrimSpace(sha)), limit)
}

// FindCommitsByEmail implements the QueryStore interface. It matches the
// reconciled email of the author.
func (s *Store) FindCommitsByEmail(ctx context.Context, email string, limit int) ([]schema.CommitRecord, error) {
	return s.findCommits(ctx, "a.real_email = ?", strings.ToLower(strings.TrimSpace(email)), limit)
}

// FindCommitsByRepoName implements the QueryStore interface.
func (s *Store) FindCommitsByRepoName(ctx context.Context, name string, limit int) ([]schema.CommitRecord, error) {
	return s.findCommits(ctx, "r.repo_name = ?", strings.TrimSpace(name), limit)
}
