package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/vino9org/git-indexer/internal/contract"
	"github.com/vino9org/git-indexer/schema"
)

// indexTx implements contract.IndexTx on a single database transaction.
type indexTx struct {
	s  *Store
	tx *sql.Tx
}

var _ contract.IndexTx = &indexTx{} // Compile-time check

// Begin implements the IndexStore interface.
func (s *Store) Begin(ctx context.Context) (contract.IndexTx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return &indexTx{s: s, tx: tx}, nil
}

// Commit implements the IndexTx interface.
func (t *indexTx) Commit() error {
	return t.tx.Commit()
}

// Rollback implements the IndexTx interface.
func (t *indexTx) Rollback() error {
	return t.tx.Rollback()
}

// insertReturningID runs an INSERT and returns the generated id column.
func (t *indexTx) insertReturningID(ctx context.Context, query string, args ...any) (int64, error) {
	if t.s.backend == schema.PostgreSQLBackend {
		var id int64
		err := t.tx.QueryRowContext(ctx, t.s.rebind(query+" RETURNING id"), args...).Scan(&id)
		return id, err
	}
	result, err := t.tx.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

const repositoryColumns = "id, clone_url, repo_type, browse_url, repo_name, repo_group, component, include_in_stats, is_active, last_indexed_at"

// EnsureRepository implements the IndexTx interface.
func (t *indexTx) EnsureRepository(ctx context.Context, cloneURL string, repoType schema.RepoType) (*schema.Repository, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE clone_url = ?", repositoryColumns, quoteTableName(repositoriesTable, t.s.backend))
	repo, err := scanRepository(t.tx.QueryRowContext(ctx, t.s.rebind(query), cloneURL))
	if err == nil {
		return repo, nil
	}
	if !isNoRows(err) {
		return nil, fmt.Errorf("failed to look up repository %s: %w", cloneURL, err)
	}

	repo, err = schema.NewRepository(cloneURL, repoType)
	if err != nil {
		return nil, err
	}
	insert := fmt.Sprintf(`INSERT INTO %s (clone_url, repo_type, browse_url, repo_name, repo_group, component, include_in_stats, is_active)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`, quoteTableName(repositoriesTable, t.s.backend))
	repo.ID, err = t.insertReturningID(ctx, insert,
		repo.CloneURL, string(repo.RepoType), repo.BrowseURL, repo.Name, repo.Group, repo.Component, repo.IncludeInStats, repo.IsActive)
	if err != nil {
		return nil, fmt.Errorf("failed to insert repository %s: %w", cloneURL, err)
	}
	return repo, nil
}

func scanRepository(row *sql.Row) (*schema.Repository, error) {
	var repo schema.Repository
	var repoType string
	var lastIndexed dbTime
	if err := row.Scan(&repo.ID, &repo.CloneURL, &repoType, &repo.BrowseURL, &repo.Name, &repo.Group,
		&repo.Component, &repo.IncludeInStats, &repo.IsActive, &lastIndexed); err != nil {
		return nil, err
	}
	repo.RepoType = schema.RepoType(repoType)
	repo.LastIndexedAt = lastIndexed.ptr()
	return &repo, nil
}

// RepositoryCommits implements the IndexTx interface.
func (t *indexTx) RepositoryCommits(ctx context.Context, repoID int64) (map[string]string, error) {
	query := fmt.Sprintf(`SELECT c.sha, c.branches FROM %s rc JOIN %s c ON c.sha = rc.commit_sha WHERE rc.repo_id = ?`,
		quoteTableName(repoToCommitsTable, t.s.backend), quoteTableName(commitsTable, t.s.backend))
	rows, err := t.tx.QueryContext(ctx, t.s.rebind(query), repoID)
	if err != nil {
		return nil, fmt.Errorf("failed to load commits of repository %d: %w", repoID, err)
	}
	defer func() { _ = rows.Close() }()

	known := make(map[string]string)
	for rows.Next() {
		var sha, branches string
		if err := rows.Scan(&sha, &branches); err != nil {
			return nil, err
		}
		known[sha] = branches
	}
	return known, rows.Err()
}

// CommitExists implements the IndexTx interface.
func (t *indexTx) CommitExists(ctx context.Context, sha string) (bool, error) {
	query := fmt.Sprintf("SELECT 1 FROM %s WHERE sha = ?", quoteTableName(commitsTable, t.s.backend))
	var one int
	err := t.tx.QueryRowContext(ctx, t.s.rebind(query), sha).Scan(&one)
	if isNoRows(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to look up commit %s: %w", sha, err)
	}
	return true, nil
}

// EnsureAuthor implements the IndexTx interface. Name and email are matched
// together, after lower-casing.
func (t *indexTx) EnsureAuthor(ctx context.Context, name, email string) (*schema.Author, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	email = strings.ToLower(strings.TrimSpace(email))

	query := fmt.Sprintf(`SELECT id, name, email, real_name, real_email, company, team, author_group
		FROM %s WHERE name = ? AND email = ?`, quoteTableName(authorsTable, t.s.backend))
	var a schema.Author
	err := t.tx.QueryRowContext(ctx, t.s.rebind(query), name, email).
		Scan(&a.ID, &a.Name, &a.Email, &a.RealName, &a.RealEmail, &a.Company, &a.Team, &a.Group)
	if err == nil {
		return &a, nil
	}
	if !isNoRows(err) {
		return nil, fmt.Errorf("failed to look up author %s <%s>: %w", name, email, err)
	}

	a = schema.Author{Name: name, Email: email, RealName: name, RealEmail: email}
	insert := fmt.Sprintf(`INSERT INTO %s (name, email, real_name, real_email, company, team, author_group)
		VALUES (?, ?, ?, ?, ?, ?, ?)`, quoteTableName(authorsTable, t.s.backend))
	a.ID, err = t.insertReturningID(ctx, insert, a.Name, a.Email, a.RealName, a.RealEmail, a.Company, a.Team, a.Group)
	if err != nil {
		return nil, fmt.Errorf("failed to insert author %s <%s>: %w", name, email, err)
	}
	return &a, nil
}

// CreateCommit implements the IndexTx interface.
func (t *indexTx) CreateCommit(ctx context.Context, c *schema.Commit, files []schema.CommittedFile) error {
	insert := fmt.Sprintf(`INSERT INTO %s (sha, message, author_id, branches, is_merge, created_at, created_ts,
		n_lines, n_files, n_insertions, n_deletions, n_lines_changed, n_lines_ignored, n_files_changed, n_files_ignored)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, quoteTableName(commitsTable, t.s.backend))
	_, err := t.tx.ExecContext(ctx, t.s.rebind(insert),
		c.SHA, c.Message, c.AuthorID, c.Branches, c.IsMerge, formatTime(c.CreatedAt, t.s.backend), c.CreatedAt.Unix(),
		c.NLines, c.NFiles, c.NInsertions, c.NDeletions, c.NLinesChanged, c.NLinesIgnored, c.NFilesChanged, c.NFilesIgnored)
	if err != nil {
		return fmt.Errorf("failed to insert commit %s: %w", c.SHA, err)
	}

	if len(files) == 0 {
		return nil
	}
	fileInsert := fmt.Sprintf(`INSERT INTO %s (commit_sha, change_type, file_path, file_name, file_type,
		n_lines_added, n_lines_deleted, n_lines_changed, n_lines_of_code, n_methods, n_methods_changed,
		is_on_exclude_list, is_superfluous)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, quoteTableName(committedFilesTable, t.s.backend))
	stmt, err := t.tx.PrepareContext(ctx, t.s.rebind(fileInsert))
	if err != nil {
		return fmt.Errorf("failed to prepare file insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, f := range files {
		if _, err := stmt.ExecContext(ctx, c.SHA, string(f.ChangeType), f.FilePath, f.FileName, f.FileType,
			f.NLinesAdded, f.NLinesDeleted, f.NLinesChanged, f.NLinesOfCode, f.NMethods, f.NMethodsChanged,
			f.IsOnExcludeList, f.IsSuperfluous); err != nil {
			return fmt.Errorf("failed to insert file %s of commit %s: %w", f.FilePath, c.SHA, err)
		}
	}
	return nil
}

// AttachCommit implements the IndexTx interface.
func (t *indexTx) AttachCommit(ctx context.Context, repoID int64, sha string) error {
	insert := fmt.Sprintf("INSERT INTO %s (repo_id, commit_sha) VALUES (?, ?)", quoteTableName(repoToCommitsTable, t.s.backend))
	if _, err := t.tx.ExecContext(ctx, t.s.rebind(insert), repoID, sha); err != nil {
		return fmt.Errorf("failed to attach commit %s to repository %d: %w", sha, repoID, err)
	}
	return nil
}

// UpdateBranches implements the IndexTx interface.
func (t *indexTx) UpdateBranches(ctx context.Context, sha, branches string) error {
	update := fmt.Sprintf("UPDATE %s SET branches = ? WHERE sha = ?", quoteTableName(commitsTable, t.s.backend))
	if _, err := t.tx.ExecContext(ctx, t.s.rebind(update), branches, sha); err != nil {
		return fmt.Errorf("failed to update branches of commit %s: %w", sha, err)
	}
	return nil
}

// StampIndexed implements the IndexTx interface.
func (t *indexTx) StampIndexed(ctx context.Context, repoID int64, at time.Time) error {
	update := fmt.Sprintf("UPDATE %s SET last_indexed_at = ? WHERE id = ?", quoteTableName(repositoriesTable, t.s.backend))
	if _, err := t.tx.ExecContext(ctx, t.s.rebind(update), formatTime(at, t.s.backend), repoID); err != nil {
		return fmt.Errorf("failed to stamp repository %d: %w", repoID, err)
	}
	return nil
}
