package store

import (
	"context"
	"errors"
	"fmt"
)

// rollupStatements recompute the derived commit counters from committed files.
// Each one is idempotent and yields zero for commits without files.
var rollupStatements = []struct {
	column string
	expr   string
	filter string
}{
	{"n_lines_changed", "COALESCE(SUM(cf.n_lines_changed), 0)", "NOT cf.is_superfluous"},
	{"n_files_changed", "COUNT(*)", "NOT cf.is_superfluous"},
	{"n_lines_ignored", "COALESCE(SUM(cf.n_lines_changed), 0)", "cf.is_superfluous"},
	{"n_files_ignored", "COUNT(*)", "cf.is_superfluous"},
}

// UpdateCommitStats implements the IndexStore interface. Every statement runs
// in its own transaction; a failing statement does not stop the others and
// all failures are returned together.
func (s *Store) UpdateCommitStats(ctx context.Context) error {
	commits := quoteTableName(commitsTable, s.backend)
	files := quoteTableName(committedFilesTable, s.backend)

	var errs []error
	for _, st := range rollupStatements {
		query := fmt.Sprintf(`UPDATE %s SET %s = (
			SELECT %s FROM %s cf WHERE cf.commit_sha = %s.sha AND %s
		)`, commits, st.column, st.expr, files, commits, st.filter)
		if err := s.execInTx(ctx, query); err != nil {
			errs = append(errs, fmt.Errorf("failed to update %s: %w", st.column, err))
		}
	}
	return errors.Join(errs...)
}

func (s *Store) execInTx(ctx context.Context, query string, args ...any) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, s.rebind(query), args...); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
