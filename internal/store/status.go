package store

import (
	"context"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/vino9org/git-indexer/schema"
)

// GetStatus implements the QueryStore interface.
func (s *Store) GetStatus(ctx context.Context) (schema.StoreStatus, error) {
	status := schema.StoreStatus{
		Backend:      string(s.backend),
		Connected:    s.db != nil,
		InMemory:     s.inMemory,
		SnapshotPath: s.snapshot,
		TableSizes:   make(map[string]int64),
	}
	if s.db == nil {
		return status, nil
	}

	if s.snapshot != "" {
		if info, err := os.Stat(s.snapshot); err == nil {
			status.SnapshotBytes = info.Size()
		}
	}

	version, err := s.schemaVersion()
	if err != nil {
		return status, fmt.Errorf("failed to get schema version: %w", err)
	}
	status.SchemaVersion = version

	for _, table := range []string{repositoriesTable, authorsTable, commitsTable, committedFilesTable, repoToCommitsTable} {
		var count int64
		query := fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(table, s.backend))
		if err := s.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
			return status, fmt.Errorf("failed to count %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}

	query := fmt.Sprintf(`SELECT clone_url, last_indexed_at FROM %s
		WHERE last_indexed_at IS NOT NULL ORDER BY last_indexed_at DESC LIMIT 1`, quoteTableName(repositoriesTable, s.backend))
	var cloneURL string
	var lastIndexed dbTime
	err = s.db.QueryRowContext(ctx, query).Scan(&cloneURL, &lastIndexed)
	switch {
	case isNoRows(err):
	case err != nil:
		return status, fmt.Errorf("failed to get last indexed repository: %w", err)
	default:
		status.LastIndexedRepo = cloneURL
		status.LastIndexedAt = lastIndexed.ptr()
	}

	return status, nil
}

// PrintStoreStatus prints store status information.
func PrintStoreStatus(status schema.StoreStatus) {
	fmt.Printf("Index Backend: %s\n", status.Backend)
	fmt.Printf("Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	if status.InMemory {
		fmt.Printf("Snapshot: %s (%s)\n", status.SnapshotPath, humanize.Bytes(uint64(status.SnapshotBytes)))
	}
	fmt.Printf("Schema Version: %d\n", status.SchemaVersion)
	if status.LastIndexedAt != nil {
		fmt.Printf("Last Indexed: %s at %s\n", status.LastIndexedRepo, status.LastIndexedAt.Format("2006-01-02 15:04:05"))
	}
	fmt.Println("Table Sizes:")
	for _, table := range []string{repositoriesTable, authorsTable, commitsTable, committedFilesTable, repoToCommitsTable} {
		fmt.Printf("  %s: %s rows\n", table, humanize.Comma(status.TableSizes[table]))
	}
}
