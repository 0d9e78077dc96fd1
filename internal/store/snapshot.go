package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// ErrInvalidSnapshot is returned when a snapshot file exists but cannot be loaded.
var ErrInvalidSnapshot = errors.New("invalid snapshot")

// ErrNoSnapshot is returned by Flush for stores that are not in memory.
var ErrNoSnapshot = errors.New("store has no snapshot")

type schemaObject struct {
	kind string
	name string
	sql  string
}

// objectOrder creates tables before the indexes, triggers and views that use them.
var objectOrder = map[string]int{"table": 0, "index": 1, "trigger": 2, "view": 3}

// Restore loads a snapshot file into the in-memory store. A missing or empty
// path is a no-op; a file that cannot be read as a database is an error
// wrapping ErrInvalidSnapshot.
func (s *Store) Restore(ctx context.Context, path string) error {
	if !s.inMemory {
		return ErrNoSnapshot
	}
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	} else if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidSnapshot, path, err)
	}

	if _, err := s.db.ExecContext(ctx, "ATTACH DATABASE ? AS snap", path); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidSnapshot, path, err)
	}
	defer func() { _, _ = s.db.ExecContext(context.WithoutCancel(ctx), "DETACH DATABASE snap") }()

	objects, err := s.snapshotObjects(ctx)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidSnapshot, path, err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	for _, obj := range objects {
		if _, err := tx.ExecContext(ctx, obj.sql); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("%w: %s: create %s %s: %v", ErrInvalidSnapshot, path, obj.kind, obj.name, err)
		}
		if obj.kind != "table" {
			continue
		}
		copyRows := fmt.Sprintf("INSERT INTO main.%s SELECT * FROM snap.%s", quoteTableName(obj.name, s.backend), quoteTableName(obj.name, s.backend))
		if _, err := tx.ExecContext(ctx, copyRows); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("%w: %s: copy %s: %v", ErrInvalidSnapshot, path, obj.name, err)
		}
	}
	return tx.Commit()
}

// snapshotObjects lists the schema of the attached snapshot in creation order.
func (s *Store) snapshotObjects(ctx context.Context) ([]schemaObject, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT type, name, sql FROM snap.sqlite_master WHERE sql IS NOT NULL AND name NOT LIKE 'sqlite_%'")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var objects []schemaObject
	for rows.Next() {
		var obj schemaObject
		if err := rows.Scan(&obj.kind, &obj.name, &obj.sql); err != nil {
			return nil, err
		}
		objects = append(objects, obj)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	sort.SliceStable(objects, func(i, j int) bool {
		return objectOrder[objects[i].kind] < objectOrder[objects[j].kind]
	})
	return objects, nil
}

// Flush writes the in-memory store to path. The copy goes to a temporary
// file next to path which then replaces it, so an interrupted flush never
// leaves a truncated snapshot behind.
func (s *Store) Flush(ctx context.Context, path string) error {
	if !s.inMemory {
		return ErrNoSnapshot
	}
	if path == "" {
		return fmt.Errorf("snapshot path cannot be empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	tmp := path + ".new"
	if err := os.Remove(tmp); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove stale snapshot %s: %w", tmp, err)
	}
	if _, err := s.db.ExecContext(ctx, "VACUUM INTO ?", tmp); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to write snapshot %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to replace snapshot %s: %w", path, err)
	}
	return nil
}
