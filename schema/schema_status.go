package schema

import "time"

// StoreStatus represents the status of the index store.
type StoreStatus struct {
	Backend         string           `json:"backend"`
	Connected       bool             `json:"connected"`
	InMemory        bool             `json:"in_memory"`
	SnapshotPath    string           `json:"snapshot_path,omitempty"`
	SnapshotBytes   int64            `json:"snapshot_bytes"`
	SchemaVersion   uint             `json:"schema_version"`
	TableSizes      map[string]int64 `json:"table_sizes"`
	LastIndexedRepo string           `json:"last_indexed_repo,omitempty"`
	LastIndexedAt   *time.Time       `json:"last_indexed_at,omitempty"`
}
