// Package parquet exports the denormalized commit view to Parquet files using
// github.com/parquet-go/parquet-go.
package parquet

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/vino9org/git-indexer/internal/contract"
	"github.com/vino9org/git-indexer/schema"
)

// batchSize is the number of rows buffered before they are handed to the writer.
const batchSize = 1024

// CommitDataRow is one row of the all_commit_data view: an author, a commit,
// one of its files and one repository containing the commit.
type CommitDataRow struct {
	// Author columns
	AuthorID    int64  `parquet:"author_id,snappy"`
	Name        string `parquet:"name,snappy,dict"`
	Email       string `parquet:"email,snappy,dict"`
	RealName    string `parquet:"real_name,snappy,dict"`
	RealEmail   string `parquet:"real_email,snappy,dict"`
	Company     string `parquet:"company,snappy,dict"`
	Team        string `parquet:"team,snappy,dict"`
	AuthorGroup string `parquet:"author_group,snappy,dict"`

	// Commit columns; CommitDate is stored as TIMESTAMP with nanosecond precision
	SHA                 string    `parquet:"sha,snappy"`
	CommitDate          time.Time `parquet:"commit_date,snappy"`
	CommitDateTS        int64     `parquet:"commit_date_ts,snappy"`
	IsMerge             bool      `parquet:"is_merge"`
	CommitNLines        int32     `parquet:"commit_n_lines,snappy"`
	CommitNFiles        int32     `parquet:"commit_n_files,snappy"`
	CommitNInsertions   int32     `parquet:"commit_n_insertions,snappy"`
	CommitNDeletions    int32     `parquet:"commit_n_deletions,snappy"`
	CommitNLinesChanged int32     `parquet:"commit_n_lines_changed,snappy"`
	CommitNLinesIgnored int32     `parquet:"commit_n_lines_ignored,snappy"`
	CommitNFilesChanged int32     `parquet:"commit_n_files_changed,snappy"`
	CommitNFilesIgnored int32     `parquet:"commit_n_files_ignored,snappy"`

	// Committed file columns
	CommittedFileID int64  `parquet:"committed_file_id,snappy"`
	ChangeType      string `parquet:"change_type,snappy,dict"`
	FilePath        string `parquet:"file_path,snappy"`
	FileName        string `parquet:"file_name,snappy"`
	FileType        string `parquet:"file_type,snappy,dict"`
	NLinesAdded     int32  `parquet:"n_lines_added,snappy"`
	NLinesDeleted   int32  `parquet:"n_lines_deleted,snappy"`
	NLinesChanged   int32  `parquet:"n_lines_changed,snappy"`
	NLinesOfCode    int32  `parquet:"n_lines_of_code,snappy"`
	NMethods        int32  `parquet:"n_methods,snappy"`
	NMethodsChanged int32  `parquet:"n_methods_changed,snappy"`
	IsOnExcludeList bool   `parquet:"is_on_exclude_list"`
	IsSuperfluous   bool   `parquet:"is_superfluous"`

	// Repository columns; LastIndexedAt is null until the first successful pass
	RepoName           string     `parquet:"repo_name,snappy,dict"`
	RepoGroup          string     `parquet:"repo_group,snappy,dict"`
	RepoType           string     `parquet:"repo_type,snappy,dict"`
	Component          string     `parquet:"component,snappy,dict"`
	CloneURL           string     `parquet:"clone_url,snappy,dict"`
	BrowseURL          string     `parquet:"browse_url,snappy,dict"`
	RepoID             int64      `parquet:"repo_id,snappy"`
	RepoIncludeInStats bool       `parquet:"repo_include_in_stats"`
	LastIndexedAt      *time.Time `parquet:"last_indexed_at,optional,snappy"`
}

// ConvertExportRow converts a store row into its Parquet representation.
func ConvertExportRow(r *schema.ExportRow) CommitDataRow {
	return CommitDataRow{
		AuthorID:            r.AuthorID,
		Name:                r.Name,
		Email:               r.Email,
		RealName:            r.RealName,
		RealEmail:           r.RealEmail,
		Company:             r.Company,
		Team:                r.Team,
		AuthorGroup:         r.AuthorGroup,
		SHA:                 r.SHA,
		CommitDate:          r.CommitDate.UTC(),
		CommitDateTS:        r.CommitDateTS,
		IsMerge:             r.IsMerge,
		CommitNLines:        int32(r.CommitNLines),
		CommitNFiles:        int32(r.CommitNFiles),
		CommitNInsertions:   int32(r.CommitNInsertions),
		CommitNDeletions:    int32(r.CommitNDeletions),
		CommitNLinesChanged: int32(r.CommitNLinesChanged),
		CommitNLinesIgnored: int32(r.CommitNLinesIgnored),
		CommitNFilesChanged: int32(r.CommitNFilesChanged),
		CommitNFilesIgnored: int32(r.CommitNFilesIgnored),
		CommittedFileID:     r.CommittedFileID,
		ChangeType:          r.ChangeType,
		FilePath:            r.FilePath,
		FileName:            r.FileName,
		FileType:            r.FileType,
		NLinesAdded:         int32(r.NLinesAdded),
		NLinesDeleted:       int32(r.NLinesDeleted),
		NLinesChanged:       int32(r.NLinesChanged),
		NLinesOfCode:        int32(r.NLinesOfCode),
		NMethods:            int32(r.NMethods),
		NMethodsChanged:     int32(r.NMethodsChanged),
		IsOnExcludeList:     r.IsOnExcludeList,
		IsSuperfluous:       r.IsSuperfluous,
		RepoName:            r.RepoName,
		RepoGroup:           r.RepoGroup,
		RepoType:            r.RepoType,
		Component:           r.Component,
		CloneURL:            r.CloneURL,
		BrowseURL:           r.BrowseURL,
		RepoID:              r.RepoID,
		RepoIncludeInStats:  r.RepoIncludeInStats,
		LastIndexedAt:       r.LastIndexedAt,
	}
}

// WriteCommitDataParquet writes the given rows to a Parquet file at outputPath.
func WriteCommitDataParquet(data []CommitDataRow, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create parquet file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[CommitDataRow](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write commit data: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close parquet writer: %w", err)
	}
	return file.Close()
}

// ExportCommitData streams every row of the commit view from qs into a Parquet
// stream on w and returns the number of rows written. Rows are buffered in
// batches so the whole view never has to fit in memory.
func ExportCommitData(ctx context.Context, qs contract.QueryStore, w io.Writer) (int, error) {
	writer := parquet.NewGenericWriter[CommitDataRow](w)
	batch := make([]CommitDataRow, 0, batchSize)
	total := 0

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		n, err := writer.Write(batch)
		total += n
		batch = batch[:0]
		if err != nil {
			return fmt.Errorf("failed to write commit data: %w", err)
		}
		return nil
	}

	err := qs.ExportRows(ctx, func(r *schema.ExportRow) error {
		batch = append(batch, ConvertExportRow(r))
		if len(batch) == batchSize {
			return flush()
		}
		return nil
	})
	if err == nil {
		err = flush()
	}
	if err != nil {
		_ = writer.Close()
		return total, err
	}
	if err := writer.Close(); err != nil {
		return total, fmt.Errorf("failed to close parquet writer: %w", err)
	}
	return total, nil
}
