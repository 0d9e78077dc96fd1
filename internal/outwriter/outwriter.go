// Package outwriter has output and writer logic.
package outwriter

import (
	"context"
	"io"

	"github.com/vino9org/git-indexer/internal/contract"
	"github.com/vino9org/git-indexer/internal/mirror"
	"github.com/vino9org/git-indexer/schema"
)

// OutWriter provides a unified interface for all output operations.
// Every method writes to cfg.OutputFile, or stdout when it is empty.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteSearch prints search results using the configured output format.
func (ow *OutWriter) WriteSearch(records []schema.CommitRecord, kind schema.SearchKind, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return WriteSearchResults(w, records, kind, cfg)
	}, "Wrote search results")
}

// WriteRunSummary prints the outcome of an index run using the configured output format.
func (ow *OutWriter) WriteRunSummary(summary schema.RunSummary, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return WriteRunSummary(w, summary, cfg)
	}, "Wrote run summary")
}

// WriteMirror prints the outcome of a mirror run using the configured output format.
func (ow *OutWriter) WriteMirror(results []mirror.Result, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return WriteMirrorResults(w, results, cfg)
	}, "Wrote mirror results")
}

// WriteExportCSV streams the commit view as CSV to outputFile.
func (ow *OutWriter) WriteExportCSV(ctx context.Context, qs contract.QueryStore, outputFile string) (int, error) {
	var n int
	err := writeWithFile(outputFile, func(w io.Writer) error {
		var err error
		n, err = WriteExportCSV(ctx, w, qs)
		return err
	}, "Wrote CSV export")
	return n, err
}
