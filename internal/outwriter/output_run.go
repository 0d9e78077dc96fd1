package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/vino9org/git-indexer/internal/contract"
	"github.com/vino9org/git-indexer/schema"
)

// runFixedWidth covers every run summary column except the repository.
const runFixedWidth = 45

// Result labels shown per repository.
const (
	labelIndexed   = "indexed"
	labelUnchanged = "unchanged"
	labelTimedOut  = "timed out"
	labelFailed    = "failed"
)

// WriteRunSummary outputs the results of an index run, dispatching based on the output format configured.
func WriteRunSummary(w io.Writer, summary schema.RunSummary, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeJSON(w, summary); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeCSVRunSummary(w, summary); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		return writeRunTable(w, summary, cfg)
	}
	return nil
}

// resultLabel classifies one repository pass for display.
func resultLabel(r schema.IndexResult) string {
	switch {
	case r.Failed:
		return labelFailed
	case r.TimedOut:
		return labelTimedOut
	case r.Changes() > 0:
		return labelIndexed
	default:
		return labelUnchanged
	}
}

// colorLabel returns the label for r, colored when colors are enabled.
func colorLabel(r schema.IndexResult, cfg *contract.Config) string {
	label := resultLabel(r)
	switch label {
	case labelFailed:
		return paint(contract.FailColor, label, cfg)
	case labelTimedOut:
		return paint(contract.WarnColor, label, cfg)
	case labelIndexed:
		return paint(contract.SuccessColor, label, cfg)
	default:
		return paint(contract.MutedColor, label, cfg)
	}
}

// writeRunTable generates and writes the human-readable table.
func writeRunTable(w io.Writer, summary schema.RunSummary, cfg *contract.Config) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Repository", "New", "Branches", "Elapsed", "Result"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	urlWidth := getMaxColumnWidth(cfg, runFixedWidth)
	var data [][]string
	for _, r := range summary.Results {
		data = append(data, []string{
			contract.DisplayURL(r.CloneURL, urlWidth),
			strconv.Itoa(r.NewCommits),
			strconv.Itoa(r.BranchUpdates),
			r.Elapsed.Round(time.Millisecond).String(),
			colorLabel(r, cfg),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	stats := "skipped"
	if summary.StatsUpdated {
		stats = "updated"
	}
	if _, err := fmt.Fprintf(w, "Indexed %d repositories with %d changes (%d failed), stats %s\n",
		summary.Repositories, summary.Changes, summary.Failed, stats); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Run %s completed in %v\n", summary.RunID, summary.Elapsed.Round(time.Millisecond))
	return err
}

// writeCSVRunSummary writes one CSV row per repository pass.
func writeCSVRunSummary(w io.Writer, summary schema.RunSummary) error {
	header := []string{"run_id", "clone_url", "new_commits", "branch_updates", "elapsed_ms", "result"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, r := range summary.Results {
			rec := []string{
				summary.RunID,
				r.CloneURL,
				strconv.Itoa(r.NewCommits),
				strconv.Itoa(r.BranchUpdates),
				strconv.FormatInt(r.Elapsed.Milliseconds(), 10),
				resultLabel(r),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}
