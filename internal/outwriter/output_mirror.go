package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/vino9org/git-indexer/internal/contract"
	"github.com/vino9org/git-indexer/internal/mirror"
	"github.com/vino9org/git-indexer/schema"
)

// mirrorFixedWidth covers the action and error columns.
const mirrorFixedWidth = 40

// mirrorRow is the JSON shape of one mirror result.
type mirrorRow struct {
	CloneURL string `json:"clone_url"`
	Dest     string `json:"dest"`
	Action   string `json:"action"`
	Error    string `json:"error,omitempty"`
}

func toMirrorRows(results []mirror.Result) []mirrorRow {
	rows := make([]mirrorRow, 0, len(results))
	for _, r := range results {
		row := mirrorRow{CloneURL: r.CloneURL, Dest: r.Dest, Action: r.Action}
		if r.Err != nil {
			row.Error = r.Err.Error()
		}
		rows = append(rows, row)
	}
	return rows
}

// WriteMirrorResults outputs mirror results, dispatching based on the output format configured.
func WriteMirrorResults(w io.Writer, results []mirror.Result, cfg *contract.Config) error {
	rows := toMirrorRows(results)
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeJSON(w, rows); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		err := writeCSVWithHeader(w, []string{"clone_url", "dest", "action", "error"}, func(cw *csv.Writer) error {
			for _, r := range rows {
				if err := cw.Write([]string{r.CloneURL, r.Dest, r.Action, r.Error}); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		return writeMirrorTable(w, rows, cfg)
	}
	return nil
}

func writeMirrorTable(w io.Writer, rows []mirrorRow, cfg *contract.Config) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Repository", "Action", "Error"})

	urlWidth := getMaxColumnWidth(cfg, mirrorFixedWidth)
	failed := 0
	var data [][]string
	for _, r := range rows {
		action := r.Action
		if r.Error != "" {
			failed++
			action = paint(contract.FailColor, action, cfg)
		}
		data = append(data, []string{contract.DisplayURL(r.CloneURL, urlWidth), action, r.Error})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Mirrored %d repositories (%d failed)\n", len(rows), failed)
	return err
}
