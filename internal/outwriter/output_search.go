package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/vino9org/git-indexer/internal/contract"
	"github.com/vino9org/git-indexer/schema"
)

const (
	shortSHALength = 10
	dateFormat     = "2006-01-02 15:04"
)

// searchFixedWidth covers every search column except the message.
const searchFixedWidth = 75

// WriteSearchResults outputs search results, dispatching based on the output format configured.
func WriteSearchResults(w io.Writer, records []schema.CommitRecord, kind schema.SearchKind, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeJSONResultsForSearch(w, records, kind); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeCSVResultsForSearch(w, records); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		return writeSearchTable(w, records, kind, cfg)
	}
	return nil
}

// writeSearchTable generates and writes the human-readable table.
func writeSearchTable(w io.Writer, records []schema.CommitRecord, kind schema.SearchKind, cfg *contract.Config) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"SHA", "Date", "Author", "Repo", "Lines", "Files", "Message"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.PerColumn = []tw.Align{
			tw.AlignLeft, tw.AlignLeft, tw.AlignLeft, tw.AlignLeft, tw.AlignRight, tw.AlignRight, tw.AlignLeft,
		}
	})

	messageWidth := getMaxColumnWidth(cfg, searchFixedWidth)
	var data [][]string
	for _, r := range records {
		sha := r.SHA
		if len(sha) > shortSHALength {
			sha = sha[:shortSHALength]
		}
		if r.IsMerge {
			sha = paint(contract.MutedColor, sha, cfg)
		}
		data = append(data, []string{
			sha,
			r.CreatedAt.Format(dateFormat),
			r.AuthorEmail,
			r.RepoName,
			strconv.Itoa(r.NLinesChanged),
			strconv.Itoa(r.NFilesChanged),
			truncateText(firstLine(r.Message), messageWidth),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Showing %d commits matched by %s\n", len(records), kind)
	return err
}

// writeCSVResultsForSearch writes search results in CSV format.
func writeCSVResultsForSearch(w io.Writer, records []schema.CommitRecord) error {
	header := []string{
		"sha", "created_at", "author_name", "author_email", "repo_name", "repo_type",
		"branches", "is_merge", "n_lines_changed", "n_files_changed", "commit_url", "message",
	}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, r := range records {
			rec := []string{
				r.SHA,
				r.CreatedAt.UTC().Format(time.RFC3339),
				r.AuthorName,
				r.AuthorEmail,
				r.RepoName,
				string(r.RepoType),
				r.Branches,
				strconv.FormatBool(r.IsMerge),
				strconv.Itoa(r.NLinesChanged),
				strconv.Itoa(r.NFilesChanged),
				r.CommitURL,
				r.Message,
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeJSONResultsForSearch writes search results in JSON format.
func writeJSONResultsForSearch(w io.Writer, records []schema.CommitRecord, kind schema.SearchKind) error {
	type JSONSearchResult struct {
		Kind    schema.SearchKind     `json:"kind"`
		Count   int                   `json:"count"`
		Commits []schema.CommitRecord `json:"commits"`
	}
	if records == nil {
		records = []schema.CommitRecord{}
	}
	return writeJSON(w, JSONSearchResult{Kind: kind, Count: len(records), Commits: records})
}

// firstLine returns the subject line of a commit message.
func firstLine(message string) string {
	line, _, _ := strings.Cut(message, "\n")
	return strings.TrimSpace(line)
}

// truncateText cuts s to maxWidth runes with an ellipsis suffix.
func truncateText(s string, maxWidth int) string {
	runes := []rune(s)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return s
}
