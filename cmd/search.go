package cmd

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/vino9org/git-indexer/core"
	"github.com/vino9org/git-indexer/internal/contract"
)

// searchCmd looks up commits.
var searchCmd = &cobra.Command{
	Use:   "search TERM",
	Short: "Find commits by hash, author email or repository name.",
	Long: `Look up indexed commits. A 40 character hex TERM is a commit hash, a TERM
containing '@' is an author email, anything else is a repository name.
Results are ordered by lines changed, largest first.

Examples:
  git-indexer search 0123456789abcdef0123456789abcdef01234567
  git-indexer search dev@example.com --limit 10
  git-indexer search git-indexer --output json`,
	Args:    cobra.MinimumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		if err := core.ExecuteSearch(rootCtx, cfg, strings.Join(args, " ")); err != nil {
			contract.LogFatal("Cannot run search", err)
		}
	},
}

// exportCmd writes the denormalized commit view.
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all commit data to Parquet or CSV.",
	Long: `Write the all_commit_data view (author, commit, file and repository per row)
for analytics tools.

Examples:
  git-indexer export --output parquet --output-file all_commit_data.parquet
  git-indexer export --output csv > all_commit_data.csv`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteExport(rootCtx, cfg, logger); err != nil {
			contract.LogFatal("Cannot run export", err)
		}
	},
}

// statusCmd shows the index status.
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display index statistics and connection details.",
	Long: `Show the index backend, snapshot file, schema version, row counts per table
and the repository indexed most recently.`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteStatus(rootCtx, cfg, logger); err != nil {
			contract.LogFatal("Failed to get index status", err)
		}
	},
}
