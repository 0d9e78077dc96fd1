// Package cmd defines the command-line interface for git-indexer.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/vino9org/git-indexer/internal/contract"
	"github.com/vino9org/git-indexer/schema"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(mirrorCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("db-backend", string(schema.SQLiteBackend), "Index backend: sqlite or mysql or postgresql")
	rootCmd.PersistentFlags().String("db-connect", "", "Database connection string for mysql/postgresql, or a sqlite file used directly")
	rootCmd.PersistentFlags().String("db", "", "Snapshot file of the in-memory sqlite index (default "+contract.DefaultSnapshotFile+")")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().IntP("limit", "l", contract.DefaultResultLimit, "Number of results to display")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("log-level", contract.DefaultLogLevel, "Log level: debug or info or warn or error")
	rootCmd.PersistentFlags().String("log-format", "", "Log format: console or json (default console on a terminal)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Flags of indexCmd
	addSourceFlags(indexCmd.Flags())
	indexCmd.Flags().String("timeout", contract.DefaultTimeout.String(), "Per repository time budget, as a duration or seconds")
	indexCmd.Flags().Bool("show-progress", false, "Log progress every 200 commits")
	indexCmd.Flags().String("metrics-file", "", "Write Prometheus metrics in text format to this file")

	// Flags of mirrorCmd
	addSourceFlags(mirrorCmd.Flags())
	mirrorCmd.Flags().String("mirror-dir", "", "Directory that holds the bare mirrors")
	mirrorCmd.Flags().Bool("overwrite", false, "Replace destinations that are not mirrors")
	mirrorCmd.Flags().Int("workers", contract.DefaultWorkers, "Number of concurrent clones")

	// Flags of migrateCmd
	migrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
}

// addSourceFlags adds the repository discovery flags shared by index and mirror.
func addSourceFlags(fs *pflag.FlagSet) {
	fs.String("source", "", "Where to find repositories: local or github or gitlab or list")
	fs.StringP("query", "q", "", "Directory, list file or search query, depending on the source")
	fs.StringP("filter", "f", contract.DefaultFilter, "Comma-separated glob patterns on clone URLs")
	fs.String("repo-type", "", "Repository type recorded for new repositories (default inferred)")
	fs.Bool("dry-run", false, "List the selected repositories without touching them")
	fs.String("github-token", "", "GitHub token (or GITHUB_TOKEN)")
	fs.String("gitlab-token", "", "GitLab token (or GITLAB_TOKEN)")
	fs.String("gitlab-url", contract.DefaultGitLabURL, "GitLab base URL")
}
