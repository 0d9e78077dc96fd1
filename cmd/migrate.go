package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/vino9org/git-indexer/internal/contract"
	"github.com/vino9org/git-indexer/internal/store"
)

// migrateCmd runs schema migrations.
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Migrate the index schema to a version.",
	Long: `Run schema migrations against the configured index.

Every other command migrates to the latest version on start. Use this command
to roll back or to move to a specific version.

Examples:
  # Migrate to the latest version
  git-indexer migrate

  # Roll back all migrations
  git-indexer migrate --target-version 0`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		target := viper.GetInt("target-version")
		if err := store.MigrateStore(rootCtx, cfg.DBBackend, cfg.DBConnect, cfg.DBFile, target); err != nil {
			contract.LogFatal("Failed to migrate index", err)
		}
	},
}
