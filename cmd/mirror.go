package cmd

import (
	"github.com/spf13/cobra"
	"github.com/vino9org/git-indexer/core"
	"github.com/vino9org/git-indexer/internal/contract"
)

// mirrorCmd keeps bare mirrors of the selected repositories.
var mirrorCmd = &cobra.Command{
	Use:   "mirror",
	Short: "Clone or update bare mirrors of the selected repositories.",
	Long: `Keep a bare mirror of every repository selected by --source and --query
under --mirror-dir. New repositories are cloned with --mirror, existing
mirrors are fetched with --prune. Mirrors can then be indexed with
--source local.

Examples:
  git-indexer mirror --source gitlab --query platform --mirror-dir /data/mirrors --workers 8
  git-indexer mirror --source list --query repos.txt --mirror-dir /data/mirrors --dry-run`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteMirror(rootCtx, cfg, logger); err != nil {
			contract.LogFatal("Cannot run mirror", err)
		}
	},
}
