// main is the entry point of the git-indexer CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/vino9org/git-indexer/cmd"
	"github.com/vino9org/git-indexer/internal/contract"
)

func main() {
	// SIGINT stops traversal between commits; the current repository is rolled back.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := cmd.Execute(ctx)
	_ = cmd.SyncLogger()
	if err != nil {
		stop()
		contract.LogFatal("git-indexer", err)
	}
}
