package outwriter

import (
	"os"

	"github.com/vino9org/git-indexer/internal/contract"
	"golang.org/x/term"
)

// getTermWidth returns the configured width override, the detected terminal
// width, or a conservative default for CI and pipes.
func getTermWidth(cfg *contract.Config) int {
	if cfg.Width > 0 {
		return cfg.Width
	}
	detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || detectedWidth <= 0 {
		return 80 // Conservative default for narrow terminals and CI
	}
	return detectedWidth
}

// getMaxColumnWidth calculates the width left for the one variable column of a
// table once fixedWidth is reserved for the others.
func getMaxColumnWidth(cfg *contract.Config, fixedWidth int) int {
	// Reserve generous space for table borders, separators, and padding
	available := getTermWidth(cfg) - fixedWidth - 20
	if available < 15 {
		// Minimum reasonable width
		return 15
	}
	if available > 70 {
		// Maximum width to prevent overly long cells
		return 70
	}
	return available
}
