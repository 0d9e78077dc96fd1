package discover

import (
	"bufio"
	"context"
	"os"
	"strings"

	"github.com/vino9org/git-indexer/internal/contract"
)

// minURLLength drops lines too short to be a clone URL.
const minURLLength = 7

// ListSource reads clone URLs from a text file, one per line. Lines starting
// with # are comments.
type ListSource struct{}

var _ contract.RepositorySource = &ListSource{} // Compile-time check

// Repositories implements the RepositorySource interface. query is the file path.
func (ListSource) Repositories(_ context.Context, query string) ([]string, error) {
	path, err := expandHome(query)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	var urls []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, "#") || len(line) < minURLLength {
			continue
		}
		urls = append(urls, line)
	}
	return urls, scanner.Err()
}
