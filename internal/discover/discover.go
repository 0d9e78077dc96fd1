// Package discover enumerates the clone URLs of repositories to index or mirror.
package discover

import (
	"context"
	"fmt"
	"net/http"

	"github.com/vino9org/git-indexer/internal/contract"
	"github.com/vino9org/git-indexer/schema"
	"golang.org/x/time/rate"
)

// Remote APIs are queried at most this often.
const (
	apiRate  = rate.Limit(5)
	apiBurst = 5
	perPage  = 100
)

// New returns the RepositorySource for the configured source kind.
func New(ctx context.Context, cfg *contract.Config) (contract.RepositorySource, error) {
	switch cfg.Source {
	case schema.LocalSource:
		return &LocalSource{}, nil
	case schema.ListSource:
		return &ListSource{}, nil
	case schema.GitHubSource:
		return NewGitHubSource(ctx, cfg.GitHubToken, "", nil), nil
	case schema.GitLabSource:
		return NewGitLabSource(cfg.GitLabURL, cfg.GitLabToken, nil), nil
	default:
		return nil, fmt.Errorf("unsupported source: %s", cfg.Source)
	}
}

// Discover lists the repositories of src and keeps those matching filter.
func Discover(ctx context.Context, src contract.RepositorySource, query, filter string) ([]string, error) {
	urls, err := src.Repositories(ctx, query)
	if err != nil {
		return nil, err
	}
	matched := make([]string, 0, len(urls))
	for _, u := range urls {
		if contract.MatchAny(u, filter) {
			matched = append(matched, u)
		}
	}
	return matched, nil
}

func newLimiter() *rate.Limiter {
	return rate.NewLimiter(apiRate, apiBurst)
}

func httpClientOrDefault(c *http.Client) *http.Client {
	if c == nil {
		return http.DefaultClient
	}
	return c
}
