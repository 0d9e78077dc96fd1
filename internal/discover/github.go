package discover

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/google/go-github/v57/github"
	"github.com/vino9org/git-indexer/internal/contract"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

// GitHubSource searches GitHub repositories and returns their ssh clone URLs.
type GitHubSource struct {
	client  *github.Client
	limiter *rate.Limiter
}

var _ contract.RepositorySource = &GitHubSource{} // Compile-time check

// NewGitHubSource creates a GitHub source. An empty token searches
// anonymously; baseURL points at a GitHub Enterprise or test server.
func NewGitHubSource(ctx context.Context, token, baseURL string, httpClient *http.Client) *GitHubSource {
	if token != "" && httpClient == nil {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		httpClient = oauth2.NewClient(ctx, ts)
	}
	client := github.NewClient(httpClient)
	if baseURL != "" {
		if u, err := url.Parse(baseURL + "/"); err == nil {
			client.BaseURL = u
		}
	}
	return &GitHubSource{client: client, limiter: newLimiter()}
}

// Repositories implements the RepositorySource interface. query uses the
// GitHub repository search syntax, e.g. "org:vino9org".
func (g *GitHubSource) Repositories(ctx context.Context, query string) ([]string, error) {
	opts := &github.SearchOptions{ListOptions: github.ListOptions{PerPage: perPage}}
	var urls []string
	for {
		if err := g.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}
		result, resp, err := g.client.Search.Repositories(ctx, query, opts)
		if err != nil {
			return nil, fmt.Errorf("github search %q failed: %w", query, err)
		}
		for _, repo := range result.Repositories {
			urls = append(urls, repo.GetSSHURL())
		}
		if resp.NextPage == 0 {
			return urls, nil
		}
		opts.Page = resp.NextPage
	}
}
