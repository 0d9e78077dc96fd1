package discover

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/vino9org/git-indexer/internal/contract"
	"golang.org/x/time/rate"
)

// GitLabSource searches GitLab projects and returns their ssh clone URLs.
type GitLabSource struct {
	baseURL string
	token   string
	client  *http.Client
	limiter *rate.Limiter
}

var _ contract.RepositorySource = &GitLabSource{} // Compile-time check

type gitlabProject struct {
	SSHURLToRepo string `json:"ssh_url_to_repo"`
}

// NewGitLabSource creates a GitLab source for the instance at baseURL.
func NewGitLabSource(baseURL, token string, client *http.Client) *GitLabSource {
	return &GitLabSource{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client:  httpClientOrDefault(client),
		limiter: newLimiter(),
	}
}

// Repositories implements the RepositorySource interface. Every page of the
// project search is fetched, following the X-Next-Page header.
func (g *GitLabSource) Repositories(ctx context.Context, query string) ([]string, error) {
	var urls []string
	page := "1"
	for page != "" {
		projects, next, err := g.searchPage(ctx, query, page)
		if err != nil {
			return nil, err
		}
		for _, p := range projects {
			urls = append(urls, p.SSHURLToRepo)
		}
		page = next
	}
	return urls, nil
}

func (g *GitLabSource) searchPage(ctx context.Context, query, page string) ([]gitlabProject, string, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return nil, "", fmt.Errorf("rate limiter error: %w", err)
	}

	params := url.Values{}
	params.Set("scope", "projects")
	params.Set("search", query)
	params.Set("per_page", strconv.Itoa(perPage))
	params.Set("page", page)
	endpoint := g.baseURL + "/api/v4/search?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, "", err
	}
	req.Header.Set("PRIVATE-TOKEN", g.token)
	req.Header.Set("Accept", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("gitlab search %q failed: %w", query, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, "", fmt.Errorf("gitlab search %q failed: %s: %s", query, resp.Status, strings.TrimSpace(string(body)))
	}

	var projects []gitlabProject
	if err := json.NewDecoder(resp.Body).Decode(&projects); err != nil {
		return nil, "", fmt.Errorf("failed to decode gitlab response: %w", err)
	}
	return projects, resp.Header.Get("X-Next-Page"), nil
}
