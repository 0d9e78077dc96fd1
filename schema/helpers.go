package schema

import (
	"fmt"
	"net/url"
	"path"
	"regexp"
	"strings"
)

var gitSuffixRegex = regexp.MustCompile(`\.git$`)

// NewRepository builds a repository row for a clone URL that is not yet registered.
// An empty repoType is inferred from the URL; an unknown one is rejected.
func NewRepository(cloneURL string, repoType RepoType) (*Repository, error) {
	if strings.TrimSpace(cloneURL) == "" {
		return nil, fmt.Errorf("clone url cannot be empty")
	}
	if repoType == "" {
		repoType = InferRepoType(cloneURL)
	}
	if _, ok := ValidRepoTypes[repoType]; !ok {
		return nil, fmt.Errorf("invalid repo type %q for %s", repoType, cloneURL)
	}

	browseURL := CloneToBrowseURL(cloneURL)
	if repoType == LocalRepo {
		browseURL = LocalBrowseURL
	}

	return &Repository{
		CloneURL:       cloneURL,
		RepoType:       repoType,
		BrowseURL:      browseURL,
		Name:           RepoName(cloneURL),
		IncludeInStats: true,
		IsActive:       true,
	}, nil
}

// IsRemoteURL reports whether a clone URL points at a hosted repository.
func IsRemoteURL(cloneURL string) bool {
	return strings.HasPrefix(cloneURL, "http") || strings.HasPrefix(cloneURL, "git@") || strings.HasPrefix(cloneURL, "ssh://")
}

// InferRepoType guesses the hosting kind from the shape of a clone URL.
func InferRepoType(cloneURL string) RepoType {
	if !IsRemoteURL(cloneURL) {
		return LocalRepo
	}
	switch {
	case strings.Contains(cloneURL, "gitlab"):
		return GitLabRepo
	case strings.Contains(cloneURL, "github.com"):
		return GitHubRepo
	case strings.Contains(cloneURL, "bitbucket"):
		return BitbucketRepo
	default:
		return OtherRepo
	}
}

// CloneToBrowseURL converts a clone URL into the https URL used to browse it.
// Schemes other than http(s) and ssh yield an empty string.
func CloneToBrowseURL(cloneURL string) string {
	var httpURL string
	switch {
	case strings.HasPrefix(cloneURL, "http://"), strings.HasPrefix(cloneURL, "https://"):
		httpURL = cloneURL
	case strings.HasPrefix(cloneURL, "git@"):
		host, p, ok := strings.Cut(strings.TrimPrefix(cloneURL, "git@"), ":")
		if !ok {
			return ""
		}
		httpURL = "https://" + host + "/" + p
	case strings.HasPrefix(cloneURL, "ssh://"), strings.HasPrefix(cloneURL, "ssh+git://"):
		u, err := url.Parse(cloneURL)
		if err != nil {
			return ""
		}
		httpURL = "https://" + u.Hostname() + "/" + strings.TrimPrefix(u.Path, "/")
	default:
		return ""
	}
	return gitSuffixRegex.ReplaceAllString(httpURL, "")
}

// RepoName returns the last path segment of a clone URL without the .git suffix.
func RepoName(cloneURL string) string {
	trimmed := strings.TrimRight(cloneURL, "/")
	if i := strings.LastIndex(trimmed, ":"); i >= 0 && strings.HasPrefix(trimmed, "git@") {
		trimmed = trimmed[i+1:]
	}
	return strings.TrimSuffix(path.Base(trimmed), ".git")
}

// URLForCommit returns the web URL of a commit, or an empty string when the
// hosting kind has no known commit page.
func (r *Repository) URLForCommit(sha string) string {
	if r.BrowseURL == "" {
		return ""
	}
	switch r.RepoType {
	case GitHubRepo:
		return r.BrowseURL + "/commit/" + sha
	case GitLabRepo, GitLabPrivateRepo:
		return r.BrowseURL + "/-/commit/" + sha
	case BitbucketRepo, BitbucketPrivateRepo:
		return r.BrowseURL + "/commits/" + sha
	default:
		return ""
	}
}
