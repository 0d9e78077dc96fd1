package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCloneToBrowseURL(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"https://github.com/vino9org/git-indexer.git", "https://github.com/vino9org/git-indexer"},
		{"http://localhost:3000/me/proj", "http://localhost:3000/me/proj"},
		{"git@my_company.com:fancy_project/stupid_code.git", "https://my_company.com/fancy_project/stupid_code"},
		{"ssh://git@gitlab.com/group/sub/proj.git", "https://gitlab.com/group/sub/proj"},
		{"file:///tmp/repos/one", ""},
		{"/home/me/code/repo1", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, CloneToBrowseURL(tt.input))
		})
	}
}

func TestInferRepoType(t *testing.T) {
	tests := []struct {
		input    string
		expected RepoType
	}{
		{"https://github.com/org/repo.git", GitHubRepo},
		{"git@github.com:org/repo.git", GitHubRepo},
		{"https://gitlab.com/org/repo", GitLabRepo},
		{"git@gitlab.mycorp.net:org/repo.git", GitLabRepo},
		{"https://bitbucket.org/org/repo.git", BitbucketRepo},
		{"https://git.example.com/org/repo.git", OtherRepo},
		{"/home/me/code/repo1", LocalRepo},
		{"file:///tmp/repo", LocalRepo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, InferRepoType(tt.input))
		})
	}
}

func TestRepoName(t *testing.T) {
	assert.Equal(t, "git-indexer", RepoName("https://github.com/vino9org/git-indexer.git"))
	assert.Equal(t, "stupid_code", RepoName("git@my_company.com:fancy_project/stupid_code.git"))
	assert.Equal(t, "repo1", RepoName("/tmp/repos/repo1/"))
	assert.Equal(t, "solo", RepoName("git@host:solo.git"))
}

func TestNewRepository(t *testing.T) {
	t.Run("infers remote type and browse url", func(t *testing.T) {
		repo, err := NewRepository("git@github.com:org/svc.git", "")
		require.NoError(t, err)
		assert.Equal(t, GitHubRepo, repo.RepoType)
		assert.Equal(t, "https://github.com/org/svc", repo.BrowseURL)
		assert.Equal(t, "svc", repo.Name)
		assert.True(t, repo.IncludeInStats)
		assert.True(t, repo.IsActive)
		assert.Nil(t, repo.LastIndexedAt)
	})

	t.Run("local repo gets placeholder browse url", func(t *testing.T) {
		repo, err := NewRepository("/data/mirrors/proj.git", "")
		require.NoError(t, err)
		assert.Equal(t, LocalRepo, repo.RepoType)
		assert.Equal(t, LocalBrowseURL, repo.BrowseURL)
		assert.Equal(t, "proj", repo.Name)
	})

	t.Run("explicit type wins over inference", func(t *testing.T) {
		repo, err := NewRepository("https://gitlab.mycorp.net/team/app.git", GitLabPrivateRepo)
		require.NoError(t, err)
		assert.Equal(t, GitLabPrivateRepo, repo.RepoType)
		assert.Equal(t, "https://gitlab.mycorp.net/team/app", repo.BrowseURL)
	})

	t.Run("unknown type is rejected", func(t *testing.T) {
		_, err := NewRepository("https://github.com/org/app.git", "sourceforge")
		assert.Error(t, err)
	})

	t.Run("empty url is rejected", func(t *testing.T) {
		_, err := NewRepository("  ", "")
		assert.Error(t, err)
	})
}

func TestURLForCommit(t *testing.T) {
	sha := "0123456789abcdef0123456789abcdef01234567"
	tests := []struct {
		name     string
		repo     Repository
		expected string
	}{
		{"github", Repository{RepoType: GitHubRepo, BrowseURL: "https://github.com/o/r"}, "https://github.com/o/r/commit/" + sha},
		{"gitlab", Repository{RepoType: GitLabRepo, BrowseURL: "https://gitlab.com/o/r"}, "https://gitlab.com/o/r/-/commit/" + sha},
		{"gitlab private", Repository{RepoType: GitLabPrivateRepo, BrowseURL: "https://gl.corp/o/r"}, "https://gl.corp/o/r/-/commit/" + sha},
		{"bitbucket", Repository{RepoType: BitbucketRepo, BrowseURL: "https://bitbucket.org/o/r"}, "https://bitbucket.org/o/r/commits/" + sha},
		{"local", Repository{RepoType: LocalRepo, BrowseURL: LocalBrowseURL}, ""},
		{"no browse url", Repository{RepoType: GitHubRepo}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.repo.URLForCommit(sha))
		})
	}
}

func TestRawFilePath(t *testing.T) {
	assert.Equal(t, "b.go", RawFile{OldPath: "a.go", NewPath: "b.go"}.Path())
	assert.Equal(t, "a.go", RawFile{OldPath: "a.go"}.Path())
}

func TestRepoTypeForSource(t *testing.T) {
	assert.Equal(t, LocalRepo, RepoTypeForSource(LocalSource))
	assert.Equal(t, GitHubRepo, RepoTypeForSource(GitHubSource))
	assert.Equal(t, GitLabRepo, RepoTypeForSource(GitLabSource))
	assert.Equal(t, RepoType(""), RepoTypeForSource(ListSource))
}
