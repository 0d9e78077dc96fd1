package core

import (
	"context"
	"regexp"
	"strings"

	"github.com/vino9org/git-indexer/internal/contract"
	"github.com/vino9org/git-indexer/schema"
)

var shaPattern = regexp.MustCompile(`^[0-9a-fA-F]{40}$`)

// ClassifySearchTerm decides how a free-form search term is matched: a full
// commit hash, an email address, or otherwise a repository name.
func ClassifySearchTerm(term string) schema.SearchKind {
	term = strings.TrimSpace(term)
	switch {
	case shaPattern.MatchString(term):
		return schema.SearchBySHA
	case strings.Contains(term, "@"):
		return schema.SearchByEmail
	default:
		return schema.SearchByRepo
	}
}

// SearchCommits runs the lookup chosen by ClassifySearchTerm and fills in the
// commit URL of every record. A non-positive limit means the default page size.
func SearchCommits(ctx context.Context, qs contract.QueryStore, term string, limit int) ([]schema.CommitRecord, schema.SearchKind, error) {
	if limit <= 0 {
		limit = contract.DefaultResultLimit
	}
	limit = min(limit, contract.MaxResultLimit)

	term = strings.TrimSpace(term)
	kind := ClassifySearchTerm(term)
	var (
		records []schema.CommitRecord
		err     error
	)
	switch kind {
	case schema.SearchBySHA:
		records, err = qs.FindCommitsBySHA(ctx, term, limit)
	case schema.SearchByEmail:
		records, err = qs.FindCommitsByEmail(ctx, term, limit)
	default:
		records, err = qs.FindCommitsByRepoName(ctx, term, limit)
	}
	if err != nil {
		return nil, kind, err
	}

	for i := range records {
		repo := schema.Repository{RepoType: records[i].RepoType, BrowseURL: records[i].BrowseURL}
		records[i].CommitURL = repo.URLForCommit(records[i].SHA)
	}
	return records, kind, nil
}
