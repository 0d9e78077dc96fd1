package schema

// Custom string types for type safety.
type (
	// RepoType is the hosting kind of a repository.
	RepoType string

	// ChangeKind is the kind of change a commit made to a file.
	ChangeKind string

	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for the index.
	DatabaseBackend string

	// SourceKind is where repository clone URLs are enumerated from.
	SourceKind string

	// SearchKind is how a search term is interpreted.
	SearchKind string
)

// All repository types supported.
const (
	GitHubRepo           RepoType = "github"
	GitLabRepo           RepoType = "gitlab"
	GitLabPrivateRepo    RepoType = "gitlab_private"
	BitbucketRepo        RepoType = "bitbucket"
	BitbucketPrivateRepo RepoType = "bitbucket_private"
	LocalRepo            RepoType = "local"
	OtherRepo            RepoType = "other"
)

// All change kinds recorded for committed files.
const (
	AddChange     ChangeKind = "ADD"
	ModifyChange  ChangeKind = "MODIFY"
	DeleteChange  ChangeKind = "DELETE"
	RenameChange  ChangeKind = "RENAME"
	CopyChange    ChangeKind = "COPY"
	UnknownChange ChangeKind = "UNKNOWN"
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All database backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
)

// All repository sources supported.
const (
	LocalSource  SourceKind = "local"
	GitHubSource SourceKind = "github"
	GitLabSource SourceKind = "gitlab"
	ListSource   SourceKind = "list"
)

// All search kinds supported.
const (
	SearchBySHA   SearchKind = "sha"
	SearchByEmail SearchKind = "email"
	SearchByRepo  SearchKind = "repo"
)

// LocalBrowseURL is the placeholder browse URL given to local repositories.
const LocalBrowseURL = "http://localhost:9000/gitweb/"

// ValidRepoTypes lists all valid repository types.
var ValidRepoTypes = map[RepoType]struct{}{
	GitHubRepo:           {},
	GitLabRepo:           {},
	GitLabPrivateRepo:    {},
	BitbucketRepo:        {},
	BitbucketPrivateRepo: {},
	LocalRepo:            {},
	OtherRepo:            {},
}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid database backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
}

// ValidSources lists all valid repository sources.
var ValidSources = map[SourceKind]struct{}{
	LocalSource:  {},
	GitHubSource: {},
	GitLabSource: {},
	ListSource:   {},
}

// RepoTypeForSource returns the repository type implied by a source.
// A list source implies nothing, so the type is inferred from each URL.
func RepoTypeForSource(source SourceKind) RepoType {
	switch source {
	case LocalSource:
		return LocalRepo
	case GitHubSource:
		return GitHubRepo
	case GitLabSource:
		return GitLabRepo
	default:
		return ""
	}
}
