package contract

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vino9org/git-indexer/schema"
)

func TestProcessAndValidate(t *testing.T) {
	tests := []struct {
		name        string
		input       *ConfigRawInput
		expectError bool
		check       func(t *testing.T, cfg *Config)
	}{
		{
			name:  "defaults",
			input: &ConfigRawInput{},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, schema.SQLiteBackend, cfg.DBBackend)
				assert.True(t, filepath.IsAbs(cfg.DBFile))
				assert.Equal(t, "git-indexer.db", filepath.Base(cfg.DBFile))
				assert.Equal(t, DefaultTimeout, cfg.Timeout)
				assert.Equal(t, DefaultResultLimit, cfg.Limit)
				assert.Equal(t, DefaultWorkers, cfg.Workers)
				assert.Equal(t, DefaultFilter, cfg.Filter)
				assert.Equal(t, DefaultGitLabURL, cfg.GitLabURL)
				assert.Equal(t, schema.TextOut, cfg.Output)
				assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
				assert.True(t, cfg.UseColors)
				assert.Equal(t, schema.RepoType(""), cfg.RepoType)
			},
		},
		{
			name:  "source implies repo type",
			input: &ConfigRawInput{Source: "GitHub", Query: "org:vino9org"},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, schema.GitHubSource, cfg.Source)
				assert.Equal(t, schema.GitHubRepo, cfg.RepoType)
			},
		},
		{
			name:  "explicit repo type wins",
			input: &ConfigRawInput{Source: "gitlab", RepoType: "gitlab_private"},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, schema.GitLabPrivateRepo, cfg.RepoType)
			},
		},
		{
			name:  "list source infers per url",
			input: &ConfigRawInput{Source: "list"},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, schema.RepoType(""), cfg.RepoType)
			},
		},
		{
			name:  "timeout in seconds",
			input: &ConfigRawInput{Timeout: "90"},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 90*time.Second, cfg.Timeout)
			},
		},
		{
			name:  "file backed sqlite has no snapshot",
			input: &ConfigRawInput{DBConnect: "/tmp/index.db"},
			check: func(t *testing.T, cfg *Config) {
				assert.Empty(t, cfg.DBFile)
			},
		},
		{
			name:  "postgres url",
			input: &ConfigRawInput{DBBackend: "postgresql", DBConnect: "postgres://u:p@localhost:5432/idx"},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, schema.PostgreSQLBackend, cfg.DBBackend)
				assert.Empty(t, cfg.DBFile)
			},
		},
		{
			name:  "gitlab url trailing slash",
			input: &ConfigRawInput{GitLabURL: "https://gitlab.mycorp.net/"},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "https://gitlab.mycorp.net", cfg.GitLabURL)
			},
		},
		{name: "invalid source", input: &ConfigRawInput{Source: "svn"}, expectError: true},
		{name: "invalid repo type", input: &ConfigRawInput{RepoType: "sourceforge"}, expectError: true},
		{name: "invalid backend", input: &ConfigRawInput{DBBackend: "oracle"}, expectError: true},
		{name: "mysql without dsn", input: &ConfigRawInput{DBBackend: "mysql"}, expectError: true},
		{name: "invalid output", input: &ConfigRawInput{Output: "xml"}, expectError: true},
		{name: "invalid log format", input: &ConfigRawInput{LogFormat: "logfmt"}, expectError: true},
		{name: "limit too large", input: &ConfigRawInput{Limit: MaxResultLimit + 1}, expectError: true},
		{name: "negative workers", input: &ConfigRawInput{Workers: -1}, expectError: true},
		{name: "bad timeout", input: &ConfigRawInput{Timeout: "soon"}, expectError: true},
		{name: "zero timeout", input: &ConfigRawInput{Timeout: "0"}, expectError: true},
		{name: "bad color", input: &ConfigRawInput{Color: "maybe"}, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			err := ProcessAndValidate(cfg, tt.input)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}

func TestValidateDatabaseConnectionString(t *testing.T) {
	tests := []struct {
		name    string
		backend schema.DatabaseBackend
		connStr string
		wantErr bool
	}{
		{"sqlite empty", schema.SQLiteBackend, "", false},
		{"mysql valid", schema.MySQLBackend, "user:pass@tcp(localhost:3306)/idx", false},
		{"mysql missing tcp", schema.MySQLBackend, "user:pass@localhost/idx", true},
		{"mysql missing db", schema.MySQLBackend, "user:pass@tcp(localhost:3306)", true},
		{"postgres keyword", schema.PostgreSQLBackend, "host=localhost dbname=idx", false},
		{"postgres url", schema.PostgreSQLBackend, "postgresql://localhost/idx", false},
		{"postgres missing dbname", schema.PostgreSQLBackend, "host=localhost", true},
		{"postgres empty", schema.PostgreSQLBackend, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDatabaseConnectionString(tt.backend, tt.connStr)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateSource(t *testing.T) {
	dir := t.TempDir()
	listFile := filepath.Join(dir, "repos.txt")
	require.NoError(t, os.WriteFile(listFile, []byte("git@github.com:org/a.git\n"), 0o644))

	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"missing source", Config{Query: dir}, true},
		{"missing query", Config{Source: schema.GitHubSource}, true},
		{"local dir", Config{Source: schema.LocalSource, Query: dir}, false},
		{"local file is not a dir", Config{Source: schema.LocalSource, Query: listFile}, true},
		{"list file", Config{Source: schema.ListSource, Query: listFile}, false},
		{"missing list file", Config{Source: schema.ListSource, Query: filepath.Join(dir, "nope.txt")}, true},
		{"github without token", Config{Source: schema.GitHubSource, Query: "org:x"}, false},
		{"gitlab without token", Config{Source: schema.GitLabSource, Query: "team"}, true},
		{"gitlab with token", Config{Source: schema.GitLabSource, Query: "team", GitLabToken: "t"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			err := ValidateSource(&cfg)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestParseTimeout(t *testing.T) {
	d, err := ParseTimeout("")
	require.NoError(t, err)
	assert.Equal(t, DefaultTimeout, d)

	d, err = ParseTimeout("45m")
	require.NoError(t, err)
	assert.Equal(t, 45*time.Minute, d)

	d, err = ParseTimeout(" 3600 ")
	require.NoError(t, err)
	assert.Equal(t, time.Hour, d)

	_, err = ParseTimeout("-5m")
	assert.Error(t, err)
}
