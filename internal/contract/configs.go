package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/vino9org/git-indexer/schema"
)

// Default values for configuration.
const (
	DefaultResultLimit  = 50
	MaxResultLimit      = 1000
	DefaultTimeout      = 8 * time.Hour
	DefaultWorkers      = 4
	DefaultFilter       = "*"
	DefaultGitLabURL    = "https://gitlab.com"
	DefaultSnapshotFile = "db/git-indexer.db"
	DefaultLogLevel     = "info"
)

// Config holds the validated settings shared by all commands.
type Config struct {
	Source   schema.SourceKind
	Query    string
	Filter   string
	RepoType schema.RepoType

	DBBackend schema.DatabaseBackend
	DBConnect string // Please use env var as this is plaintext
	DBFile    string // snapshot of the in-memory sqlite store

	Timeout      time.Duration
	ShowProgress bool
	DryRun       bool
	MetricsFile  string

	Output     schema.OutputMode
	OutputFile string
	Limit      int
	Width      int // Terminal width override (0 = auto-detect)
	UseColors  bool

	LogLevel  string
	LogFormat string

	MirrorDir string
	Overwrite bool
	Workers   int

	GitHubToken string
	GitLabToken string
	GitLabURL   string
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// --- Fields from rootCmd.PersistentFlags() ---
	DBBackend  string `mapstructure:"db-backend"`
	DBConnect  string `mapstructure:"db-connect"`
	DBFile     string `mapstructure:"db"`
	Output     string `mapstructure:"output"`
	OutputFile string `mapstructure:"output-file"`
	Limit      int    `mapstructure:"limit"`
	Width      int    `mapstructure:"width"`
	Color      string `mapstructure:"color"`
	LogLevel   string `mapstructure:"log-level"`
	LogFormat  string `mapstructure:"log-format"`

	// --- Fields shared by indexCmd and mirrorCmd ---
	Source      string `mapstructure:"source"`
	Query       string `mapstructure:"query"`
	Filter      string `mapstructure:"filter"`
	RepoType    string `mapstructure:"repo-type"`
	DryRun      bool   `mapstructure:"dry-run"`
	GitHubToken string `mapstructure:"github-token"`
	GitLabToken string `mapstructure:"gitlab-token"`
	GitLabURL   string `mapstructure:"gitlab-url"`

	// --- Fields from indexCmd.Flags() ---
	Timeout      string `mapstructure:"timeout"`
	ShowProgress bool   `mapstructure:"show-progress"`
	MetricsFile  string `mapstructure:"metrics-file"`

	// --- Fields from mirrorCmd.Flags() ---
	MirrorDir string `mapstructure:"mirror-dir"`
	Overwrite bool   `mapstructure:"overwrite"`
	Workers   int    `mapstructure:"workers"`
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfig(cfg, input); err != nil {
		return err
	}
	if err := processSource(cfg, input); err != nil {
		return err
	}
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("db-connect is required when using %s backend", backend)
		}
		if strings.HasPrefix(connStr, "postgres://") || strings.HasPrefix(connStr, "postgresql://") {
			return nil
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// ValidateSource checks the settings needed to enumerate repositories.
// Only the index and mirror commands call it.
func ValidateSource(cfg *Config) error {
	if cfg.Source == "" {
		return fmt.Errorf("--source is required. must be local, github, gitlab or list")
	}
	if cfg.Query == "" {
		return fmt.Errorf("--query is required for source %s", cfg.Source)
	}
	switch cfg.Source {
	case schema.LocalSource:
		info, err := os.Stat(cfg.Query)
		if err != nil || !info.IsDir() {
			return fmt.Errorf("local source %q is not a directory", cfg.Query)
		}
	case schema.ListSource:
		if _, err := os.Stat(cfg.Query); err != nil {
			return fmt.Errorf("list file %q: %w", cfg.Query, err)
		}
	case schema.GitLabSource:
		if cfg.GitLabToken == "" {
			return fmt.Errorf("gitlab-token (or GITLAB_TOKEN) is required for source gitlab")
		}
	}
	return nil
}

// ParseTimeout accepts a Go duration ("90m", "8h") or a plain number of seconds.
func ParseTimeout(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultTimeout, nil
	}
	if secs, err := strconv.Atoi(s); err == nil {
		if secs <= 0 {
			return 0, fmt.Errorf("timeout must be positive, got %d", secs)
		}
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q: %w", s, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("timeout must be positive, got %s", s)
	}
	return d, nil
}

// validateSimpleInputs processes and validates the output and runtime fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.DryRun = input.DryRun
	cfg.ShowProgress = input.ShowProgress
	cfg.MetricsFile = input.MetricsFile
	cfg.Overwrite = input.Overwrite
	cfg.MirrorDir = input.MirrorDir
	cfg.LogFormat = strings.ToLower(input.LogFormat)

	cfg.Limit = input.Limit
	if cfg.Limit == 0 {
		cfg.Limit = DefaultResultLimit
	}
	if cfg.Limit < 1 || cfg.Limit > MaxResultLimit {
		return fmt.Errorf("limit must be between 1 and %d", MaxResultLimit)
	}

	cfg.Workers = input.Workers
	if cfg.Workers == 0 {
		cfg.Workers = DefaultWorkers
	}
	if cfg.Workers < 1 {
		return fmt.Errorf("workers must be at least 1")
	}

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if cfg.Output == "" {
		cfg.Output = schema.TextOut
	}
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json or parquet", input.Output)
	}

	switch cfg.LogFormat {
	case "", "console", "json":
	default:
		return fmt.Errorf("invalid log format '%s'. must be console or json", input.LogFormat)
	}
	cfg.LogLevel = strings.ToLower(input.LogLevel)
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}

	cfg.UseColors = true
	if input.Color != "" {
		useColors, err := ParseBoolString(input.Color)
		if err != nil {
			return fmt.Errorf("invalid color value: %w", err)
		}
		cfg.UseColors = useColors
	}

	timeout, err := ParseTimeout(input.Timeout)
	if err != nil {
		return err
	}
	cfg.Timeout = timeout

	return nil
}

// validateBackendConfig validates the index store backend.
func validateBackendConfig(cfg *Config, input *ConfigRawInput) error {
	cfg.DBBackend = schema.DatabaseBackend(strings.ToLower(input.DBBackend))
	if cfg.DBBackend == "" {
		cfg.DBBackend = schema.SQLiteBackend
	}
	if _, ok := schema.ValidDatabaseBackends[cfg.DBBackend]; !ok {
		return fmt.Errorf("invalid db backend '%s'. must be sqlite, mysql or postgresql", input.DBBackend)
	}
	cfg.DBConnect = input.DBConnect
	if err := ValidateDatabaseConnectionString(cfg.DBBackend, cfg.DBConnect); err != nil {
		return err
	}

	cfg.DBFile = input.DBFile
	if cfg.DBFile == "" && cfg.DBBackend == schema.SQLiteBackend && cfg.DBConnect == "" {
		cfg.DBFile = DefaultSnapshotFile
	}
	if cfg.DBFile != "" {
		if abs, err := filepath.Abs(cfg.DBFile); err == nil {
			cfg.DBFile = abs
		}
	}
	return nil
}

// processSource resolves the repository source settings.
func processSource(cfg *Config, input *ConfigRawInput) error {
	cfg.Query = strings.TrimSpace(input.Query)
	cfg.Filter = strings.TrimSpace(input.Filter)
	if cfg.Filter == "" {
		cfg.Filter = DefaultFilter
	}
	cfg.GitHubToken = input.GitHubToken
	cfg.GitLabToken = input.GitLabToken
	cfg.GitLabURL = strings.TrimRight(input.GitLabURL, "/")
	if cfg.GitLabURL == "" {
		cfg.GitLabURL = DefaultGitLabURL
	}

	cfg.Source = schema.SourceKind(strings.ToLower(input.Source))
	if cfg.Source != "" {
		if _, ok := schema.ValidSources[cfg.Source]; !ok {
			return fmt.Errorf("invalid source '%s'. must be local, github, gitlab or list", input.Source)
		}
	}

	cfg.RepoType = schema.RepoType(strings.ToLower(input.RepoType))
	if cfg.RepoType == "" {
		cfg.RepoType = schema.RepoTypeForSource(cfg.Source)
	}
	if cfg.RepoType != "" {
		if _, ok := schema.ValidRepoTypes[cfg.RepoType]; !ok {
			return fmt.Errorf("invalid repo type '%s'", input.RepoType)
		}
	}

	if cfg.Source == schema.LocalSource && cfg.Query != "" {
		if abs, err := filepath.Abs(cfg.Query); err == nil {
			cfg.Query = abs
		}
	}
	return nil
}
