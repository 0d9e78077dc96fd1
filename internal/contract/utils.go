package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/fatih/color"
)

// Color variables for console output.
var (
	HeaderColor  = color.New(color.FgCyan, color.Bold)  // HeaderColor highlights section headers.
	SuccessColor = color.New(color.FgGreen)             // SuccessColor marks repositories with new commits.
	WarnColor    = color.New(color.FgYellow)            // WarnColor marks timed out repositories.
	FailColor    = color.New(color.FgRed, color.Bold)   // FailColor marks failed repositories.
	MutedColor   = color.New(color.FgHiBlack)           // MutedColor marks repositories without changes.
)

var (
	httpHostRegex = regexp.MustCompile(`^https?://[^/]+`)
	sshHostRegex  = regexp.MustCompile(`^git@[^:]*:`)
)

// DisplayURL shortens a clone URL for logs and tables. The scheme and host of
// http(s) URLs and the "git@host:" part of ssh URLs are removed, long paths
// keep their first three and last characters, and the .git suffix is dropped.
func DisplayURL(cloneURL string, maxLength int) string {
	url := httpHostRegex.ReplaceAllString(cloneURL, "")
	url = sshHostRegex.ReplaceAllString(url, "")
	url = shorten(url, maxLength)
	return strings.TrimSuffix(url, ".git")
}

func shorten(path string, maxLength int) string {
	runes := []rune(path)
	if len(runes) <= maxLength || maxLength <= 6 {
		return path
	}
	return string(runes[:3]) + "..." + string(runes[len(runes)-(maxLength-6):])
}

// MatchAny reports whether path matches any of the comma separated glob patterns.
// Patterns use filepath.Match syntax where '*' also crosses '/'.
func MatchAny(path, patterns string) bool {
	for pattern := range strings.SplitSeq(patterns, ",") {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" {
			continue
		}
		if pattern == "*" {
			return true
		}
		if ok, err := filepath.Match(pattern, path); err == nil && ok {
			return true
		}
		if globMatch(pattern, path) {
			return true
		}
	}
	return false
}

// globMatch is a shell style match where '*' spans any character including
// '/', the way clone URL filters are usually written ("*/team/*").
func globMatch(pattern, s string) bool {
	var b strings.Builder
	b.WriteString("^")
	for _, r := range pattern {
		switch r {
		case '*':
			b.WriteString(".*")
		case '?':
			b.WriteString(".")
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	b.WriteString("$")
	re, err := regexp.Compile(b.String())
	if err != nil {
		return false
	}
	return re.MatchString(s)
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. An empty path selects os.Stdout.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// TruncatePath truncates a file path to a maximum width with ellipsis prefix.
// Requires maxWidth > 3 to ensure there's space for both the "..." prefix and at least one character of content.
func TruncatePath(path string, maxWidth int) string {
	runes := []rune(path)
	if len(runes) > maxWidth && maxWidth > 3 {
		return "..." + string(runes[len(runes)-maxWidth+3:])
	}
	return path
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
