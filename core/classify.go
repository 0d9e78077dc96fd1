package core

import "regexp"

// excludePatterns mark files that are noise for change statistics.
// Every pattern is anchored at the start of the path; the first match wins.
var excludePatterns = []*regexp.Regexp{
	// vendored dependencies, build output and IDE folders at the top level
	regexp.MustCompile(`^(vendor|Pods|target|\.idea|\.vscode)/.`),
	// CocoaPods nested exactly one level deep
	regexp.MustCompile(`^[a-zA-Z0-9_]*?/Pods/`),
	regexp.MustCompile(`^.*(xcodeproj|xcworkspace)/.`),
	// binaries, archives, lockfiles and backups
	regexp.MustCompile(`^.*\.(jar|pbxproj|lock|bk|bak|backup|class|swp|sum|pdf|png)$`),
	regexp.MustCompile(`^.*/?package-lock\.json$`),
	regexp.MustCompile(`^.*/?(\.next|node_modules|\.devcontainer)(/|$).*`),
}

// ShouldExclude reports whether a file path should be left out of the
// per-commit change statistics.
func ShouldExclude(path string) bool {
	for _, re := range excludePatterns {
		if re.MatchString(path) {
			return true
		}
	}
	return false
}
