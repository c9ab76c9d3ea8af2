package util

import (
	"path/filepath"
	"strings"
)

// MatchesIgnorePattern checks whether a root-relative path matches a
// gitignore-style pattern. A pattern without a slash matches any single path
// segment at any depth; a pattern containing a slash is matched against the
// whole relative path and against every segment-suffix of it, so
// "vendor/generated" matches both at the root and below it.
// Note: this is a simplified matcher built on filepath.Match and does not
// cover every .gitignore edge case (negation and ** handling differ).
func MatchesIgnorePattern(pattern, relPath string) bool {
	pattern = strings.TrimSuffix(filepath.ToSlash(pattern), "/")
	relPath = filepath.ToSlash(relPath)
	if pattern == "" || relPath == "" || relPath == "." {
		return false
	}

	if !strings.Contains(pattern, "/") {
		for _, segment := range strings.Split(relPath, "/") {
			if ok, _ := filepath.Match(pattern, segment); ok {
				return true
			}
		}
		return false
	}

	if ok, _ := filepath.Match(pattern, relPath); ok {
		return true
	}
	parts := strings.Split(relPath, "/")
	for i := 1; i < len(parts); i++ {
		if ok, _ := filepath.Match(pattern, strings.Join(parts[i:], "/")); ok {
			return true
		}
	}
	return false
}
