package filter

import (
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// compiledPattern is a validated glob with rsync anchoring rules applied.
type compiledPattern struct {
	glob     string // doublestar pattern matched against the slash path
	original string
	anchored bool // pattern starts with / or contains one
	dirOnly  bool // pattern ends with /
}

// compilePattern converts an rsync-style pattern into a doublestar glob.
// An unanchored pattern matches the basename at any depth.
func compilePattern(pattern string, foldCase bool) (*compiledPattern, error) {
	cp := &compiledPattern{original: pattern}
	if foldCase {
		pattern = strings.ToLower(pattern)
	}

	if strings.HasSuffix(pattern, "/") {
		cp.dirOnly = true
		pattern = strings.TrimSuffix(pattern, "/")
	}

	switch {
	case strings.HasPrefix(pattern, "/"):
		cp.anchored = true
		pattern = strings.TrimPrefix(pattern, "/")
	case strings.Contains(pattern, "/"):
		cp.anchored = true
	}
	if pattern == "" {
		return nil, fmt.Errorf("empty filter pattern %q", cp.original)
	}

	cp.glob = pattern
	if !cp.anchored {
		cp.glob = "**/" + pattern
	}
	if !doublestar.ValidatePattern(cp.glob) {
		return nil, fmt.Errorf("invalid filter pattern %q: %w", cp.original, doublestar.ErrBadPattern)
	}
	return cp, nil
}

// match tests a slash-separated relative path.
func (cp *compiledPattern) match(relPath string, isDir bool) bool {
	if cp.dirOnly && !isDir {
		return false
	}
	ok, _ := doublestar.Match(cp.glob, relPath)
	return ok
}
