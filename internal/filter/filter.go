// Package filter implements rsync-style include/exclude rules and size
// bounds used to prune directory walks.
package filter

import (
	"path/filepath"
	"strings"
)

// Rule is a single include or exclude rule.
type Rule struct {
	Pattern *compiledPattern
	Include bool // true=include, false=exclude
}

func (r Rule) String() string {
	if r.Include {
		return "+ " + r.Pattern.original
	}
	return "- " + r.Pattern.original
}

// Chain holds an ordered list of filter rules plus size filters.
type Chain struct {
	rules    []Rule
	minSize  int64
	maxSize  int64
	foldCase bool
}

// NewChain creates an empty filter chain.
func NewChain() *Chain {
	return &Chain{}
}

// FoldCase makes every rule added afterwards, and every path matched,
// case-insensitive.
func (c *Chain) FoldCase() *Chain {
	c.foldCase = true
	return c
}

// AddExclude adds an exclude rule for the given pattern.
func (c *Chain) AddExclude(pattern string) error {
	return c.add(pattern, false)
}

// AddInclude adds an include rule for the given pattern.
func (c *Chain) AddInclude(pattern string) error {
	return c.add(pattern, true)
}

func (c *Chain) add(pattern string, include bool) error {
	cp, err := compilePattern(pattern, c.foldCase)
	if err != nil {
		return err
	}
	c.rules = append(c.rules, Rule{Pattern: cp, Include: include})
	return nil
}

// Rules returns the rules in evaluation order.
func (c *Chain) Rules() []Rule {
	return append([]Rule(nil), c.rules...)
}

// SetMinSize sets the minimum file size filter.
func (c *Chain) SetMinSize(n int64) {
	c.minSize = n
}

// SetMaxSize sets the maximum file size filter.
func (c *Chain) SetMaxSize(n int64) {
	c.maxSize = n
}

// Empty reports whether the chain has no rules and no size filters.
func (c *Chain) Empty() bool {
	return c == nil || (len(c.rules) == 0 && c.minSize == 0 && c.maxSize == 0)
}

// Match returns true if the path should be INCLUDED (not filtered out).
// relPath is relative to the walk root in either separator style, isDir
// indicates directories, and size is ignored for directories. A nil chain
// includes everything.
func (c *Chain) Match(relPath string, isDir bool, size int64) bool {
	if c == nil {
		return true
	}
	if !isDir {
		if c.minSize > 0 && size < c.minSize {
			return false
		}
		if c.maxSize > 0 && size > c.maxSize {
			return false
		}
	}

	relPath = filepath.ToSlash(relPath)
	if c.foldCase {
		relPath = strings.ToLower(relPath)
	}

	// First match wins.
	for _, rule := range c.rules {
		if rule.Pattern.match(relPath, isDir) {
			return rule.Include
		}
	}
	return true
}
