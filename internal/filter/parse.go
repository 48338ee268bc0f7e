package filter

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// AddRule parses one rule line and appends it:
//
//	- pattern  → exclude
//	+ pattern  → include
//	pattern    → exclude (rsync default)
//
// Blank lines and # comments are ignored.
func (c *Chain) AddRule(line string) error {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return nil
	}
	switch {
	case strings.HasPrefix(line, "+ "):
		return c.AddInclude(strings.TrimSpace(line[2:]))
	case strings.HasPrefix(line, "- "):
		return c.AddExclude(strings.TrimSpace(line[2:]))
	default:
		return c.AddExclude(line)
	}
}

// Load reads rule lines from r.
func (c *Chain) Load(r io.Reader, name string) error {
	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		if err := c.AddRule(scanner.Text()); err != nil {
			return fmt.Errorf("filter file %s line %d: %w", name, lineNum, err)
		}
	}
	return scanner.Err()
}

// LoadFile reads rules from a file.
func (c *Chain) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open filter file: %w", err)
	}
	defer f.Close()
	return c.Load(f, path)
}
