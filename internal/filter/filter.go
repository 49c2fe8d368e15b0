// Package filter decides which relative paths are left out of a sync.
// Patterns use gitignore syntax: "*.log", "cache/", "/top-only", "!keep.log".
package filter

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"
)

// Chain holds an ordered list of exclude patterns. Later patterns override
// earlier ones, so a "!pattern" re-includes what an earlier line excluded.
type Chain struct {
	lines   []string
	matcher *ignore.GitIgnore
}

// NewChain creates an empty filter chain.
func NewChain() *Chain {
	return &Chain{}
}

// AddExclude appends one pattern.
func (c *Chain) AddExclude(pattern string) error {
	if strings.TrimSpace(pattern) == "" {
		return errors.New("empty exclude pattern")
	}
	c.lines = append(c.lines, pattern)
	c.matcher = nil
	return nil
}

// LoadFile appends every pattern in path. Blank lines and lines starting
// with '#' are ignored.
func (c *Chain) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open exclude file: %w", err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}
		c.lines = append(c.lines, line)
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read exclude file %s: %w", path, err)
	}
	c.matcher = nil
	return nil
}

// Empty reports whether the chain has no patterns.
func (c *Chain) Empty() bool {
	return c == nil || len(c.lines) == 0
}

// Patterns returns the patterns in the order they were added.
func (c *Chain) Patterns() []string {
	return append([]string(nil), c.lines...)
}

// Excluded reports whether relPath should be left out. Directory-only
// patterns ("build/") only match when isDir is set.
func (c *Chain) Excluded(relPath string, isDir bool) bool {
	if c.Empty() {
		return false
	}
	if c.matcher == nil {
		c.matcher = ignore.CompileIgnoreLines(c.lines...)
	}
	if isDir && !strings.HasSuffix(relPath, "/") {
		relPath += "/"
	}
	return c.matcher.MatchesPath(relPath)
}
