package search

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/text/encoding/charmap"

	"github.com/bamsammich/twinpane/internal/catalog"
)

// globEscaper quotes the doublestar metacharacters that are literal in a
// name pattern. Only *, ? and [...] are wildcards.
var globEscaper = strings.NewReplacer(`\`, `\\`, "{", `\{`, "}", `\}`)

// matcher applies the name, extension and content rules; all must hold.
type matcher struct {
	e        *Engine
	name     string
	ext      string
	content  string
	glob     bool
	extExact bool
	fold     bool
}

func newMatcher(c Criteria, e *Engine) (*matcher, error) {
	m := &matcher{e: e, fold: !c.CaseSensitive}

	m.name = m.norm(c.NamePattern)
	m.glob = strings.ContainsAny(m.name, "*?")
	if m.glob {
		m.name = globEscaper.Replace(m.name)
		if !doublestar.ValidatePattern(m.name) {
			return nil, fmt.Errorf("%w: %q", ErrBadPattern, c.NamePattern)
		}
	}

	m.ext = m.norm(strings.TrimSpace(c.Extension))
	if strings.HasPrefix(m.ext, ".") {
		m.extExact = true
	}

	if c.SearchInContent && c.ContentSubstring != "" {
		m.content = m.norm(c.ContentSubstring)
	}
	return m, nil
}

func (m *matcher) norm(s string) string {
	if m.fold {
		return strings.ToLower(s)
	}
	return s
}

func (m *matcher) match(e catalog.FileEntry) bool {
	name := m.norm(e.Name())
	return m.matchName(name) && m.matchExt(name) && m.matchContent(e)
}

func (m *matcher) matchName(name string) bool {
	switch {
	case m.name == "":
		return true
	case m.glob:
		ok, _ := doublestar.Match(m.name, name)
		return ok
	default:
		return strings.Contains(name, m.name)
	}
}

func (m *matcher) matchExt(name string) bool {
	switch {
	case m.ext == "":
		return true
	case m.extExact:
		return filepath.Ext(name) == m.ext
	default:
		return strings.HasSuffix(name, m.ext)
	}
}

// matchContent reports whether the file contains the content substring. A
// file that is not on the text allow-list, exceeds the size limit or cannot
// be read passes: the content rule only ever excludes text it has read.
func (m *matcher) matchContent(e catalog.FileEntry) bool {
	if m.content == "" {
		return true
	}
	if !m.e.textExt[strings.ToLower(filepath.Ext(e.Path))] || e.Size > m.e.cfg.ContentMaxSize {
		return true
	}
	data, err := os.ReadFile(e.Path)
	if err != nil {
		m.e.logger.Debug("content unreadable, counted as match", "path", e.Path, "error", err)
		return true
	}
	text, ok := decodeText(data)
	if !ok {
		return true
	}
	return strings.Contains(m.norm(text), m.content)
}

// decodeText decodes data as UTF-8, then Windows-1251, then Latin-1. The
// legacy code pages are only accepted when every byte maps to a character.
func decodeText(data []byte) (string, bool) {
	if utf8.Valid(data) {
		return string(data), true
	}
	for _, cm := range []*charmap.Charmap{charmap.Windows1251, charmap.ISO8859_1} {
		text, err := cm.NewDecoder().Bytes(data)
		if err == nil && !strings.ContainsRune(string(text), utf8.RuneError) {
			return string(text), true
		}
	}
	return "", false
}
