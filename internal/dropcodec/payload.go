package dropcodec

import (
	"net/url"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"github.com/bamsammich/twinpane/internal/catalog"
)

// Origin says where a payload came from.
type Origin int

const (
	InternalSelection Origin = iota + 1
	ExternalURLs
	ExternalText
)

func (o Origin) String() string {
	switch o {
	case InternalSelection:
		return "selection"
	case ExternalURLs:
		return "urls"
	case ExternalText:
		return "text"
	default:
		return "unknown"
	}
}

// Payload is the normalized content of a drop or paste.
type Payload struct {
	Paths  []string
	Origin Origin
}

// Empty reports whether the payload carries no paths.
func (p Payload) Empty() bool { return len(p.Paths) == 0 }

// ImageExtensions is the allow-list used when only pictures are accepted.
var ImageExtensions = []string{".png", ".jpg", ".jpeg", ".bmp", ".gif", ".tiff", ".webp", ".ico"}

// WithExtensions keeps only paths whose extension is in exts, ignoring case.
func (p Payload) WithExtensions(exts ...string) Payload {
	allowed := make([]string, len(exts))
	for i, e := range exts {
		allowed[i] = strings.ToLower(e)
	}
	out := Payload{Origin: p.Origin}
	for _, path := range p.Paths {
		if slices.Contains(allowed, strings.ToLower(filepath.Ext(path))) {
			out.Paths = append(out.Paths, path)
		}
	}
	return out
}

// FromSelection wraps paths chosen inside the application.
func FromSelection(paths []string) Payload {
	return Payload{Paths: slices.Clone(paths), Origin: InternalSelection}
}

// FromURLs converts a URL-list drag payload. file:// URLs and bare paths are
// kept; other schemes are dropped.
func FromURLs(urls []string) Payload {
	p := Payload{Origin: ExternalURLs}
	for _, raw := range urls {
		if path, ok := urlPath(raw); ok {
			p.Paths = append(p.Paths, path)
		}
	}
	return p
}

// FromText treats text as a newline-separated path list and keeps the
// entries for which exists returns true. A nil exists checks the local
// file system.
func FromText(text string, exists func(string) bool) Payload {
	if exists == nil {
		exists = catalog.Exists
	}
	p := Payload{Origin: ExternalText}
	for _, line := range strings.FieldsFunc(text, func(r rune) bool { return r == '\n' || r == '\r' }) {
		line = strings.Trim(strings.TrimSpace(line), `"'`)
		if line == "" {
			continue
		}
		path, ok := urlPath(line)
		if ok && exists(path) {
			p.Paths = append(p.Paths, path)
		}
	}
	return p
}

// urlPath returns the local path named by a file:// URL or a bare path.
func urlPath(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	if !strings.Contains(raw, "://") && !strings.HasPrefix(strings.ToLower(raw), "file:") {
		return raw, true
	}

	u, err := url.Parse(raw)
	if err != nil || !strings.EqualFold(u.Scheme, "file") {
		return "", false
	}
	path := u.Path
	if u.Host != "" && u.Host != "localhost" {
		// UNC share: file://server/share/x
		path = "//" + u.Host + path
	}
	if runtime.GOOS == "windows" {
		// file:///C:/x parses to /C:/x
		if len(path) >= 3 && path[0] == '/' && path[2] == ':' {
			path = path[1:]
		}
		path = filepath.FromSlash(path)
	}
	if path == "" {
		return "", false
	}
	return path, true
}
