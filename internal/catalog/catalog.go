// Package catalog provides stat-based snapshots of filesystem paths and the
// recursive enumeration shared by the job and search engines.
package catalog

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

// FileEntry is a read-only metadata snapshot of a single path. Entries are
// re-fetched rather than mutated.
type FileEntry struct {
	info      os.FileInfo
	ModTime   time.Time
	Path      string
	Size      int64 // 0 for directories, symlinks and inaccessible entries
	Mode      os.FileMode
	IsDir     bool
	IsSymlink bool
}

// Name returns the final path element.
func (e FileEntry) Name() string { return filepath.Base(e.Path) }

// Info returns the underlying os.FileInfo, or nil for entries that could not
// be stat'ed.
func (e FileEntry) Info() os.FileInfo { return e.info }

// IsRegular reports whether the entry is a plain file.
func (e FileEntry) IsRegular() bool { return e.Mode.IsRegular() }

// Stat returns a snapshot of path without following a trailing symlink.
func Stat(path string) (FileEntry, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return FileEntry{Path: path}, err
	}
	return FromInfo(path, info), nil
}

// FromInfo converts an os.FileInfo into a FileEntry for path.
func FromInfo(path string, info os.FileInfo) FileEntry {
	mode := info.Mode()
	e := FileEntry{
		info:      info,
		Path:      path,
		ModTime:   info.ModTime(),
		Mode:      mode,
		IsDir:     mode.IsDir(),
		IsSymlink: mode&os.ModeSymlink != 0,
	}
	if mode.IsRegular() {
		e.Size = info.Size()
	}
	return e
}

// Exists reports whether path can be stat'ed.
func Exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

// WalkFunc is called for every entry visited by Walk. err is non-nil when the
// entry could not be stat'ed or, for directories, could not be listed; in that
// case returning nil skips the entry and continues the walk.
type WalkFunc func(entry FileEntry, err error) error

// Walk visits root and all of its descendants depth-first in lexical order.
// Directories are reported before their contents and symlinks are never
// followed. The context is checked at every entry.
func Walk(ctx context.Context, root string, fn WalkFunc) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			return fn(FileEntry{Path: path, IsDir: d != nil && d.IsDir()}, err)
		}
		info, err := d.Info()
		if err != nil {
			return fn(FileEntry{Path: path}, err)
		}
		return fn(FromInfo(path, info), nil)
	})
}

// Totals is the result of a pre-scan.
type Totals struct {
	Errs  []error // entries skipped during enumeration
	Files int64   // regular files and symlinks
	Bytes int64
	Dirs  int64
}

// Add accumulates o into t.
func (t *Totals) Add(o Totals) {
	t.Files += o.Files
	t.Bytes += o.Bytes
	t.Dirs += o.Dirs
	t.Errs = append(t.Errs, o.Errs...)
}

// TallyPath enumerates path recursively and counts files, bytes and
// directories. Unreadable or vanished entries are recorded in Errs and
// skipped. The only error returned is the context's.
func TallyPath(ctx context.Context, path string) (Totals, error) {
	var t Totals
	err := Walk(ctx, path, func(e FileEntry, err error) error {
		if err != nil {
			t.Errs = append(t.Errs, err)
			return nil
		}
		switch {
		case e.IsDir:
			t.Dirs++
		case e.IsSymlink, e.IsRegular():
			t.Files++
			t.Bytes += e.Size
		}
		return nil
	})
	return t, err
}

// Tally runs TallyPath over every path and sums the results.
func Tally(ctx context.Context, paths []string) (Totals, error) {
	var total Totals
	for _, p := range paths {
		t, err := TallyPath(ctx, p)
		total.Add(t)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// resolve returns an absolute, symlink-free form of path where possible.
func resolve(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = filepath.Clean(path)
	}
	if real, err := filepath.EvalSymlinks(abs); err == nil {
		return real
	}
	// Not created yet: resolve the nearest existing ancestor.
	parent := filepath.Dir(abs)
	if parent == abs {
		return abs
	}
	return filepath.Join(resolve(parent), filepath.Base(abs))
}

var foldPaths = runtime.GOOS == "windows" || runtime.GOOS == "darwin"

func equalPath(a, b string) bool {
	if foldPaths {
		return strings.EqualFold(a, b)
	}
	return a == b
}

// Key returns a map key for the resolved location of path. Two paths with
// the same Key are SamePath.
func Key(path string) string {
	k := resolve(path)
	if foldPaths {
		return strings.ToLower(k)
	}
	return k
}

// SamePath reports whether a and b resolve to the same location.
func SamePath(a, b string) bool {
	return equalPath(resolve(a), resolve(b))
}

// Within reports whether path is root itself or lies beneath it, after
// resolving both.
func Within(root, path string) bool {
	r, p := resolve(root), resolve(path)
	if equalPath(r, p) {
		return true
	}
	rel, err := filepath.Rel(r, p)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
