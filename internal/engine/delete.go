package engine

import (
	"errors"
	"os"
	"path/filepath"
	"sort"

	"github.com/bamsammich/twinpane/internal/catalog"
)

// deleteAll removes every source. When count is set the stats counters
// advance per removed file; a move's cleanup phase leaves them alone since
// the copy phase already accounted for the bytes.
func (r *run) deleteAll(count bool) {
	for _, src := range r.req.Sources {
		if r.stopped() {
			return
		}
		if r.inPlace[src] {
			continue
		}
		r.deleteItem(src, count)
	}
}

func (r *run) deleteItem(src string, count bool) {
	name := filepath.Base(src)

	e, err := catalog.Stat(src)
	if err != nil {
		r.fail(name, sourceErr(err))
		return
	}
	if !e.IsDir {
		r.status("Deleting", name)
		if err := os.Remove(src); err != nil {
			r.fail(name, sourceErr(err))
			return
		}
		r.removed(e, count)
		return
	}
	r.deleteTree(src, name, count)
}

// deleteTree removes files first, then directories deepest-first. Failures
// on individual files do not stop the walk; a directory left non-empty by
// such a failure is not reported a second time.
func (r *run) deleteTree(root, name string, count bool) {
	var (
		files []catalog.FileEntry
		dirs  []string
	)
	failedBefore := len(r.failures)

	err := catalog.Walk(r.ctx, root, func(e catalog.FileEntry, err error) error {
		if err != nil {
			r.fail(r.relLabel(root, name, e.Path), sourceErr(err))
			return nil
		}
		if e.IsDir {
			dirs = append(dirs, e.Path)
			return nil
		}
		files = append(files, e)
		return nil
	})
	if err != nil {
		r.cancelled = true
		return
	}

	for i := len(files) - 1; i >= 0; i-- {
		if r.stopped() {
			return
		}
		f := files[i]
		label := r.relLabel(root, name, f.Path)
		r.status("Deleting", label)
		if err := os.Remove(f.Path); err != nil {
			r.fail(label, sourceErr(err))
			continue
		}
		r.removed(f, count)
	}

	// Reverse lexical order puts every child before its parent.
	sort.Sort(sort.Reverse(sort.StringSlice(dirs)))
	treeFailed := len(r.failures) > failedBefore
	for _, d := range dirs {
		if r.stopped() {
			return
		}
		err := os.Remove(d)
		switch {
		case err == nil:
			continue
		case errors.Is(err, os.ErrNotExist):
			continue
		case treeFailed:
			r.e.logger.Debug("directory kept after earlier failures", "path", d)
		default:
			r.fail(r.relLabel(root, name, d), sourceErr(err))
		}
	}
}

func (r *run) removed(e catalog.FileEntry, count bool) {
	if !count {
		return
	}
	r.stats.AddBytes(e.Size)
	r.stats.AddFiles(1)
	r.progress()
}

func (r *run) relLabel(root, name, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." {
		return name
	}
	return filepath.Join(name, rel)
}
