package engine

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bamsammich/twinpane/internal/catalog"
	"github.com/bamsammich/twinpane/internal/platform"
)

// copyAll copies every source into DstDir under its own base name. A
// source whose target an earlier source already claimed fails instead of
// overwriting it.
func (r *run) copyAll() {
	claimed := make(map[string]string, len(r.req.Sources))
	for _, src := range r.req.Sources {
		if r.stopped() {
			return
		}
		target := filepath.Join(r.req.DstDir, filepath.Base(src))
		key := catalog.Key(target)
		if prev, ok := claimed[key]; ok {
			r.fail(filepath.Base(src), fmt.Errorf("%w: %s", ErrDuplicateTarget, prev))
			continue
		}
		claimed[key] = src
		r.copyItem(src, target)
	}
}

func (r *run) copyItem(src, target string) {
	name := filepath.Base(src)

	e, err := catalog.Stat(src)
	if err != nil {
		r.fail(name, sourceErr(err))
		return
	}
	if catalog.SamePath(src, target) {
		r.inPlace[src] = true
		return
	}

	if !e.IsDir {
		if err := r.copyEntry(e, target, name); errors.Is(err, errCancelled) {
			r.cancelled = true
		}
		return
	}
	if catalog.Within(src, target) {
		r.fail(name, ErrIntoItself)
		return
	}
	r.copyTree(src, target, name)
}

type dirMeta struct {
	info os.FileInfo
	path string
}

// copyTree recreates the tree rooted at src under target. Each directory is
// created before any of its files; directory metadata is applied last so
// writing children does not disturb it.
func (r *run) copyTree(src, target, name string) {
	var dirs []dirMeta

	err := catalog.Walk(r.ctx, src, func(e catalog.FileEntry, err error) error {
		rel, relErr := filepath.Rel(src, e.Path)
		if relErr != nil {
			return relErr
		}
		label := filepath.Join(name, rel)
		dst := filepath.Join(target, rel)

		if err != nil {
			r.fail(label, sourceErr(err))
			return nil
		}

		if e.IsDir {
			if err := makeDir(dst, e.Mode.Perm()); err != nil {
				r.fail(label, destErr(err))
				return fs.SkipDir
			}
			r.stats.AddDirsCreated(1)
			dirs = append(dirs, dirMeta{path: dst, info: e.Info()})
			return nil
		}
		return r.copyEntry(e, dst, label)
	})

	if err != nil {
		if r.stopped() || errors.Is(err, errCancelled) {
			r.cancelled = true
			return
		}
		r.fail(name, err)
	}

	for i := len(dirs) - 1; i >= 0; i-- {
		if err := platform.SetMetadata(dirs[i].path, dirs[i].info, r.meta()); err != nil {
			r.e.logger.Debug("directory metadata not replicated", "path", dirs[i].path, "error", err)
		}
	}
}

// copyEntry copies a single non-directory entry. It returns errCancelled
// when the job was cancelled; item failures are recorded and return nil.
func (r *run) copyEntry(e catalog.FileEntry, dst, label string) error {
	if r.stopped() {
		return errCancelled
	}
	switch {
	case e.IsSymlink:
		r.status("Copying", label)
		r.copySymlink(e.Path, dst, label)
		return nil
	case e.IsRegular():
		r.status("Copying", label)
		return r.copyFile(e, dst, label)
	default:
		if r.req.Kind == Move {
			r.fail(label, ErrSpecialFile)
			return nil
		}
		r.e.logger.Debug("skipping special file", "path", e.Path, "mode", e.Mode.String())
		r.stats.AddSkipped(1)
		return nil
	}
}

func (r *run) copySymlink(src, dst, label string) {
	target, err := os.Readlink(src)
	if err != nil {
		r.fail(label, sourceErr(err))
		return
	}
	if err := clearTarget(dst, false); err != nil {
		r.fail(label, destErr(err))
		return
	}
	if err := os.Symlink(target, dst); err != nil {
		r.fail(label, destErr(err))
		return
	}
	r.stats.AddFiles(1)
	r.progress()
}

func (r *run) copyFile(e catalog.FileEntry, dst, label string) error {
	in, err := os.Open(e.Path)
	if err != nil {
		r.fail(label, sourceErr(err))
		return nil
	}
	defer in.Close()

	if err := clearTarget(dst, false); err != nil {
		r.fail(label, destErr(err))
		return nil
	}
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, e.Mode.Perm())
	if err != nil {
		r.fail(label, destErr(err))
		return nil
	}
	platform.Preallocate(out, e.Size)

	_, copyErr := r.copyChunks(out, in, e.Size)
	closeErr := out.Close()

	switch {
	case errors.Is(copyErr, errCancelled):
		r.e.logger.Info("copy interrupted, partial file left", "path", dst)
		return copyErr
	case copyErr != nil:
		r.fail(label, copyErr)
		return nil
	case closeErr != nil:
		r.fail(label, destErr(closeErr))
		return nil
	}

	if info := e.Info(); info != nil {
		if err := platform.SetMetadata(dst, info, r.meta()); err != nil {
			r.e.logger.Debug("metadata not replicated", "path", dst, "error", err)
		}
	}
	r.stats.AddFiles(1)
	r.progress()
	return nil
}

// copyChunks copies at most size bytes in fixed-size chunks, advancing the
// byte counter and checking for cancellation after every chunk.
func (r *run) copyChunks(dst io.Writer, src io.Reader, size int64) (int64, error) {
	bufp := platform.GetBuffer(r.e.cfg.ChunkSize)
	defer platform.PutBuffer(bufp)
	buf := *bufp

	if r.e.limiter != nil {
		dst = &rateLimitedWriter{w: dst, limiter: r.e.limiter, ctx: r.ctx}
	}
	src = io.LimitReader(src, size)

	var total int64
	for {
		if r.stopped() {
			return total, errCancelled
		}
		n, readErr := src.Read(buf)
		if n > 0 {
			if _, err := dst.Write(buf[:n]); err != nil {
				if r.stopped() {
					return total, errCancelled
				}
				return total, destErr(err)
			}
			total += int64(n)
			r.stats.AddBytes(int64(n))
			r.progress()
		}
		if errors.Is(readErr, io.EOF) {
			return total, nil
		}
		if readErr != nil {
			return total, sourceErr(readErr)
		}
	}
}

// makeDir ensures path is a directory, replacing a non-directory in the way.
// The owner keeps write access until metadata replication.
func makeDir(path string, perm os.FileMode) error {
	if err := clearTarget(path, true); err != nil {
		return err
	}
	return os.MkdirAll(path, perm|0o700)
}

// clearTarget removes whatever occupies path when it cannot be reused:
// directories in the way of a file, non-directories in the way of a
// directory, and symlinks (which must be replaced, not written through).
func clearTarget(path string, wantDir bool) error {
	info, err := os.Lstat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	switch {
	case info.IsDir() && wantDir:
		return nil
	case info.IsDir():
		return os.RemoveAll(path)
	case info.Mode().IsRegular() && !wantDir:
		return nil
	default:
		return os.Remove(path)
	}
}
