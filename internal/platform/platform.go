// Package platform holds the OS-specific parts of chunked file copying:
// pooled chunk buffers, space preallocation and metadata replication.
package platform

import (
	"os"
	"sync"
)

// ChunkSize is the default copy chunk. Progress and cancellation are
// observed between chunks, so it also bounds their latency.
const ChunkSize = 64 << 10

var bufPool = sync.Pool{
	New: func() any {
		b := make([]byte, ChunkSize)
		return &b
	},
}

// GetBuffer returns a buffer of exactly size bytes. Buffers of ChunkSize come
// from a pool and should be returned with PutBuffer.
func GetBuffer(size int) *[]byte {
	if size <= 0 || size == ChunkSize {
		return bufPool.Get().(*[]byte)
	}
	b := make([]byte, size)
	return &b
}

// PutBuffer returns a buffer obtained from GetBuffer.
func PutBuffer(b *[]byte) {
	if b != nil && len(*b) == ChunkSize {
		bufPool.Put(b)
	}
}

// MetadataOpts selects which attributes SetMetadata replicates.
type MetadataOpts struct {
	Mode  bool
	Times bool
}

// SetMetadata copies permission bits and timestamps from src onto path.
// Symlinks are left alone. Callers treat failures as non-fatal.
func SetMetadata(path string, src os.FileInfo, opts MetadataOpts) error {
	if src.Mode()&os.ModeSymlink != 0 {
		return nil
	}
	if opts.Mode {
		if err := os.Chmod(path, src.Mode().Perm()); err != nil {
			return err
		}
	}
	if opts.Times {
		return setTimes(path, src)
	}
	return nil
}
