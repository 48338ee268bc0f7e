package stats

import (
	"fmt"
	"sync/atomic"
	"time"
)

// Collector counts processed bytes and files against totals fixed by the
// pre-scan. All counters are lock-free; processed counters only grow.
type Collector struct {
	startTime    time.Time
	bytesDone    atomic.Int64
	filesDone    atomic.Int64
	filesFailed  atomic.Int64
	filesSkipped atomic.Int64
	dirsCreated  atomic.Int64
	bytesTotal   atomic.Int64
	filesTotal   atomic.Int64
	totalsFixed  atomic.Bool
}

// NewCollector creates a Collector with startTime set to now.
func NewCollector() *Collector {
	return &Collector{startTime: time.Now()}
}

// SetTotals records pre-scan totals. Only the first call has effect.
func (c *Collector) SetTotals(files, bytes int64) {
	if !c.totalsFixed.CompareAndSwap(false, true) {
		return
	}
	c.filesTotal.Store(files)
	c.bytesTotal.Store(bytes)
}

// Negative deltas are ignored so processed counters never decrease.
func (c *Collector) AddBytes(n int64) {
	if n > 0 {
		c.bytesDone.Add(n)
	}
}

func (c *Collector) AddFiles(n int64) {
	if n > 0 {
		c.filesDone.Add(n)
	}
}

func (c *Collector) AddFailed(n int64)      { c.filesFailed.Add(n) }
func (c *Collector) AddSkipped(n int64)     { c.filesSkipped.Add(n) }
func (c *Collector) AddDirsCreated(n int64) { c.dirsCreated.Add(n) }

// Percent returns progress as a whole percentage in 0..99. Bytes drive the
// ratio when the job has any; otherwise file counts do.
func (c *Collector) Percent() int {
	done, total := c.bytesDone.Load(), c.bytesTotal.Load()
	if total <= 0 {
		done, total = c.filesDone.Load(), c.filesTotal.Load()
	}
	if total <= 0 {
		return 0
	}
	pct := int(done * 100 / total)
	return max(0, min(pct, 99))
}

// Snapshot is a point-in-time read of all counters.
type Snapshot struct {
	BytesDone    int64
	BytesTotal   int64
	FilesDone    int64
	FilesTotal   int64
	FilesFailed  int64
	FilesSkipped int64
	DirsCreated  int64
	Elapsed      time.Duration
}

// Snapshot returns a point-in-time read of all counters.
func (c *Collector) Snapshot() Snapshot {
	return Snapshot{
		BytesDone:    c.bytesDone.Load(),
		BytesTotal:   c.bytesTotal.Load(),
		FilesDone:    c.filesDone.Load(),
		FilesTotal:   c.filesTotal.Load(),
		FilesFailed:  c.filesFailed.Load(),
		FilesSkipped: c.filesSkipped.Load(),
		DirsCreated:  c.dirsCreated.Load(),
		Elapsed:      c.Elapsed(),
	}
}

// Elapsed returns time since collector creation.
func (c *Collector) Elapsed() time.Duration {
	return time.Since(c.startTime)
}

// Rate returns the average bytes/sec since the collector was created.
func (s Snapshot) Rate() float64 {
	if s.Elapsed <= 0 {
		return 0
	}
	return float64(s.BytesDone) / s.Elapsed.Seconds()
}

func (s Snapshot) String() string {
	return fmt.Sprintf(
		"files=%d/%d bytes=%d/%d failed=%d skipped=%d dirs=%d",
		s.FilesDone, s.FilesTotal, s.BytesDone, s.BytesTotal,
		s.FilesFailed, s.FilesSkipped, s.DirsCreated,
	)
}

// FormatBytes returns a human-readable byte count.
func FormatBytes(b int64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(b)/float64(div), "KMGTPE"[exp])
}
