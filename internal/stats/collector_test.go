package stats

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectorConcurrent(t *testing.T) {
	c := NewCollector()
	const goroutines = 100
	const opsPerGoroutine = 1000

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for range goroutines {
		go func() {
			defer wg.Done()
			for range opsPerGoroutine {
				c.AddFiles(1)
				c.AddFailed(1)
				c.AddSkipped(1)
				c.AddBytes(256)
				c.AddDirsCreated(1)
			}
		}()
	}
	wg.Wait()

	s := c.Snapshot()
	expected := int64(goroutines * opsPerGoroutine)
	assert.Equal(t, expected, s.FilesDone)
	assert.Equal(t, expected, s.FilesFailed)
	assert.Equal(t, expected, s.FilesSkipped)
	assert.Equal(t, expected*256, s.BytesDone)
	assert.Equal(t, expected, s.DirsCreated)
}

func TestNegativeDeltasIgnored(t *testing.T) {
	c := NewCollector()
	c.AddBytes(100)
	c.AddBytes(-50)
	c.AddFiles(2)
	c.AddFiles(-1)

	s := c.Snapshot()
	assert.Equal(t, int64(100), s.BytesDone)
	assert.Equal(t, int64(2), s.FilesDone)
}

func TestSetTotalsFixedAfterFirstCall(t *testing.T) {
	c := NewCollector()
	c.SetTotals(100, 1024*1024)
	c.SetTotals(1, 1)

	s := c.Snapshot()
	assert.Equal(t, int64(100), s.FilesTotal)
	assert.Equal(t, int64(1024*1024), s.BytesTotal)
}

func TestPercent(t *testing.T) {
	tests := []struct {
		name       string
		filesTotal int64
		bytesTotal int64
		files      int64
		bytes      int64
		want       int
	}{
		{name: "no totals", want: 0},
		{name: "bytes half", filesTotal: 2, bytesTotal: 1000, bytes: 500, want: 50},
		{name: "bytes done clamps", filesTotal: 2, bytesTotal: 1000, bytes: 1000, want: 99},
		{name: "bytes overshoot clamps", filesTotal: 2, bytesTotal: 1000, bytes: 5000, want: 99},
		{name: "empty files use counts", filesTotal: 4, files: 1, want: 25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCollector()
			c.SetTotals(tt.filesTotal, tt.bytesTotal)
			c.AddFiles(tt.files)
			c.AddBytes(tt.bytes)
			assert.Equal(t, tt.want, c.Percent())
		})
	}
}

func TestSnapshotString(t *testing.T) {
	s := Snapshot{
		FilesDone:    8,
		FilesTotal:   10,
		BytesDone:    4096,
		BytesTotal:   8192,
		FilesFailed:  1,
		FilesSkipped: 1,
		DirsCreated:  3,
	}
	assert.Equal(t, "files=8/10 bytes=4096/8192 failed=1 skipped=1 dirs=3", s.String())
}

func TestSnapshotRate(t *testing.T) {
	s := Snapshot{BytesDone: 2000, Elapsed: 2 * time.Second}
	assert.InDelta(t, 1000.0, s.Rate(), 0.01)
	assert.Zero(t, Snapshot{BytesDone: 10}.Rate())
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		input    int64
		expected string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1024, "1.0 KiB"},
		{1536, "1.5 KiB"},
		{1048576, "1.0 MiB"},
		{1073741824, "1.0 GiB"},
	}
	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			require.Equal(t, tt.expected, FormatBytes(tt.input))
		})
	}
}

func TestSnapshotIncludesElapsed(t *testing.T) {
	c := NewCollector()
	time.Sleep(10 * time.Millisecond)
	s := c.Snapshot()
	assert.Greater(t, s.Elapsed, time.Duration(0))
}
