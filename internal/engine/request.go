package engine

import (
	"fmt"
	"os"

	"github.com/bamsammich/twinpane/internal/stats"
)

// Kind identifies the file operation a Request performs.
type Kind int

const (
	Copy Kind = iota + 1
	Move
	Delete
)

func (k Kind) String() string {
	switch k {
	case Copy:
		return "copy"
	case Move:
		return "move"
	case Delete:
		return "delete"
	default:
		return "unknown"
	}
}

// Request describes one job. It is not modified once submitted.
type Request struct {
	Sources []string
	DstDir  string // required for Copy and Move, ignored for Delete

	// Skipped carries "<name>: already exists (skipped)" lines produced by
	// conflict resolution. They are reported in the outcome but do not count
	// as failures.
	Skipped []string
	Kind    Kind
}

// Validate checks the request before any I/O. Failures are fatal for the
// whole job.
func (r Request) Validate() error {
	switch r.Kind {
	case Copy, Move, Delete:
	default:
		return fmt.Errorf("%w: %d", ErrUnknownKind, int(r.Kind))
	}
	if len(r.Sources) == 0 {
		return ErrNoSources
	}
	if r.Kind == Delete {
		return nil
	}
	if r.DstDir == "" {
		return ErrDestinationDirMissing
	}
	info, err := os.Stat(r.DstDir)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrDestinationDirMissing, r.DstDir)
	}
	return nil
}

// Progress is the byte/file accounting of a job. Processed counters never
// decrease; totals are fixed once the pre-scan completes.
type Progress struct {
	CurrentLabel   string
	ProcessedBytes int64
	TotalBytes     int64
	ProcessedFiles int64
	TotalFiles     int64
}

func progressFrom(s stats.Snapshot, label string) Progress {
	return Progress{
		CurrentLabel:   label,
		ProcessedBytes: s.BytesDone,
		TotalBytes:     s.BytesTotal,
		ProcessedFiles: s.FilesDone,
		TotalFiles:     s.FilesTotal,
	}
}

// Outcome is the final result of a job.
type Outcome struct {
	Message   string
	Errors    []string // one line per skipped or failed item, prefixed with its name
	Progress  Progress
	Success   bool
	Cancelled bool
}
