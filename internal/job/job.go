// Package job runs engine and search jobs on their own goroutines and hands
// out handles to cancel and wait for them.
package job

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bamsammich/twinpane/internal/engine"
	"github.com/bamsammich/twinpane/internal/search"
)

// Status is the lifecycle state of a job.
type Status int

const (
	Pending Status = iota // waiting for another destructive job
	Running
	Completed
	Failed
	Cancelled
)

func (s Status) String() string {
	switch s {
	case Pending:
		return "pending"
	case Running:
		return "running"
	case Completed:
		return "completed"
	case Failed:
		return "failed"
	case Cancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Terminal reports whether the job has finished.
func (s Status) Terminal() bool { return s >= Completed }

// Handle identifies a submitted job.
type Handle struct {
	ID   uuid.UUID
	Kind string // copy, move, delete or search
}

func (h Handle) String() string { return h.Kind + "/" + h.ID.String() }

// Result is what a finished job produced. Exactly one of Outcome and Search
// is meaningful, depending on the handle's Kind.
type Result struct {
	Search  search.Summary
	Outcome engine.Outcome
	Status  Status
}

// Success reports whether the job completed without errors.
func (r Result) Success() bool { return r.Status == Completed }

// Message is the job's final message.
func (r Result) Message() string {
	if r.Search.Message != "" {
		return r.Search.Message
	}
	return r.Outcome.Message
}

// Info is a snapshot of a job for listing.
type Info struct {
	Started time.Time
	Handle  Handle
	Status  Status
}

type job struct {
	started time.Time
	cancel  context.CancelFunc
	done    chan struct{}
	handle  Handle
	result  Result
	mu      sync.Mutex
	status  Status
}

func (j *job) setStatus(s Status) {
	j.mu.Lock()
	j.status = s
	j.mu.Unlock()
}

func (j *job) finish(r Result) {
	j.mu.Lock()
	j.result = r
	j.status = r.Status
	j.mu.Unlock()
	close(j.done)
}

func (j *job) info() Info {
	j.mu.Lock()
	defer j.mu.Unlock()
	return Info{Handle: j.handle, Status: j.status, Started: j.started}
}

func statusOf(success, cancelled bool) Status {
	switch {
	case cancelled:
		return Cancelled
	case success:
		return Completed
	default:
		return Failed
	}
}
