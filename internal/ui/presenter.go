package ui

import (
	"io"
	"os"
	"time"

	"github.com/bamsammich/twinpane/internal/event"
)

// Presenter consumes a job's events and displays them.
type Presenter interface {
	// Run consumes events until the channel closes. Blocks until done.
	Run(events <-chan event.Event) error
	// Summary returns the final summary, empty before Finished arrives.
	Summary() string
}

// Config configures a Presenter.
type Config struct {
	Writer     io.Writer // search results
	ErrWriter  io.Writer // progress and status
	Root       string    // stripped from paths shown in the HUD
	IsTTY      bool
	Quiet      bool
	NoProgress bool
}

// NewPresenter creates the appropriate presenter based on configuration.
//
//nolint:ireturn // factory function returns interface by design
func NewPresenter(cfg Config) Presenter {
	if cfg.Quiet {
		return &quietPresenter{w: cfg.Writer}
	}
	if !cfg.IsTTY || cfg.NoProgress {
		return &plainPresenter{w: cfg.Writer, errW: cfg.ErrWriter}
	}
	width := 80
	if f, ok := cfg.ErrWriter.(*os.File); ok {
		width = TermWidth(f.Fd())
	}
	return &hudPresenter{
		w:     cfg.Writer,
		errW:  cfg.ErrWriter,
		root:  cfg.Root,
		width: width,
	}
}

// tracker folds the event stream into the latest state shown to the user.
type tracker struct {
	started  time.Time
	text     string
	done     event.Done
	found    int
	percent  int
	finished bool
}

func (t *tracker) apply(ev event.Event) {
	if t.started.IsZero() {
		t.started = ev.Timestamp
		if t.started.IsZero() {
			t.started = time.Now()
		}
	}
	switch ev.Type {
	case event.Progress:
		t.percent = ev.Percent
	case event.ProgressText:
		t.text = ev.Text
	case event.ResultFound:
		t.found++
	case event.Finished:
		t.done = ev.Done
		t.finished = true
	}
}

func (t *tracker) eta(now time.Time) time.Duration {
	if t.started.IsZero() {
		return 0
	}
	return EstimateRemaining(now.Sub(t.started), t.percent)
}
