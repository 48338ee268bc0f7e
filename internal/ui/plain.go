package ui

import (
	"fmt"
	"io"
	"time"

	"github.com/bamsammich/twinpane/internal/event"
)

// plainProgressInterval is how often progress is logged when not on a TTY.
const plainProgressInterval = 5 * time.Second

// plainPresenter writes one line per search result to stdout and periodic
// progress lines to stderr.
type plainPresenter struct {
	w     io.Writer
	errW  io.Writer
	t     tracker
	dirty bool // progress changed since the last line
}

func (p *plainPresenter) Run(events <-chan event.Event) error {
	ticker := time.NewTicker(plainProgressInterval)
	defer ticker.Stop()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			p.handleEvent(ev)
		case <-ticker.C:
			p.printProgress(time.Now())
		}
	}
}

func (p *plainPresenter) handleEvent(ev event.Event) {
	p.t.apply(ev)
	switch ev.Type {
	case event.Progress, event.ProgressText:
		p.dirty = true
	case event.ResultFound:
		fmt.Fprintln(p.w, ev.Result.Path)
	}
}

func (p *plainPresenter) printProgress(now time.Time) {
	if !p.dirty || p.t.finished {
		return
	}
	p.dirty = false
	fmt.Fprintf(p.errW, "progress: %3d%% %s eta %s %s\n",
		p.t.percent, ProgressBar(p.t.percent, 10), FormatETA(p.t.eta(now)), p.t.text)
}

func (p *plainPresenter) Summary() string {
	if !p.t.finished {
		return ""
	}
	return OutcomeSummary(p.t.done)
}
