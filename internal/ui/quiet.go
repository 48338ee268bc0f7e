package ui

import (
	"fmt"
	"io"

	"github.com/bamsammich/twinpane/internal/event"
)

// quietPresenter shows no progress. Search results are still printed, and
// the summary is only produced when the job did not succeed.
type quietPresenter struct {
	w io.Writer
	t tracker
}

func (p *quietPresenter) Run(events <-chan event.Event) error {
	for ev := range events {
		p.t.apply(ev)
		if ev.Type == event.ResultFound {
			fmt.Fprintln(p.w, ev.Result.Path)
		}
	}
	return nil
}

func (p *quietPresenter) Summary() string {
	if !p.t.finished || p.t.done.Success {
		return ""
	}
	return OutcomeSummary(p.t.done)
}
