package ui

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/bamsammich/twinpane/internal/event"
)

const (
	progressBarWidth = 20
	hudMinInterval   = 50 * time.Millisecond // don't redraw faster than this
	hudFixedWidth    = 44                    // percent, bar, counts and eta
)

// hudPresenter redraws a single status line in place on the terminal and
// prints search results above it.
type hudPresenter struct {
	w     io.Writer
	errW  io.Writer
	root  string
	t     tracker
	width int // terminal columns

	hudDrawn    bool
	lastHUDDraw time.Time
}

func (p *hudPresenter) Run(events <-chan event.Event) error {
	// Redraw ticker for when no events are flowing, e.g. a single large file.
	redrawTicker := time.NewTicker(100 * time.Millisecond)
	defer redrawTicker.Stop()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				p.clearHUD()
				return nil
			}
			p.handleEvent(ev)
			if !p.t.finished {
				p.maybeDrawHUD()
			}
		case <-redrawTicker.C:
			if !p.t.finished {
				p.drawHUD()
			}
		}
	}
}

func (p *hudPresenter) handleEvent(ev event.Event) {
	p.t.apply(ev)
	switch ev.Type {
	case event.ResultFound:
		p.clearHUD()
		p.printResult(ev.Result)
		p.drawHUD()
	case event.Finished:
		p.clearHUD()
	}
}

func (p *hudPresenter) printResult(r event.Found) {
	fmt.Fprintf(p.w, "%s  %s\n", p.styledPath(r.Path), styleFileSize.Render(FormatBytes(r.Size)))
}

func (p *hudPresenter) maybeDrawHUD() {
	if time.Since(p.lastHUDDraw) < hudMinInterval {
		return
	}
	p.drawHUD()
}

func (p *hudPresenter) drawHUD() {
	now := time.Now()
	line := p.hudLine(now)
	p.clearHUD()
	fmt.Fprint(p.errW, line)
	p.hudDrawn = true
	p.lastHUDDraw = now
}

func (p *hudPresenter) hudLine(now time.Time) string {
	filled := p.t.percent * progressBarWidth / 100
	var b strings.Builder
	fmt.Fprintf(&b, " %3d%%  %s%s", p.t.percent,
		styleFilled.Render(strings.Repeat("▪", filled)),
		styleDim.Render(strings.Repeat("□", progressBarWidth-filled)))
	if p.t.found > 0 {
		fmt.Fprintf(&b, "   %s found", FormatCount(int64(p.t.found)))
	}
	fmt.Fprintf(&b, "   eta %s", FormatETA(p.t.eta(now)))
	if p.t.text != "" {
		b.WriteString("   ")
		b.WriteString(styleStatus.Render(Truncate(p.t.text, max(p.width-hudFixedWidth, 10))))
	}
	return b.String()
}

// clearHUD returns the cursor to column zero and erases the status line.
func (p *hudPresenter) clearHUD() {
	if !p.hudDrawn {
		return
	}
	fmt.Fprint(p.errW, "\r\033[K")
	p.hudDrawn = false
}

func (p *hudPresenter) Summary() string {
	if !p.t.finished {
		return ""
	}
	return StyledSummary(p.t.done)
}

// styledPath returns the path with the directory portion dimmed so the file
// name stands out.
func (p *hudPresenter) styledPath(path string) string {
	path = StripRoot(p.root, path)
	dir := filepath.Dir(path)
	base := filepath.Base(path)
	if dir == "." || dir == "" {
		return base
	}
	return styleDim.Render(dir+string(filepath.Separator)) + base
}

// StripRoot removes a root prefix from a path, returning a clean relative path.
func StripRoot(root, path string) string {
	if root == "" {
		return path
	}
	if !strings.HasSuffix(root, string(filepath.Separator)) {
		root += string(filepath.Separator)
	}
	if strings.HasPrefix(path, root) {
		return path[len(root):]
	}
	return path
}
