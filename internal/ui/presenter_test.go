package ui

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bamsammich/twinpane/internal/config"
	"github.com/bamsammich/twinpane/internal/event"
)

func feed(evs ...event.Event) <-chan event.Event {
	ch := make(chan event.Event, len(evs))
	for _, ev := range evs {
		ch <- ev
	}
	close(ch)
	return ch
}

func searchStream() <-chan event.Event {
	now := time.Now()
	return feed(
		event.Event{Type: event.ProgressText, Text: "Counting folders...", Timestamp: now},
		event.Event{Type: event.Progress, Percent: 50, Timestamp: now},
		event.Event{Type: event.ResultFound, Result: event.Found{Path: "/data/docs/a.txt", Size: 10}, Timestamp: now},
		event.Event{Type: event.ResultFound, Result: event.Found{Path: "/data/b.txt", Size: 20}, Timestamp: now},
		event.Event{Type: event.Progress, Percent: 100, Timestamp: now},
		event.Event{Type: event.Finished, Done: event.Done{Success: true, Message: "found 2 matches", TotalFound: 2}, Timestamp: now},
	)
}

func TestNewPresenterSelection(t *testing.T) {
	var out, errOut bytes.Buffer
	assert.IsType(t, &quietPresenter{}, NewPresenter(Config{Quiet: true, IsTTY: true}))
	assert.IsType(t, &plainPresenter{}, NewPresenter(Config{Writer: &out, ErrWriter: &errOut}))
	assert.IsType(t, &plainPresenter{}, NewPresenter(Config{IsTTY: true, NoProgress: true}))
	assert.IsType(t, &hudPresenter{}, NewPresenter(Config{IsTTY: true}))
}

func TestPlainPresenter(t *testing.T) {
	var out, errOut bytes.Buffer
	p := NewPresenter(Config{Writer: &out, ErrWriter: &errOut})
	assert.Empty(t, p.Summary())

	require.NoError(t, p.Run(searchStream()))
	assert.Equal(t, "/data/docs/a.txt\n/data/b.txt\n", out.String())
	assert.Equal(t, "found 2 matches", p.Summary())
}

func TestPlainPresenterProgressLine(t *testing.T) {
	var errOut bytes.Buffer
	p := &plainPresenter{errW: &errOut}
	now := time.Now()
	p.handleEvent(event.Event{Type: event.Progress, Percent: 25, Timestamp: now.Add(-10 * time.Second)})
	p.handleEvent(event.Event{Type: event.ProgressText, Text: "Copying a.txt"})
	p.printProgress(now)
	assert.Equal(t, "progress:  25% ▪▪□□□□□□□□ eta 30s Copying a.txt\n", errOut.String())

	// Nothing changed since the last line.
	p.printProgress(now)
	assert.Equal(t, 1, bytes.Count(errOut.Bytes(), []byte("\n")))
}

func TestQuietPresenter(t *testing.T) {
	var out bytes.Buffer
	p := NewPresenter(Config{Quiet: true, Writer: &out})
	require.NoError(t, p.Run(searchStream()))
	assert.Equal(t, "/data/docs/a.txt\n/data/b.txt\n", out.String())
	assert.Empty(t, p.Summary())

	p = NewPresenter(Config{Quiet: true, Writer: &out})
	require.NoError(t, p.Run(feed(event.Event{
		Type: event.Finished,
		Done: event.Done{Message: "processed 3 of 4; 1 errors", Errors: []string{"x: denied"}},
	})))
	assert.Equal(t, "processed 3 of 4; 1 errors\n   x: denied", p.Summary())
}

func TestHUDPresenter(t *testing.T) {
	var out, errOut bytes.Buffer
	p := NewPresenter(Config{IsTTY: true, Writer: &out, ErrWriter: &errOut, Root: "/data"})
	require.NoError(t, p.Run(searchStream()))

	assert.Contains(t, out.String(), "a.txt")
	assert.Contains(t, out.String(), "b.txt")
	assert.NotContains(t, out.String(), "/data/")
	assert.Contains(t, errOut.String(), "\r\033[K")
	assert.Contains(t, p.Summary(), "found 2 matches")
}

func TestHUDLine(t *testing.T) {
	p := &hudPresenter{width: 120}
	now := time.Now()
	p.t.apply(event.Event{Type: event.Progress, Percent: 50, Timestamp: now.Add(-4 * time.Second)})
	p.t.apply(event.Event{Type: event.ProgressText, Text: "Searching /data"})
	line := p.hudLine(now)
	assert.Contains(t, line, " 50%")
	assert.Contains(t, line, "eta 4s")
	assert.Contains(t, line, "Searching /data")
}

func TestStripRoot(t *testing.T) {
	assert.Equal(t, "docs/a.txt", StripRoot("/data", "/data/docs/a.txt"))
	assert.Equal(t, "docs/a.txt", StripRoot("/data/", "/data/docs/a.txt"))
	assert.Equal(t, "/other/a.txt", StripRoot("/data", "/other/a.txt"))
	assert.Equal(t, "/data/a.txt", StripRoot("", "/data/a.txt"))
}

func TestApplyTheme(t *testing.T) {
	orig := ColorRed
	t.Cleanup(func() {
		ColorRed = orig
		rebuildStyles()
	})

	red := "#ff0000"
	ApplyTheme(config.ThemeConfig{Red: &red})
	assert.Equal(t, "#ff0000", string(ColorRed))
}
