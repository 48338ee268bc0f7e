// Package event defines the progress/result/finished stream emitted by the
// job and search engines and the Observer through which it is delivered.
package event

import "time"

// Type identifies the kind of event.
type Type int

const (
	Progress Type = iota + 1
	ProgressText
	ResultFound
	Finished
)

var typeNames = [...]string{
	Progress:     "Progress",
	ProgressText: "ProgressText",
	ResultFound:  "ResultFound",
	Finished:     "Finished",
}

func (t Type) String() string {
	if t > 0 && int(t) < len(typeNames) {
		return typeNames[t]
	}
	return "Unknown"
}

// Found describes a single search match.
type Found struct {
	ModTime   time.Time
	Path      string
	ParentDir string
	Size      int64
}

// Done is the terminal summary of a job or search.
type Done struct {
	Message    string
	Errors     []string
	TotalFound int // search only
	Success    bool
}

// Event is the channel form of a single observer callback.
type Event struct {
	Timestamp time.Time
	Result    Found // ResultFound
	Text      string
	Done      Done // Finished
	Type      Type
	Percent   int // Progress
}

// Observer receives a job's events. Implementations are called from the
// job's worker goroutine and must not block for long.
type Observer interface {
	OnProgress(percent int)
	OnProgressText(text string)
	OnResult(r Found)
	OnFinished(d Done)
}

// Funcs adapts optional callbacks to an Observer. Nil fields are ignored.
type Funcs struct {
	Progress     func(percent int)
	ProgressText func(text string)
	Result       func(r Found)
	Finished     func(d Done)
}

func (f Funcs) OnProgress(p int) {
	if f.Progress != nil {
		f.Progress(p)
	}
}

func (f Funcs) OnProgressText(s string) {
	if f.ProgressText != nil {
		f.ProgressText(s)
	}
}

func (f Funcs) OnResult(r Found) {
	if f.Result != nil {
		f.Result(r)
	}
}

func (f Funcs) OnFinished(d Done) {
	if f.Finished != nil {
		f.Finished(d)
	}
}

// Nop discards every event.
var Nop Observer = Funcs{}

// chanObserver forwards events to a channel. Progress and text updates are
// dropped when the channel is full; results and the final event block so
// they are never lost.
type chanObserver struct {
	ch chan<- Event
}

// Chan returns an Observer that writes events to ch. The caller owns ch and
// should close it after the job finishes.
func Chan(ch chan<- Event) Observer {
	return chanObserver{ch: ch}
}

func (c chanObserver) try(e Event) {
	e.Timestamp = time.Now()
	select {
	case c.ch <- e:
	default:
	}
}

func (c chanObserver) OnProgress(p int) { c.try(Event{Type: Progress, Percent: p}) }

func (c chanObserver) OnProgressText(s string) { c.try(Event{Type: ProgressText, Text: s}) }

func (c chanObserver) OnResult(r Found) {
	c.ch <- Event{Type: ResultFound, Result: r, Timestamp: time.Now()}
}

func (c chanObserver) OnFinished(d Done) {
	c.ch <- Event{Type: Finished, Done: d, Timestamp: time.Now()}
}
