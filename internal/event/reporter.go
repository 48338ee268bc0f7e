package event

import "sync"

// MaxRunningPercent is the highest percentage reported before Finished.
const MaxRunningPercent = 99

// Reporter wraps an Observer and enforces the stream guarantees: percentages
// are clamped to 0..99 and never decrease, nothing is emitted after Finished,
// and Finished is delivered at most once.
type Reporter struct {
	obs      Observer
	mu       sync.Mutex
	last     int
	finished bool
}

// NewReporter wraps obs. A nil obs discards events.
func NewReporter(obs Observer) *Reporter {
	if obs == nil {
		obs = Nop
	}
	return &Reporter{obs: obs, last: -1}
}

// Percent reports progress; duplicates and regressions are suppressed.
func (r *Reporter) Percent(p int) {
	p = max(0, min(p, MaxRunningPercent))
	r.mu.Lock()
	if r.finished || p <= r.last {
		r.mu.Unlock()
		return
	}
	r.last = p
	r.mu.Unlock()
	r.obs.OnProgress(p)
}

// Text reports a free-form status line.
func (r *Reporter) Text(s string) {
	r.mu.Lock()
	done := r.finished
	r.mu.Unlock()
	if !done {
		r.obs.OnProgressText(s)
	}
}

// Result reports a search match.
func (r *Reporter) Result(f Found) {
	r.mu.Lock()
	done := r.finished
	r.mu.Unlock()
	if !done {
		r.obs.OnResult(f)
	}
}

// Finish emits a final 100% for successful runs, then Finished.
func (r *Reporter) Finish(d Done) {
	r.mu.Lock()
	if r.finished {
		r.mu.Unlock()
		return
	}
	r.finished = true
	r.mu.Unlock()

	if d.Success {
		r.obs.OnProgress(100)
	}
	r.obs.OnFinished(d)
}
