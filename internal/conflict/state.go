package conflict

import (
	"errors"
	"fmt"
	"slices"
	"sync"
)

// State is a step of the batch lifecycle.
type State int

const (
	Scanning State = iota
	ConflictCheck
	AwaitingBatchDecision
	AwaitingItemDecision
	Executing
	Completed
	PartiallyFailed
	Cancelled
)

func (s State) String() string {
	switch s {
	case Scanning:
		return "scanning"
	case ConflictCheck:
		return "conflict-check"
	case AwaitingBatchDecision:
		return "awaiting-batch-decision"
	case AwaitingItemDecision:
		return "awaiting-item-decision"
	case Executing:
		return "executing"
	case Completed:
		return "completed"
	case PartiallyFailed:
		return "partially-failed"
	case Cancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transition is possible.
func (s State) Terminal() bool {
	return s == Completed || s == PartiallyFailed || s == Cancelled
}

var transitions = map[State][]State{
	Scanning:              {ConflictCheck},
	ConflictCheck:         {Executing, AwaitingBatchDecision},
	AwaitingBatchDecision: {Executing, AwaitingItemDecision, Cancelled},
	AwaitingItemDecision:  {AwaitingItemDecision, Executing, Cancelled},
	Executing:             {Completed, PartiallyFailed, Cancelled},
}

// ErrInvalidTransition is returned when a step is taken out of order.
var ErrInvalidTransition = errors.New("invalid state transition")

// Resolver walks one batch through the lifecycle:
//
//	Scanning -> ConflictCheck -> Executing | AwaitingBatchDecision
//	AwaitingBatchDecision -> Executing | AwaitingItemDecision | Cancelled
//	AwaitingItemDecision -> AwaitingItemDecision | Executing | Cancelled
//	Executing -> Completed | PartiallyFailed | Cancelled
//
// A Resolver is used for a single batch.
type Resolver struct {
	decider Decider
	history []State
	mu      sync.Mutex
	state   State
}

// NewResolver returns a Resolver in the Scanning state. A nil decider
// cancels on any conflict.
func NewResolver(d Decider) *Resolver {
	if d == nil {
		d = Fixed(Cancel)
	}
	return &Resolver{decider: d, state: Scanning, history: []State{Scanning}}
}

// State returns the current state.
func (r *Resolver) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// History returns every state visited so far, oldest first.
func (r *Resolver) History() []State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.history)
}

func (r *Resolver) transition(to State) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !slices.Contains(transitions[r.state], to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, r.state, to)
	}
	r.state = to
	r.history = append(r.history, to)
	return nil
}

// Plan scans the batch and moves to ConflictCheck.
func (r *Resolver) Plan(sources []string, dstDir string) (Plan, error) {
	if err := r.transition(ConflictCheck); err != nil {
		return Plan{}, err
	}
	return Scan(sources, dstDir), nil
}

// Resolve consults the decider for p's conflicts and returns the batch to
// execute. It leaves the Resolver in Executing, or Cancelled when nothing
// will run.
func (r *Resolver) Resolve(p Plan) (Resolution, error) {
	if len(p.Conflicting) == 0 {
		if err := r.transition(Executing); err != nil {
			return Resolution{}, err
		}
		return Resolution{Sources: slices.Clone(p.Sources), Skipped: duplicateLines(p)}, nil
	}

	if err := r.transition(AwaitingBatchDecision); err != nil {
		return Resolution{}, err
	}

	replace := make(map[string]bool, len(p.Conflicting))
	res := Resolution{Skipped: duplicateLines(p)}

	switch policy := r.decider.DecideBatch(p.Conflicting); policy {
	case ReplaceAll:
		for _, c := range p.Conflicting {
			replace[c.Source] = true
		}
	case SkipAll:
		for _, c := range p.Conflicting {
			res.Skipped = append(res.Skipped, SkippedMessage(c.Name))
		}
	case AskEach:
		stopped := false
		for _, c := range p.Conflicting {
			if stopped {
				res.Skipped = append(res.Skipped, SkippedMessage(c.Name))
				continue
			}
			if err := r.transition(AwaitingItemDecision); err != nil {
				return Resolution{}, err
			}
			switch r.decider.DecideItem(c) {
			case Replace:
				replace[c.Source] = true
			case Stop:
				stopped = true
				res.Skipped = append(res.Skipped, SkippedMessage(c.Name))
			default:
				res.Skipped = append(res.Skipped, SkippedMessage(c.Name))
			}
		}
	default:
		res.Cancelled = true
		return res, r.transition(Cancelled)
	}

	conflicting := make(map[string]bool, len(p.Conflicting))
	for _, c := range p.Conflicting {
		conflicting[c.Source] = true
	}
	for _, src := range p.Sources {
		if !conflicting[src] || replace[src] {
			res.Sources = append(res.Sources, src)
		}
	}

	return res, r.transition(Executing)
}

// Finish records how execution ended.
func (r *Resolver) Finish(success, cancelled bool) error {
	switch {
	case cancelled:
		return r.transition(Cancelled)
	case success:
		return r.transition(Completed)
	default:
		return r.transition(PartiallyFailed)
	}
}

// Resolve runs a fresh Resolver over p.
func Resolve(p Plan, d Decider) Resolution {
	r := NewResolver(d)
	r.state = ConflictCheck
	res, _ := r.Resolve(p)
	return res
}
