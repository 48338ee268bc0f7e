package job

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"github.com/bamsammich/twinpane/internal/conflict"
	"github.com/bamsammich/twinpane/internal/engine"
	"github.com/bamsammich/twinpane/internal/event"
	"github.com/bamsammich/twinpane/internal/search"
)

// DefaultGracePeriod is how long Cancel waits for a worker to stop.
const DefaultGracePeriod = 3 * time.Second

var (
	// ErrUnknownJob is returned for a handle the manager never issued.
	ErrUnknownJob = errors.New("unknown job")

	// ErrGraceExpired is returned by Cancel when the worker is still running
	// after the grace period. The worker is not killed; it stops at its next
	// cancellation check.
	ErrGraceExpired = errors.New("job did not stop within grace period")
)

// Config wires a Manager to its engines.
type Config struct {
	Engine      *engine.Engine
	Search      *search.Engine
	Logger      *slog.Logger
	GracePeriod time.Duration
}

// Manager runs one goroutine per job. Copy, move and delete jobs run one at
// a time in submission order; searches run concurrently with everything.
type Manager struct {
	ctx         context.Context
	engine      *engine.Engine
	search      *search.Engine
	logger      *slog.Logger
	destructive *semaphore.Weighted
	jobs        map[uuid.UUID]*job
	wg          sync.WaitGroup
	mu          sync.Mutex
	grace       time.Duration
}

// NewManager creates a Manager. Cancelling ctx cancels every job.
func NewManager(ctx context.Context, cfg Config) *Manager {
	m := &Manager{
		ctx:         ctx,
		engine:      cfg.Engine,
		search:      cfg.Search,
		logger:      cfg.Logger,
		grace:       cfg.GracePeriod,
		destructive: semaphore.NewWeighted(1),
		jobs:        make(map[uuid.UUID]*job),
	}
	if m.engine == nil {
		m.engine = engine.New(engine.Config{Logger: cfg.Logger})
	}
	if m.search == nil {
		m.search = search.New(search.Config{Logger: cfg.Logger})
	}
	if m.logger == nil {
		m.logger = slog.New(slog.DiscardHandler)
	}
	if m.grace <= 0 {
		m.grace = DefaultGracePeriod
	}
	return m
}

func (m *Manager) start(kind string) (*job, context.Context, *slog.Logger) {
	ctx, cancel := context.WithCancel(m.ctx)
	j := &job{
		handle:  Handle{ID: uuid.New(), Kind: kind},
		started: time.Now(),
		cancel:  cancel,
		done:    make(chan struct{}),
		status:  Pending,
	}
	m.mu.Lock()
	m.jobs[j.handle.ID] = j
	m.mu.Unlock()
	m.wg.Add(1)

	log := m.logger.With("job", j.handle.ID.String(), "kind", kind)
	log.Debug("job submitted")
	return j, ctx, log
}

// Submit starts a copy, move or delete job as submitted; conflicts are not
// checked. Use SubmitBatch to resolve conflicts first.
func (m *Manager) Submit(req engine.Request, obs event.Observer) Handle {
	j, ctx, log := m.start(req.Kind.String())
	go func() {
		defer m.wg.Done()
		defer j.cancel()
		out := m.runExclusive(ctx, j, log, req, obs)
		j.finish(Result{Outcome: out, Status: statusOf(out.Success, out.Cancelled)})
	}()
	return j.handle
}

// runExclusive waits for the destructive-job slot, then runs req.
func (m *Manager) runExclusive(ctx context.Context, j *job, log *slog.Logger, req engine.Request, obs event.Observer) engine.Outcome {
	if !m.destructive.TryAcquire(1) {
		if obs != nil {
			obs.OnProgressText("Waiting for another operation to finish")
		}
		log.Info("waiting for running job")
		if err := m.destructive.Acquire(ctx, 1); err != nil {
			out := engine.Outcome{Message: "cancelled", Cancelled: true, Errors: req.Skipped}
			event.NewReporter(obs).Finish(event.Done{Message: out.Message, Errors: out.Errors})
			return out
		}
	}
	defer m.destructive.Release(1)

	j.setStatus(Running)
	return m.engine.WithLogger(log).Run(ctx, req, obs)
}

// SubmitBatch resolves conflicts for a copy or move of sources into dstDir
// with d, then starts one job for the resolved batch. Decisions are taken
// on the calling goroutine before any I/O. A batch with nothing left to do
// still yields a handle whose job finishes at once.
func (m *Manager) SubmitBatch(kind engine.Kind, sources []string, dstDir string, d conflict.Decider, obs event.Observer) (Handle, error) {
	if kind == engine.Delete {
		return m.Submit(engine.Request{Kind: kind, Sources: sources}, obs), nil
	}
	req := engine.Request{Kind: kind, Sources: sources, DstDir: dstDir}
	if err := req.Validate(); err != nil {
		return Handle{}, err
	}

	r := conflict.NewResolver(d)
	plan, err := r.Plan(sources, dstDir)
	if err != nil {
		return Handle{}, err
	}
	res, err := r.Resolve(plan)
	if err != nil {
		return Handle{}, err
	}

	j, ctx, log := m.start(kind.String())
	log.Info("batch resolved",
		"sources", len(sources),
		"conflicts", len(plan.Conflicting),
		"skipped", len(res.Skipped),
		"self", len(plan.SelfTargets),
		"duplicates", len(plan.Duplicates),
		"state", r.State().String(),
	)

	go func() {
		defer m.wg.Done()
		defer j.cancel()

		var out engine.Outcome
		switch {
		case res.Cancelled:
			out = engine.Outcome{Message: "cancelled", Cancelled: true}
			event.NewReporter(obs).Finish(event.Done{Message: out.Message})
		case res.Empty():
			out = engine.Outcome{Success: true, Message: "nothing to " + kind.String(), Errors: res.Skipped}
			event.NewReporter(obs).Finish(event.Done{Success: true, Message: out.Message, Errors: out.Errors})
		default:
			req := engine.Request{Kind: kind, Sources: res.Sources, DstDir: dstDir, Skipped: res.Skipped}
			out = m.runExclusive(ctx, j, log, req, obs)
		}

		if r.State() == conflict.Executing {
			if err := r.Finish(out.Success, out.Cancelled); err != nil {
				log.Debug("resolver state", "error", err)
			}
		}
		j.finish(Result{Outcome: out, Status: statusOf(out.Success, out.Cancelled)})
	}()
	return j.handle, nil
}

// SubmitSearch starts a search. Searches never wait for other jobs.
func (m *Manager) SubmitSearch(c search.Criteria, obs event.Observer) Handle {
	j, ctx, log := m.start("search")
	go func() {
		defer m.wg.Done()
		defer j.cancel()
		j.setStatus(Running)
		s := m.search.WithLogger(log).Run(ctx, c, obs)
		j.finish(Result{Search: s, Status: statusOf(s.Success, s.Cancelled)})
	}()
	return j.handle
}

func (m *Manager) lookup(h Handle) (*job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	j, ok := m.jobs[h.ID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownJob, h)
	}
	return j, nil
}

// Cancel asks the job to stop and waits up to the grace period for it to
// emit Finished. Cancelling a finished job is a no-op.
func (m *Manager) Cancel(h Handle) error {
	j, err := m.lookup(h)
	if err != nil {
		return err
	}
	j.cancel()

	t := time.NewTimer(m.grace)
	defer t.Stop()
	select {
	case <-j.done:
		return nil
	case <-t.C:
		m.logger.Warn("job still running after cancel", "job", h.ID.String(), "grace", m.grace)
		return fmt.Errorf("%w: %s after %s", ErrGraceExpired, h, m.grace)
	}
}

// Wait blocks until the job finishes or ctx is done.
func (m *Manager) Wait(ctx context.Context, h Handle) (Result, error) {
	j, err := m.lookup(h)
	if err != nil {
		return Result{}, err
	}
	select {
	case <-j.done:
		j.mu.Lock()
		defer j.mu.Unlock()
		return j.result, nil
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}

// Status returns the job's current state.
func (m *Manager) Status(h Handle) (Status, error) {
	j, err := m.lookup(h)
	if err != nil {
		return 0, err
	}
	return j.info().Status, nil
}

// List returns every job the manager has seen, oldest first.
func (m *Manager) List() []Info {
	m.mu.Lock()
	infos := make([]Info, 0, len(m.jobs))
	for _, j := range m.jobs {
		infos = append(infos, j.info())
	}
	m.mu.Unlock()
	sort.Slice(infos, func(a, b int) bool { return infos[a].Started.Before(infos[b].Started) })
	return infos
}

// Forget drops a finished job from the registry.
func (m *Manager) Forget(h Handle) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if j, ok := m.jobs[h.ID]; ok && j.info().Status.Terminal() {
		delete(m.jobs, h.ID)
	}
}

// Shutdown cancels every job and waits for all workers to return or for ctx
// to expire.
func (m *Manager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	for _, j := range m.jobs {
		j.cancel()
	}
	m.mu.Unlock()

	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
