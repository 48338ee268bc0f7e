// Package engine executes copy, move and delete jobs over files, batches and
// directory trees with byte-accurate progress and cooperative cancellation.
package engine

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/time/rate"

	"github.com/bamsammich/twinpane/internal/catalog"
	"github.com/bamsammich/twinpane/internal/event"
	"github.com/bamsammich/twinpane/internal/platform"
	"github.com/bamsammich/twinpane/internal/stats"
)

// Config controls the job engine.
type Config struct {
	Logger        *slog.Logger
	ChunkSize     int   // copy chunk in bytes; defaults to platform.ChunkSize
	BWLimit       int64 // bytes/sec across all copies; 0 means unlimited
	PreserveMode  bool
	PreserveTimes bool
}

// Engine runs jobs. One Engine may serve many jobs; each Run call is
// independent and sequential within itself.
type Engine struct {
	limiter *rate.Limiter
	logger  *slog.Logger
	cfg     Config
}

// New creates an Engine.
func New(cfg Config) *Engine {
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = platform.ChunkSize
	}
	e := &Engine{cfg: cfg, logger: cfg.Logger}
	if e.logger == nil {
		e.logger = slog.New(slog.DiscardHandler)
	}
	if cfg.BWLimit > 0 {
		e.limiter = NewBWLimiter(cfg.BWLimit)
	}
	return e
}

// WithLogger returns a copy of e that logs to l. The bandwidth limiter is
// shared with e.
func (e *Engine) WithLogger(l *slog.Logger) *Engine {
	c := *e
	c.logger = l
	return &c
}

// run is the state of a single job.
type run struct {
	ctx       context.Context
	e         *Engine
	rep       *event.Reporter
	stats     *stats.Collector
	label     string
	failures  []string
	req       Request
	inPlace   map[string]bool // sources already at their target; never deleted by a move
	cancelled bool
	keptSrc   bool // move stopped before deleting sources
}

// Run executes req, streaming progress to obs, and returns the outcome. The
// final Finished event is emitted before Run returns. Cancellation of ctx is
// observed at every file and chunk boundary.
func (e *Engine) Run(ctx context.Context, req Request, obs event.Observer) Outcome {
	rep := event.NewReporter(obs)
	log := e.logger.With("kind", req.Kind.String())

	if err := req.Validate(); err != nil {
		log.Warn("job rejected", "error", err)
		out := Outcome{Message: err.Error()}
		rep.Finish(event.Done{Message: out.Message})
		return out
	}

	r := &run{
		ctx:     ctx,
		e:       e.WithLogger(log),
		rep:     rep,
		stats:   stats.NewCollector(),
		req:     req,
		inPlace: make(map[string]bool),
	}

	rep.Text("Scanning...")
	totals, err := catalog.Tally(ctx, req.Sources)
	for _, skipped := range totals.Errs {
		log.Debug("pre-scan skipped entry", "error", skipped)
	}
	r.stats.SetTotals(totals.Files, totals.Bytes)
	log.Info("job started",
		"sources", len(req.Sources),
		"dst", req.DstDir,
		"files", totals.Files,
		"bytes", totals.Bytes,
	)
	if err != nil {
		r.cancelled = true
		return r.finish()
	}
	r.progress()

	switch req.Kind {
	case Copy:
		r.copyAll()
	case Move:
		r.move()
	case Delete:
		r.deleteAll(true)
	}
	return r.finish()
}

// fail records a per-item failure; the batch continues.
func (r *run) fail(name string, err error) {
	ie := &ItemError{Name: name, Err: err}
	r.failures = append(r.failures, ie.Error())
	r.stats.AddFailed(1)
	r.e.logger.Warn("item failed", "item", name, "error", err)
}

// stopped reports whether the job has been cancelled, latching the result.
func (r *run) stopped() bool {
	if !r.cancelled && r.ctx.Err() != nil {
		r.cancelled = true
	}
	return r.cancelled
}

func (r *run) progress() {
	r.rep.Percent(r.stats.Percent())
}

func (r *run) status(verb, label string) {
	r.label = label
	r.rep.Text(verb + " " + label)
}

func (r *run) meta() platform.MetadataOpts {
	return platform.MetadataOpts{Mode: r.e.cfg.PreserveMode, Times: r.e.cfg.PreserveTimes}
}

func (r *run) finish() Outcome {
	snap := r.stats.Snapshot()
	out := Outcome{
		Progress:  progressFrom(snap, r.label),
		Errors:    append(append([]string(nil), r.req.Skipped...), r.failures...),
		Cancelled: r.cancelled,
	}

	switch {
	case r.cancelled:
		out.Message = "cancelled"
	case r.keptSrc:
		out.Message = fmt.Sprintf("move incomplete: %d errors, sources kept", len(r.failures))
	case len(r.failures) == 1 && len(r.req.Sources) == 1:
		out.Message = fmt.Sprintf("%s failed: %s", r.req.Kind, r.failures[0])
	case len(r.failures) > 0:
		out.Message = fmt.Sprintf("processed %d of %d; %d errors",
			snap.FilesDone, snap.FilesTotal, len(r.failures))
	default:
		out.Success = true
		out.Message = fmt.Sprintf("%s complete: %d of %d files, %s",
			r.req.Kind, snap.FilesDone, snap.FilesTotal, stats.FormatBytes(snap.BytesDone))
	}

	r.e.logger.Info("job finished",
		"success", out.Success,
		"message", out.Message,
		"errors", len(out.Errors),
		"stats", snap.String(),
		"elapsed", snap.Elapsed,
		"bytes_per_sec", int64(snap.Rate()),
	)
	r.rep.Finish(event.Done{
		Success: out.Success,
		Message: out.Message,
		Errors:  out.Errors,
	})
	return out
}
