package main

import (
	"context"
	"fmt"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/bamsammich/twinpane/internal/engine"
	"github.com/bamsammich/twinpane/internal/event"
	"github.com/bamsammich/twinpane/internal/job"
	"github.com/bamsammich/twinpane/internal/search"
	"github.com/bamsammich/twinpane/internal/ui"
)

// Exit codes.
const (
	exitFailed    = 1
	exitCancelled = 130
)

type submitFunc func(m *job.Manager, obs event.Observer) (job.Handle, error)

func (g *globals) engineConfig() engine.Config {
	s := g.settings
	return engine.Config{
		Logger:        g.logger,
		ChunkSize:     s.ChunkSize,
		BWLimit:       s.BWLimit,
		PreserveMode:  s.PreserveMode,
		PreserveTimes: s.PreserveTimes,
	}
}

func (g *globals) searchConfig() search.Config {
	s := g.settings
	return search.Config{
		Logger:         g.logger,
		TextExtensions: s.TextExtensions,
		ContentMaxSize: s.ContentMaxSize,
		PrecountCap:    s.PrecountCap,
	}
}

// runJob submits one job, shows its events until it finishes and maps the
// final status to an exit code. SIGINT and SIGTERM cancel the job.
func (g *globals) runJob(cmd *cobra.Command, engCfg engine.Config, root string, submit submitFunc) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	m := job.NewManager(context.Background(), job.Config{
		Engine:      engine.New(engCfg),
		Search:      search.New(g.searchConfig()),
		Logger:      g.logger,
		GracePeriod: g.settings.GracePeriod,
	})

	events := make(chan event.Event, 256)
	h, err := submit(m, event.Chan(events))
	if err != nil {
		return err
	}

	// Conflict prompts are answered inside submit, so the presenter starts
	// only once the job is running.
	presenter := ui.NewPresenter(g.presenterConfig(cmd, root))
	var (
		presenterErr error
		presenterWg  sync.WaitGroup
	)
	presenterWg.Add(1)
	go func() {
		defer presenterWg.Done()
		presenterErr = presenter.Run(events)
	}()

	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			g.logger.Info("interrupted, cancelling job", "job", h.String())
			if err := m.Cancel(h); err != nil {
				g.logger.Warn("cancel", "error", err)
			}
		case <-done:
		}
	}()

	res, err := m.Wait(context.Background(), h)
	close(done)
	stop()
	close(events)
	presenterWg.Wait()
	if presenterErr != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "presenter: %v\n", presenterErr)
	}
	if err != nil {
		return err
	}

	if summary := presenter.Summary(); summary != "" {
		fmt.Fprintln(cmd.ErrOrStderr(), summary)
	}
	g.logger.Debug("job finished", "job", h.String(), "status", res.Status.String(), "message", res.Message())

	switch res.Status {
	case job.Completed:
		return nil
	case job.Cancelled:
		return &exitError{code: exitCancelled}
	default:
		return &exitError{code: exitFailed}
	}
}
