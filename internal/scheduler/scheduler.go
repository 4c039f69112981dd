// Package scheduler triggers periodic identification passes per pipeline
// from cron expressions.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/adhocore/gronx"

	"github.com/jgrantham/inlet/internal/ingest"
)

type entry struct {
	pipeline ingest.Pipeline
	cron     string
}

// Scheduler runs identification for each pipeline on its cron schedule.
// A pass that fails is logged and retried on the next tick; one slow or
// broken pipeline never blocks the others.
type Scheduler struct {
	identifier *ingest.Identifier
	entries    []entry
}

// New validates each pipeline's cron expression and builds the scheduler.
// overrides maps pipeline name to a cron expression replacing the
// pipeline's default.
func New(identifier *ingest.Identifier, pipelines []ingest.Pipeline, overrides map[string]string) (*Scheduler, error) {
	s := &Scheduler{identifier: identifier}
	for _, pipeline := range pipelines {
		cron := pipeline.Schedule
		if override, ok := overrides[pipeline.Name]; ok {
			cron = override
		}
		if !gronx.IsValid(cron) {
			return nil, fmt.Errorf("invalid cron expression %q for pipeline %s", cron, pipeline.Name)
		}
		s.entries = append(s.entries, entry{pipeline: pipeline, cron: cron})
	}
	return s, nil
}

// Run blocks until ctx is cancelled, driving one goroutine per pipeline.
func (s *Scheduler) Run(ctx context.Context) {
	var wg sync.WaitGroup
	for _, e := range s.entries {
		wg.Add(1)
		go func(e entry) {
			defer wg.Done()
			s.runEntry(ctx, e)
		}(e)
	}
	wg.Wait()
}

func (s *Scheduler) runEntry(ctx context.Context, e entry) {
	slog.Info("pipeline scheduled", "pipeline", e.pipeline.Name, "cron", e.cron)
	for {
		next, err := gronx.NextTickAfter(e.cron, time.Now(), false)
		if err != nil {
			// Expression was validated at startup; a failure here means the
			// clock is in a state NextTickAfter cannot resolve. Back off.
			slog.Error("failed to compute next tick", "pipeline", e.pipeline.Name, "error", err)
			next = time.Now().Add(time.Minute)
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(time.Until(next)):
		}

		if err := s.identifier.IdentifyNewObjects(ctx, e.pipeline); err != nil {
			slog.Error("identification pass failed", "pipeline", e.pipeline.Name, "error", err)
		}
	}
}
