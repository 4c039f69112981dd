package ingest

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jgrantham/inlet/internal/queue"
)

// Identifier decides, per pipeline, whether new work exists in the object
// store and schedules at most one ingestion job per pass.
type Identifier struct {
	gateway   ObjectGateway
	inspector QueueInspector
	enqueuer  Enqueuer
	ledger    Ledger
}

// NewIdentifier wires an identifier from its collaborators.
func NewIdentifier(gateway ObjectGateway, inspector QueueInspector, enqueuer Enqueuer, ledger Ledger) *Identifier {
	return &Identifier{
		gateway:   gateway,
		inspector: inspector,
		enqueuer:  enqueuer,
		ledger:    ledger,
	}
}

// IdentifyNewObjects runs one identification pass for a pipeline. Only the
// single most recently modified object under the prefix is considered;
// older uningested objects are left to operational backfill. Gate errors
// propagate uncaught — the periodic trigger provides retry-by-recurrence.
func (i *Identifier) IdentifyNewObjects(ctx context.Context, pipeline Pipeline) error {
	key, err := i.gateway.MostRecentObjectKey(ctx, pipeline.Prefix)
	if err != nil {
		return fmt.Errorf("failed to find most recent object for %s: %w", pipeline.Name, err)
	}
	if key == "" {
		slog.Info("no objects found", "pipeline", pipeline.Name, "prefix", pipeline.Prefix)
		return nil
	}

	queued, err := i.inspector.IsQueued(ctx, pipeline.Function, key)
	if err != nil {
		return fmt.Errorf("failed to check queued jobs for %s: %w", pipeline.Name, err)
	}
	if queued {
		slog.Info("object already queued for ingestion", "pipeline", pipeline.Name, "object_key", key)
		return nil
	}

	running, err := i.inspector.IsRunning(ctx, pipeline.Function, key)
	if err != nil {
		return fmt.Errorf("failed to check running jobs for %s: %w", pipeline.Name, err)
	}
	if running {
		slog.Info("object is currently being ingested", "pipeline", pipeline.Name, "object_key", key)
		return nil
	}

	ingested, err := i.ledger.HasBeenIngested(ctx, key)
	if err != nil {
		return fmt.Errorf("failed to check ledger for %s: %w", pipeline.Name, err)
	}
	if ingested {
		slog.Info("object has already been ingested", "pipeline", pipeline.Name, "object_key", key)
		return nil
	}

	job, err := i.enqueuer.Enqueue(ctx, queue.Params{
		Queue:       pipeline.Queue,
		Function:    pipeline.Function,
		ObjectKey:   key,
		Description: "Ingest " + key,
		Timeout:     pipeline.Timeout,
	})
	if err != nil {
		return fmt.Errorf("failed to enqueue ingestion for %s: %w", pipeline.Name, err)
	}

	slog.Info("scheduled ingestion", "pipeline", pipeline.Name, "object_key", key, "job_id", job.ID)
	return nil
}
