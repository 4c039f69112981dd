// Package ingest implements the incremental object-store ingestion
// framework: identification of newly landed objects and streaming
// ingestion of their records. Record validation and upsert logic live in
// per-pipeline processors; this package owns bookkeeping, idempotency and
// observability.
package ingest

import (
	"context"
	"io"
	"time"

	"github.com/jgrantham/inlet/internal/domain"
	"github.com/jgrantham/inlet/internal/queue"
)

// ObjectGateway is the read surface of the object store the framework
// consumes.
type ObjectGateway interface {
	MostRecentObjectKey(ctx context.Context, prefix string) (string, error)
	LastModified(ctx context.Context, key string) (time.Time, error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// Ledger is the durable watermark store.
type Ledger interface {
	HasBeenIngested(ctx context.Context, objectKey string) (bool, error)
	LatestWatermark(ctx context.Context, prefix string) (*time.Time, error)
	RecordIngestion(ctx context.Context, objectKey string, modifiedAt time.Time) error
}

// Enqueuer schedules ingestion jobs.
type Enqueuer interface {
	Enqueue(ctx context.Context, params queue.Params) (domain.Job, error)
}

// QueueInspector answers whether an ingestion job is already queued or
// mid-flight.
type QueueInspector interface {
	IsQueued(ctx context.Context, function, objectKey string) (bool, error)
	IsRunning(ctx context.Context, function, objectKey string) (bool, error)
}

// Pipeline describes one (prefix, ingestion function) pair and how to
// build its record processor. A fresh processor is constructed per
// ingestion run so per-run caches never leak across runs.
type Pipeline struct {
	Name     string
	Prefix   string
	Function string
	Queue    string
	Timeout  time.Duration
	// Schedule is the default cron expression for identification passes.
	Schedule     string
	NewProcessor func(ctx context.Context) (Processor, error)
}
