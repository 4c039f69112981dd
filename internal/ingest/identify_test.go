package ingest

import (
	"context"
	"testing"
	"time"

	"github.com/jgrantham/inlet/internal/domain"
	"github.com/jgrantham/inlet/internal/queue"
)

type stubInspector struct {
	queued  bool
	running bool
}

func (s *stubInspector) IsQueued(ctx context.Context, function, objectKey string) (bool, error) {
	return s.queued, nil
}

func (s *stubInspector) IsRunning(ctx context.Context, function, objectKey string) (bool, error) {
	return s.running, nil
}

type stubEnqueuer struct {
	enqueued []queue.Params
}

func (s *stubEnqueuer) Enqueue(ctx context.Context, params queue.Params) (domain.Job, error) {
	s.enqueued = append(s.enqueued, params)
	return domain.NewJob(params.Queue, params.Function, params.ObjectKey, params.Description, params.Timeout), nil
}

func TestIdentifyNewObjectsSchedulesMostRecent(t *testing.T) {
	gateway := &stubGateway{mostRecentKey: "data-flow/exports/events/export-9.jsonl"}
	enqueuer := &stubEnqueuer{}
	identifier := NewIdentifier(gateway, &stubInspector{}, enqueuer, newStubLedger())

	pipeline := testPipeline()
	if err := identifier.IdentifyNewObjects(context.Background(), pipeline); err != nil {
		t.Fatalf("IdentifyNewObjects returned error: %v", err)
	}

	if len(enqueuer.enqueued) != 1 {
		t.Fatalf("expected 1 job enqueued, got %d", len(enqueuer.enqueued))
	}
	params := enqueuer.enqueued[0]
	if params.ObjectKey != "data-flow/exports/events/export-9.jsonl" {
		t.Errorf("unexpected object key %q", params.ObjectKey)
	}
	if params.Function != pipeline.Function || params.Queue != pipeline.Queue {
		t.Errorf("job not bound to pipeline: %+v", params)
	}
	if params.Timeout != time.Minute {
		t.Errorf("expected pipeline timeout on job, got %v", params.Timeout)
	}
}

func TestIdentifyNewObjectsNoObjects(t *testing.T) {
	enqueuer := &stubEnqueuer{}
	identifier := NewIdentifier(&stubGateway{}, &stubInspector{}, enqueuer, newStubLedger())

	if err := identifier.IdentifyNewObjects(context.Background(), testPipeline()); err != nil {
		t.Fatalf("IdentifyNewObjects returned error: %v", err)
	}
	if len(enqueuer.enqueued) != 0 {
		t.Errorf("expected no job for an empty prefix, got %d", len(enqueuer.enqueued))
	}
}

func TestIdentifyNewObjectsAlreadyQueued(t *testing.T) {
	gateway := &stubGateway{mostRecentKey: "data-flow/exports/events/export-9.jsonl"}
	enqueuer := &stubEnqueuer{}
	identifier := NewIdentifier(gateway, &stubInspector{queued: true}, enqueuer, newStubLedger())

	if err := identifier.IdentifyNewObjects(context.Background(), testPipeline()); err != nil {
		t.Fatalf("IdentifyNewObjects returned error: %v", err)
	}
	if len(enqueuer.enqueued) != 0 {
		t.Errorf("expected no job while one is queued, got %d", len(enqueuer.enqueued))
	}
}

func TestIdentifyNewObjectsAlreadyRunning(t *testing.T) {
	gateway := &stubGateway{mostRecentKey: "data-flow/exports/events/export-9.jsonl"}
	enqueuer := &stubEnqueuer{}
	identifier := NewIdentifier(gateway, &stubInspector{running: true}, enqueuer, newStubLedger())

	if err := identifier.IdentifyNewObjects(context.Background(), testPipeline()); err != nil {
		t.Fatalf("IdentifyNewObjects returned error: %v", err)
	}
	if len(enqueuer.enqueued) != 0 {
		t.Errorf("expected no job while one is running, got %d", len(enqueuer.enqueued))
	}
}

func TestIdentifyNewObjectsAlreadyIngested(t *testing.T) {
	key := "data-flow/exports/events/export-9.jsonl"
	gateway := &stubGateway{mostRecentKey: key}
	ledger := newStubLedger()
	ledger.ingested[key] = time.Now()
	enqueuer := &stubEnqueuer{}
	identifier := NewIdentifier(gateway, &stubInspector{}, enqueuer, ledger)

	if err := identifier.IdentifyNewObjects(context.Background(), testPipeline()); err != nil {
		t.Fatalf("IdentifyNewObjects returned error: %v", err)
	}
	if len(enqueuer.enqueued) != 0 {
		t.Errorf("expected no job for an ingested object, got %d", len(enqueuer.enqueued))
	}
}
