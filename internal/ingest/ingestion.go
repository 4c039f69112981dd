package ingest

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/jgrantham/inlet/internal/domain"
	"github.com/jgrantham/inlet/internal/metrics"
)

// maxLineBytes bounds a single record line; upstream exports stay well
// under this.
const maxLineBytes = 1 << 20

// Ingestion processes one identified object end to end: stream its
// newline-delimited JSON records, filter them by freshness against the
// prefix watermark, delegate eligible records to the pipeline's processor,
// and on full consumption record the object in the ledger.
type Ingestion struct {
	pipeline  string
	objectKey string
	gateway   ObjectGateway
	ledger    Ledger
	processor Processor
	collector *metrics.Collector

	// watermark is snapshotted once at construction so every record in the
	// run is filtered against the same cutoff.
	watermark *time.Time
	acc       Accumulator
}

// NewIngestion builds an ingestion run for objectKey. The prefix watermark
// is queried here, once; a failing watermark query fails construction.
// collector may be nil.
func NewIngestion(
	ctx context.Context,
	pipeline Pipeline,
	objectKey string,
	gateway ObjectGateway,
	ledger Ledger,
	processor Processor,
	collector *metrics.Collector,
) (*Ingestion, error) {
	watermark, err := ledger.LatestWatermark(ctx, pipeline.Prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to load watermark for %s: %w", pipeline.Prefix, err)
	}
	return &Ingestion{
		pipeline:  pipeline.Name,
		objectKey: objectKey,
		gateway:   gateway,
		ledger:    ledger,
		processor: processor,
		collector: collector,
		watermark: watermark,
	}, nil
}

// Result exposes the run's accumulated outcomes.
func (t *Ingestion) Result() Accumulator {
	return t.acc
}

// IngestObject streams and processes every record in the object. If the
// stream cannot be opened or fails mid-read, the error propagates and no
// ledger row is written: an unfinished run must never look ingested, or
// later freshness filtering would skip records that were never processed.
func (t *Ingestion) IngestObject(ctx context.Context) error {
	stream, err := t.gateway.Open(ctx, t.objectKey)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", t.objectKey, err)
	}
	defer stream.Close()

	scanner := bufio.NewScanner(stream)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)

	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var decoded map[string]any
		if err := json.Unmarshal(line, &decoded); err != nil {
			t.acc.Errors = append(t.acc.Errors, domain.RecordError{
				Record: map[string]any{"line_number": lineNumber, "raw": string(line)},
				Errors: []string{fmt.Sprintf("invalid json: %v", err)},
			})
			continue
		}

		record := t.processor.ExtractRecord(decoded)
		if !t.shouldProcess(record) {
			t.acc.Skipped++
			continue
		}

		outcome, err := t.processor.Process(ctx, record)
		if err != nil {
			return fmt.Errorf("failed to process record %d of %s: %w", lineNumber, t.objectKey, err)
		}
		t.acc.apply(record, outcome)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read %s: %w", t.objectKey, err)
	}

	modifiedAt, err := t.gateway.LastModified(ctx, t.objectKey)
	if err != nil {
		return fmt.Errorf("failed to stat %s after ingestion: %w", t.objectKey, err)
	}
	if err := t.ledger.RecordIngestion(ctx, t.objectKey, modifiedAt); err != nil {
		return fmt.Errorf("failed to record ingestion of %s: %w", t.objectKey, err)
	}

	t.logSummary()
	if t.collector != nil {
		t.collector.ObserveRun(t.pipeline, len(t.acc.CreatedIDs), len(t.acc.UpdatedIDs), t.acc.Skipped, len(t.acc.Errors))
	}
	return nil
}

// shouldProcess applies the freshness filter. No watermark means a first
// ingestion for the prefix, so everything is eligible. A record whose
// modified timestamp cannot be located or parsed is processed anyway:
// a redundant upsert is cheaper than silently dropping data.
func (t *Ingestion) shouldProcess(record map[string]any) bool {
	if t.watermark == nil {
		return true
	}

	raw, err := t.processor.ModifiedTimestamp(record)
	if err != nil {
		slog.Warn("could not determine record modified timestamp", "pipeline", t.pipeline, "object_key", t.objectKey, "error", err)
		return true
	}
	modifiedAt, err := ParseTimestamp(raw)
	if err != nil {
		slog.Warn("could not parse record modified timestamp", "pipeline", t.pipeline, "object_key", t.objectKey, "error", err)
		return true
	}

	// Inclusive so a record modified at the watermark instant is kept.
	return !modifiedAt.Before(*t.watermark)
}

func (t *Ingestion) logSummary() {
	slog.Info("object ingested", "pipeline", t.pipeline, "object_key", t.objectKey)
	if len(t.acc.CreatedIDs) > 0 {
		slog.Info("records created", "pipeline", t.pipeline, "count", len(t.acc.CreatedIDs), "ids", t.acc.CreatedIDs)
	}
	if len(t.acc.UpdatedIDs) > 0 {
		slog.Info("records updated", "pipeline", t.pipeline, "count", len(t.acc.UpdatedIDs), "ids", t.acc.UpdatedIDs)
	}
	if len(t.acc.Errors) > 0 {
		slog.Warn("records failed validation", "pipeline", t.pipeline, "count", len(t.acc.Errors), "errors", t.acc.Errors)
	}
	slog.Info("records skipped", "pipeline", t.pipeline, "count", t.acc.Skipped)
}
