package ingest

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jgrantham/inlet/internal/domain"
)

// Processor is the pluggable per-pipeline record capability. ExtractRecord
// unwraps the logical record from a deserialized line, ModifiedTimestamp
// locates the record's own last-modified value for the freshness filter,
// and Process validates and upserts one eligible record.
type Processor interface {
	ExtractRecord(line map[string]any) map[string]any
	ModifiedTimestamp(record map[string]any) (string, error)
	Process(ctx context.Context, record map[string]any) (domain.Outcome, error)
}

// BaseSource supplies the default extraction hooks: the line is the
// record, and the modified timestamp lives in a "modified" field. Embed it
// and override either method as the pipeline's export format requires.
type BaseSource struct{}

func (BaseSource) ExtractRecord(line map[string]any) map[string]any {
	return line
}

func (BaseSource) ModifiedTimestamp(record map[string]any) (string, error) {
	return StringField(record, "modified")
}

// EnvelopeSource unwraps records nested under a single envelope key, as
// some upstream exports produce.
type EnvelopeSource struct {
	Key string
}

func (s EnvelopeSource) ExtractRecord(line map[string]any) map[string]any {
	if nested, ok := line[s.Key].(map[string]any); ok {
		return nested
	}
	return line
}

func (s EnvelopeSource) ModifiedTimestamp(record map[string]any) (string, error) {
	return StringField(record, "modified")
}

// StringField reads a string-valued field from a record.
func StringField(record map[string]any, field string) (string, error) {
	value, ok := record[field]
	if !ok {
		return "", fmt.Errorf("record has no %q field", field)
	}
	s, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("record field %q is not a string", field)
	}
	return s, nil
}

// timestampLayouts covers the formats seen across upstream exports; tried
// in order.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTimestamp parses a record timestamp using the known layouts.
func ParseTimestamp(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp format %q", raw)
}

// Accumulator gathers the per-run outcome tallies. It lives for one
// ingestion run and is discarded after the summary log is emitted.
type Accumulator struct {
	CreatedIDs []string
	UpdatedIDs []string
	Errors     []domain.RecordError
	Skipped    int
}

func (a *Accumulator) apply(record map[string]any, outcome domain.Outcome) {
	switch outcome.Kind {
	case domain.OutcomeCreated:
		a.CreatedIDs = append(a.CreatedIDs, outcome.ID)
	case domain.OutcomeUpdated:
		a.UpdatedIDs = append(a.UpdatedIDs, outcome.ID)
	case domain.OutcomeRejected:
		a.Errors = append(a.Errors, domain.RecordError{Record: record, Errors: outcome.Errors})
	}
}
