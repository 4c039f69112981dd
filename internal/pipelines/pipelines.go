// Package pipelines defines the concrete ingestion pipelines: which
// prefix each one watches, how its records are unwrapped and dated, and
// how eligible records are validated and upserted.
package pipelines

import (
	"fmt"
	"time"

	"github.com/jgrantham/inlet/internal/ingest"
	"github.com/jgrantham/inlet/internal/repository"
)

// Repositories bundles the upsert targets the pipelines write to.
type Repositories struct {
	Events    repository.EventRepository
	Attendees repository.AttendeeRepository
	Leads     repository.LeadRepository
	Postcodes repository.PostcodeRepository
}

// All returns every pipeline, bound to queueName for job scheduling.
func All(repos Repositories, queueName string) []ingest.Pipeline {
	return []ingest.Pipeline{
		Events(repos.Events, queueName),
		Attendees(repos.Attendees, queueName),
		Leads(repos.Leads, queueName),
		Postcodes(repos.Postcodes, queueName),
	}
}

// field helpers: exported record values arrive as JSON types, so numbers
// are float64 and ids need explicit coercion.

func stringField(record map[string]any, field string) string {
	s, _ := record[field].(string)
	return s
}

func intField(record map[string]any, field string) (int64, error) {
	value, ok := record[field]
	if !ok {
		return 0, fmt.Errorf("missing %q", field)
	}
	f, ok := value.(float64)
	if !ok {
		return 0, fmt.Errorf("%q is not a number", field)
	}
	return int64(f), nil
}

func floatField(record map[string]any, field string) *float64 {
	if f, ok := record[field].(float64); ok {
		return &f
	}
	return nil
}

func timeField(record map[string]any, field string) *time.Time {
	raw, ok := record[field].(string)
	if !ok || raw == "" {
		return nil
	}
	ts, err := ingest.ParseTimestamp(raw)
	if err != nil {
		return nil
	}
	return &ts
}

// modifiedAtOrNow resolves the record's own modified time for persistence,
// falling back to the ingestion time when absent or unparsable.
func modifiedAtOrNow(record map[string]any, field string) time.Time {
	if ts := timeField(record, field); ts != nil {
		return *ts
	}
	return time.Now()
}
