package repository

import (
	"context"
	"time"

	"github.com/jgrantham/inlet/internal/domain"
)

// IngestedObjectRepository is the durable ledger of completed ingestions.
// Rows are append-only; the maximum object_modified_at under a prefix is
// that prefix's freshness watermark.
type IngestedObjectRepository interface {
	// HasBeenIngested reports whether this exact object key has a ledger row.
	HasBeenIngested(ctx context.Context, objectKey string) (bool, error)
	// LatestWatermark returns the maximum object_modified_at among rows
	// whose object_key contains prefix, or nil when no rows match.
	LatestWatermark(ctx context.Context, prefix string) (*time.Time, error)
	// RecordIngestion appends a ledger row for a fully processed object.
	RecordIngestion(ctx context.Context, objectKey string, modifiedAt time.Time) error
	// DeleteByPrefix removes ledger rows under a prefix so the next
	// identification pass re-ingests everything there.
	DeleteByPrefix(ctx context.Context, prefix string) (int64, error)
	// ListRecent returns the most recently recorded rows under a prefix.
	ListRecent(ctx context.Context, prefix string, limit int) ([]domain.IngestedObject, error)
}

// EventRepository upserts sourced events keyed by their upstream id.
type EventRepository interface {
	Upsert(ctx context.Context, event domain.Event) (domain.Event, bool, error)
}

// AttendeeRepository upserts sourced attendees keyed by their upstream id.
type AttendeeRepository interface {
	Upsert(ctx context.Context, attendee domain.Attendee) (domain.Attendee, bool, error)
}

// LeadRepository upserts investment leads keyed by triage id.
type LeadRepository interface {
	// ExistingTriageIDs returns every stored triage id, used by the lead
	// processor's per-run cache.
	ExistingTriageIDs(ctx context.Context) (map[string]struct{}, error)
	Upsert(ctx context.Context, lead domain.Lead) (domain.Lead, bool, error)
}

// PostcodeRepository upserts postcode reference rows keyed by postcode.
type PostcodeRepository interface {
	ExistingPostcodes(ctx context.Context) (map[string]struct{}, error)
	Upsert(ctx context.Context, postcode domain.Postcode) (domain.Postcode, bool, error)
}
