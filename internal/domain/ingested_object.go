package domain

import (
	"time"

	"github.com/google/uuid"
)

// IngestedObject is one row of the append-only ingestion ledger. A row is
// written only after an object has been fully streamed and processed; the
// maximum ObjectModifiedAt under a prefix is that prefix's watermark.
type IngestedObject struct {
	ID               uuid.UUID `json:"id"`
	ObjectKey        string    `json:"object_key"`
	ObjectModifiedAt time.Time `json:"object_modified_at"`
	RecordedAt       time.Time `json:"recorded_at"`
}

// NewIngestedObject creates a ledger row for a completed ingestion run.
func NewIngestedObject(objectKey string, objectModifiedAt time.Time) IngestedObject {
	return IngestedObject{
		ID:               uuid.New(),
		ObjectKey:        objectKey,
		ObjectModifiedAt: objectModifiedAt,
		RecordedAt:       time.Now(),
	}
}
