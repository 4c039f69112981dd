package domain

import (
	"time"

	"github.com/google/uuid"
)

// Event is an externally sourced event record, upserted by SourceID.
type Event struct {
	ID          uuid.UUID  `json:"id"`
	SourceID    int64      `json:"source_id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	City        string     `json:"city"`
	Country     string     `json:"country"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	ModifiedAt  time.Time  `json:"modified_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Attendee is a person registered against a sourced event, upserted by
// SourceID.
type Attendee struct {
	ID            uuid.UUID `json:"id"`
	SourceID      int64     `json:"source_id"`
	SourceEventID int64     `json:"source_event_id"`
	Email         string    `json:"email"`
	FirstName     string    `json:"first_name"`
	LastName      string    `json:"last_name"`
	Company       string    `json:"company"`
	ModifiedAt    time.Time `json:"modified_at"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
