package domain

import (
	"time"

	"github.com/google/uuid"
)

// Lead is an investment lead sourced from the triage export. TriageID is
// the upstream identity the upsert keys on.
type Lead struct {
	ID          uuid.UUID `json:"id"`
	TriageID    string    `json:"triage_id"`
	CompanyName string    `json:"company_name"`
	Sector      string    `json:"sector"`
	Location    string    `json:"location"`
	Email       string    `json:"email"`
	ModifiedAt  time.Time `json:"modified_at"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Postcode is one row of the postcode reference dataset, upserted by the
// postcode string itself.
type Postcode struct {
	ID         uuid.UUID `json:"id"`
	Postcode   string    `json:"postcode"`
	Region     string    `json:"region"`
	District   string    `json:"district"`
	Latitude   *float64  `json:"latitude,omitempty"`
	Longitude  *float64  `json:"longitude,omitempty"`
	ModifiedAt time.Time `json:"modified_at"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
