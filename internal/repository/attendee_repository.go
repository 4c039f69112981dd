package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jgrantham/inlet/internal/domain"
)

type attendeeRepository struct {
	pool *pgxpool.Pool
}

// NewAttendeeRepository wires an attendee repository backed by pgxpool.
func NewAttendeeRepository(pool *pgxpool.Pool) AttendeeRepository {
	return &attendeeRepository{pool: pool}
}

func (r *attendeeRepository) Upsert(ctx context.Context, attendee domain.Attendee) (domain.Attendee, bool, error) {
	if attendee.ID == uuid.Nil {
		attendee.ID = uuid.New()
	}

	var created bool
	err := r.pool.QueryRow(
		ctx,
		`INSERT INTO attendees (id, source_id, source_event_id, email, first_name, last_name, company, modified_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (source_id) DO UPDATE SET
		   source_event_id = EXCLUDED.source_event_id,
		   email = EXCLUDED.email,
		   first_name = EXCLUDED.first_name,
		   last_name = EXCLUDED.last_name,
		   company = EXCLUDED.company,
		   modified_at = EXCLUDED.modified_at,
		   updated_at = now()
		 RETURNING id, (xmax = 0)`,
		attendee.ID,
		attendee.SourceID,
		attendee.SourceEventID,
		attendee.Email,
		attendee.FirstName,
		attendee.LastName,
		attendee.Company,
		attendee.ModifiedAt,
	).Scan(&attendee.ID, &created)
	if err != nil {
		return domain.Attendee{}, false, fmt.Errorf("failed to upsert attendee %d: %w", attendee.SourceID, err)
	}
	return attendee, created, nil
}
