package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jgrantham/inlet/internal/domain"
)

type eventRepository struct {
	pool *pgxpool.Pool
}

// NewEventRepository wires an event repository backed by pgxpool.
func NewEventRepository(pool *pgxpool.Pool) EventRepository {
	return &eventRepository{pool: pool}
}

// Upsert inserts or refreshes an event by source id. The returned bool is
// true when a new row was created.
func (r *eventRepository) Upsert(ctx context.Context, event domain.Event) (domain.Event, bool, error) {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}

	var created bool
	err := r.pool.QueryRow(
		ctx,
		`INSERT INTO events (id, source_id, name, description, city, country, start_date, end_date, modified_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 ON CONFLICT (source_id) DO UPDATE SET
		   name = EXCLUDED.name,
		   description = EXCLUDED.description,
		   city = EXCLUDED.city,
		   country = EXCLUDED.country,
		   start_date = EXCLUDED.start_date,
		   end_date = EXCLUDED.end_date,
		   modified_at = EXCLUDED.modified_at,
		   updated_at = now()
		 RETURNING id, (xmax = 0)`,
		event.ID,
		event.SourceID,
		event.Name,
		event.Description,
		event.City,
		event.Country,
		event.StartDate,
		event.EndDate,
		event.ModifiedAt,
	).Scan(&event.ID, &created)
	if err != nil {
		return domain.Event{}, false, fmt.Errorf("failed to upsert event %d: %w", event.SourceID, err)
	}
	return event, created, nil
}
