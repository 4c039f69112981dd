package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jgrantham/inlet/internal/domain"
)

type leadRepository struct {
	pool *pgxpool.Pool
}

// NewLeadRepository wires a lead repository backed by pgxpool.
func NewLeadRepository(pool *pgxpool.Pool) LeadRepository {
	return &leadRepository{pool: pool}
}

func (r *leadRepository) ExistingTriageIDs(ctx context.Context) (map[string]struct{}, error) {
	rows, err := r.pool.Query(ctx, `SELECT triage_id FROM leads`)
	if err != nil {
		return nil, fmt.Errorf("failed to list triage ids: %w", err)
	}
	defer rows.Close()

	ids := make(map[string]struct{})
	for rows.Next() {
		var id string
		if scanErr := rows.Scan(&id); scanErr != nil {
			return nil, fmt.Errorf("failed to scan triage id: %w", scanErr)
		}
		ids[id] = struct{}{}
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("failed to iterate triage ids: %w", rowsErr)
	}
	return ids, nil
}

func (r *leadRepository) Upsert(ctx context.Context, lead domain.Lead) (domain.Lead, bool, error) {
	if lead.ID == uuid.Nil {
		lead.ID = uuid.New()
	}

	var created bool
	err := r.pool.QueryRow(
		ctx,
		`INSERT INTO leads (id, triage_id, company_name, sector, location, email, modified_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (triage_id) DO UPDATE SET
		   company_name = EXCLUDED.company_name,
		   sector = EXCLUDED.sector,
		   location = EXCLUDED.location,
		   email = EXCLUDED.email,
		   modified_at = EXCLUDED.modified_at,
		   updated_at = now()
		 RETURNING id, (xmax = 0)`,
		lead.ID,
		lead.TriageID,
		lead.CompanyName,
		lead.Sector,
		lead.Location,
		lead.Email,
		lead.ModifiedAt,
	).Scan(&lead.ID, &created)
	if err != nil {
		return domain.Lead{}, false, fmt.Errorf("failed to upsert lead %s: %w", lead.TriageID, err)
	}
	return lead, created, nil
}
