package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jgrantham/inlet/internal/domain"
)

type postcodeRepository struct {
	pool *pgxpool.Pool
}

// NewPostcodeRepository wires a postcode repository backed by pgxpool.
func NewPostcodeRepository(pool *pgxpool.Pool) PostcodeRepository {
	return &postcodeRepository{pool: pool}
}

func (r *postcodeRepository) ExistingPostcodes(ctx context.Context) (map[string]struct{}, error) {
	rows, err := r.pool.Query(ctx, `SELECT postcode FROM postcodes`)
	if err != nil {
		return nil, fmt.Errorf("failed to list postcodes: %w", err)
	}
	defer rows.Close()

	codes := make(map[string]struct{})
	for rows.Next() {
		var code string
		if scanErr := rows.Scan(&code); scanErr != nil {
			return nil, fmt.Errorf("failed to scan postcode: %w", scanErr)
		}
		codes[code] = struct{}{}
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("failed to iterate postcodes: %w", rowsErr)
	}
	return codes, nil
}

func (r *postcodeRepository) Upsert(ctx context.Context, postcode domain.Postcode) (domain.Postcode, bool, error) {
	if postcode.ID == uuid.Nil {
		postcode.ID = uuid.New()
	}

	var created bool
	err := r.pool.QueryRow(
		ctx,
		`INSERT INTO postcodes (id, postcode, region, district, latitude, longitude, modified_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (postcode) DO UPDATE SET
		   region = EXCLUDED.region,
		   district = EXCLUDED.district,
		   latitude = EXCLUDED.latitude,
		   longitude = EXCLUDED.longitude,
		   modified_at = EXCLUDED.modified_at,
		   updated_at = now()
		 RETURNING id, (xmax = 0)`,
		postcode.ID,
		postcode.Postcode,
		postcode.Region,
		postcode.District,
		postcode.Latitude,
		postcode.Longitude,
		postcode.ModifiedAt,
	).Scan(&postcode.ID, &created)
	if err != nil {
		return domain.Postcode{}, false, fmt.Errorf("failed to upsert postcode %s: %w", postcode.Postcode, err)
	}
	return postcode, created, nil
}
