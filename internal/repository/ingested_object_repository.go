package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jgrantham/inlet/internal/domain"
)

type ingestedObjectRepository struct {
	pool *pgxpool.Pool
}

// NewIngestedObjectRepository wires a ledger repository backed by pgxpool.
func NewIngestedObjectRepository(pool *pgxpool.Pool) IngestedObjectRepository {
	return &ingestedObjectRepository{pool: pool}
}

func (r *ingestedObjectRepository) HasBeenIngested(ctx context.Context, objectKey string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(
		ctx,
		`SELECT EXISTS(SELECT 1 FROM ingested_objects WHERE object_key = $1)`,
		objectKey,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check ingested object: %w", err)
	}
	return exists, nil
}

func (r *ingestedObjectRepository) LatestWatermark(ctx context.Context, prefix string) (*time.Time, error) {
	var watermark pgtype.Timestamptz
	err := r.pool.QueryRow(
		ctx,
		`SELECT MAX(object_modified_at) FROM ingested_objects WHERE object_key LIKE '%' || $1 || '%'`,
		prefix,
	).Scan(&watermark)
	if err != nil {
		return nil, fmt.Errorf("failed to query watermark: %w", err)
	}
	if !watermark.Valid {
		return nil, nil
	}
	ts := watermark.Time
	return &ts, nil
}

func (r *ingestedObjectRepository) RecordIngestion(ctx context.Context, objectKey string, modifiedAt time.Time) error {
	obj := domain.NewIngestedObject(objectKey, modifiedAt)
	_, err := r.pool.Exec(
		ctx,
		`INSERT INTO ingested_objects (id, object_key, object_modified_at, recorded_at)
		 VALUES ($1, $2, $3, $4)`,
		obj.ID,
		obj.ObjectKey,
		obj.ObjectModifiedAt,
		obj.RecordedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record ingestion: %w", err)
	}
	return nil
}

func (r *ingestedObjectRepository) DeleteByPrefix(ctx context.Context, prefix string) (int64, error) {
	tag, err := r.pool.Exec(
		ctx,
		`DELETE FROM ingested_objects WHERE object_key LIKE $1 || '%'`,
		prefix,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to delete ledger rows: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *ingestedObjectRepository) ListRecent(ctx context.Context, prefix string, limit int) ([]domain.IngestedObject, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.pool.Query(
		ctx,
		`SELECT id, object_key, object_modified_at, recorded_at
		 FROM ingested_objects
		 WHERE object_key LIKE $1 || '%'
		 ORDER BY recorded_at DESC
		 LIMIT $2`,
		prefix,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list ingested objects: %w", err)
	}
	defer rows.Close()

	objects := []domain.IngestedObject{}
	for rows.Next() {
		var obj domain.IngestedObject
		if scanErr := rows.Scan(&obj.ID, &obj.ObjectKey, &obj.ObjectModifiedAt, &obj.RecordedAt); scanErr != nil {
			return nil, fmt.Errorf("failed to scan ingested object: %w", scanErr)
		}
		objects = append(objects, obj)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("failed to iterate ingested objects: %w", rowsErr)
	}

	return objects, nil
}
