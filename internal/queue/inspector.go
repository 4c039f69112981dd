package queue

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jgrantham/inlet/internal/domain"
)

// Inspector answers read-only questions about queue state. A job matches
// when its function name and object key both equal the supplied values
// exactly; no normalization is applied.
type Inspector struct {
	pool *pgxpool.Pool
}

// NewInspector wires an inspector backed by pgxpool.
func NewInspector(pool *pgxpool.Pool) *Inspector {
	return &Inspector{pool: pool}
}

// IsQueued reports whether a pending job targets function with objectKey.
func (i *Inspector) IsQueued(ctx context.Context, function, objectKey string) (bool, error) {
	return i.matchExists(ctx, function, objectKey, domain.JobStatusPending)
}

// IsRunning reports whether any worker is currently executing a job
// targeting function with objectKey.
func (i *Inspector) IsRunning(ctx context.Context, function, objectKey string) (bool, error) {
	return i.matchExists(ctx, function, objectKey, domain.JobStatusRunning)
}

func (i *Inspector) matchExists(ctx context.Context, function, objectKey string, status domain.JobStatus) (bool, error) {
	var exists bool
	err := i.pool.QueryRow(
		ctx,
		`SELECT EXISTS(
		   SELECT 1 FROM jobs
		   WHERE function = $1 AND object_key = $2 AND status = $3
		 )`,
		function,
		objectKey,
		status,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to inspect queue for %s: %w", function, err)
	}
	return exists, nil
}
