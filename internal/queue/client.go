// Package queue implements the shared Postgres-backed job queue: enqueue,
// read-side inspection, and the worker claim loop. Inspection is
// best-effort de-duplication only; the delivery contract is at-least-once
// and duplicate ingestion runs are cheap no-ops for the callers.
package queue

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jgrantham/inlet/internal/domain"
)

// Client enqueues jobs onto a named queue.
type Client struct {
	pool *pgxpool.Pool
}

// NewClient wires a queue client backed by pgxpool.
func NewClient(pool *pgxpool.Pool) *Client {
	return &Client{pool: pool}
}

// Params describes a job to enqueue.
type Params struct {
	Queue       string
	Function    string
	ObjectKey   string
	Description string
	Timeout     time.Duration
}

// Enqueue appends a pending job to the queue.
func (c *Client) Enqueue(ctx context.Context, params Params) (domain.Job, error) {
	job := domain.NewJob(params.Queue, params.Function, params.ObjectKey, params.Description, params.Timeout)

	_, err := c.pool.Exec(
		ctx,
		`INSERT INTO jobs (id, queue, function, object_key, description, timeout_seconds, status, enqueued_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		job.ID,
		job.Queue,
		job.Function,
		job.ObjectKey,
		job.Description,
		int(job.Timeout.Seconds()),
		job.Status,
		job.EnqueuedAt,
	)
	if err != nil {
		return domain.Job{}, fmt.Errorf("failed to enqueue job: %w", err)
	}
	return job, nil
}
