package queue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jgrantham/inlet/internal/domain"
)

// Handler executes one claimed job. The context carries the job's
// execution timeout; a handler that outlives it is abandoned and the job
// recorded as failed.
type Handler func(ctx context.Context, objectKey string) error

// Worker claims pending jobs from one queue and dispatches them to
// registered handlers. Claims use FOR UPDATE SKIP LOCKED so any number of
// worker processes can share the queue.
type Worker struct {
	pool         *pgxpool.Pool
	queue        string
	pollInterval time.Duration
	concurrency  int
	workerID     string

	mu       sync.RWMutex
	handlers map[string]Handler
}

// NewWorker creates a worker for the named queue.
func NewWorker(pool *pgxpool.Pool, queue string, pollInterval time.Duration, concurrency int) *Worker {
	if pollInterval <= 0 {
		pollInterval = 5 * time.Second
	}
	if concurrency <= 0 {
		concurrency = 1
	}
	hostname, _ := os.Hostname()
	return &Worker{
		pool:         pool,
		queue:        queue,
		pollInterval: pollInterval,
		concurrency:  concurrency,
		workerID:     fmt.Sprintf("%s-%s", hostname, uuid.New().String()[:8]),
		handlers:     make(map[string]Handler),
	}
}

// Register binds a function name to its handler. Jobs naming an
// unregistered function are marked failed.
func (w *Worker) Register(function string, handler Handler) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.handlers[function] = handler
}

// Run blocks, claiming and executing jobs until ctx is cancelled. Jobs
// already running are allowed to finish (or hit their own timeout).
func (w *Worker) Run(ctx context.Context) {
	slog.Info("worker started", "worker_id", w.workerID, "queue", w.queue, "concurrency", w.concurrency)

	var wg sync.WaitGroup
	for i := 0; i < w.concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w.claimLoop(ctx)
		}()
	}
	wg.Wait()
	slog.Info("worker stopped", "worker_id", w.workerID)
}

func (w *Worker) claimLoop(ctx context.Context) {
	for {
		job, ok, err := w.claim(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			slog.Error("failed to claim job", "worker_id", w.workerID, "error", err)
		}
		if ok {
			w.execute(ctx, job)
			continue
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(w.pollInterval):
		}
	}
}

// claim atomically moves the oldest pending job on the queue to running.
func (w *Worker) claim(ctx context.Context) (domain.Job, bool, error) {
	var (
		job            domain.Job
		timeoutSeconds int
	)
	err := w.pool.QueryRow(
		ctx,
		`UPDATE jobs SET status = $1, started_at = now(), worker_id = $2
		 WHERE id = (
		   SELECT id FROM jobs
		   WHERE queue = $3 AND status = $4
		   ORDER BY enqueued_at
		   FOR UPDATE SKIP LOCKED
		   LIMIT 1
		 )
		 RETURNING id, function, object_key, description, timeout_seconds`,
		domain.JobStatusRunning,
		w.workerID,
		w.queue,
		domain.JobStatusPending,
	).Scan(&job.ID, &job.Function, &job.ObjectKey, &job.Description, &timeoutSeconds)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Job{}, false, nil
		}
		return domain.Job{}, false, fmt.Errorf("failed to claim job: %w", err)
	}

	job.Queue = w.queue
	job.Status = domain.JobStatusRunning
	job.Timeout = time.Duration(timeoutSeconds) * time.Second
	return job, true, nil
}

func (w *Worker) execute(ctx context.Context, job domain.Job) {
	w.mu.RLock()
	handler, ok := w.handlers[job.Function]
	w.mu.RUnlock()

	if !ok {
		err := fmt.Errorf("no handler registered for %s", job.Function)
		slog.Error("job dispatch failed", "job_id", job.ID, "function", job.Function, "error", err)
		w.finish(job, domain.JobStatusFailed, err.Error())
		return
	}

	slog.Info("job started", "job_id", job.ID, "function", job.Function, "object_key", job.ObjectKey, "worker_id", w.workerID)

	jobCtx := ctx
	cancel := context.CancelFunc(func() {})
	if job.Timeout > 0 {
		jobCtx, cancel = context.WithTimeout(ctx, job.Timeout)
	}
	err := handler(jobCtx, job.ObjectKey)
	cancel()

	if err != nil {
		slog.Error("job failed", "job_id", job.ID, "function", job.Function, "object_key", job.ObjectKey, "error", err)
		w.finish(job, domain.JobStatusFailed, err.Error())
		return
	}

	slog.Info("job completed", "job_id", job.ID, "function", job.Function, "object_key", job.ObjectKey)
	w.finish(job, domain.JobStatusCompleted, "")
}

// finish records the terminal status. It deliberately ignores the run
// context so a cancelled worker can still persist the result.
func (w *Worker) finish(job domain.Job, status domain.JobStatus, errMsg string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := w.pool.Exec(
		ctx,
		`UPDATE jobs SET status = $1, error = $2, finished_at = now() WHERE id = $3`,
		status,
		errMsg,
		job.ID,
	)
	if err != nil {
		slog.Error("failed to record job result", "job_id", job.ID, "status", status, "error", err)
	}
}
