package domain

import (
	"time"

	"github.com/google/uuid"
)

// JobStatus is the lifecycle state of a queued job.
type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
)

// Job is one unit of work on the shared queue. Function names the
// registered handler; ObjectKey is the object it should ingest.
type Job struct {
	ID          uuid.UUID     `json:"id"`
	Queue       string        `json:"queue"`
	Function    string        `json:"function"`
	ObjectKey   string        `json:"object_key"`
	Description string        `json:"description"`
	Timeout     time.Duration `json:"timeout"`
	Status      JobStatus     `json:"status"`
	Error       string        `json:"error,omitempty"`
	WorkerID    string        `json:"worker_id,omitempty"`
	EnqueuedAt  time.Time     `json:"enqueued_at"`
	StartedAt   *time.Time    `json:"started_at,omitempty"`
	FinishedAt  *time.Time    `json:"finished_at,omitempty"`
}

// NewJob creates a pending job.
func NewJob(queue, function, objectKey, description string, timeout time.Duration) Job {
	return Job{
		ID:          uuid.New(),
		Queue:       queue,
		Function:    function,
		ObjectKey:   objectKey,
		Description: description,
		Timeout:     timeout,
		Status:      JobStatusPending,
		EnqueuedAt:  time.Now(),
	}
}
