package pipelines

import (
	"context"
	"fmt"
	"time"

	"github.com/jgrantham/inlet/internal/domain"
	"github.com/jgrantham/inlet/internal/ingest"
	"github.com/jgrantham/inlet/internal/repository"
)

const (
	eventsPrefix   = "data-flow/exports/events/"
	eventsFunction = "pipelines.ingest_events"
)

// Events ingests the hourly events export. Records carry their modified
// time in a "modified_date" field rather than the default "modified".
func Events(repo repository.EventRepository, queueName string) ingest.Pipeline {
	return ingest.Pipeline{
		Name:     "events",
		Prefix:   eventsPrefix,
		Function: eventsFunction,
		Queue:    queueName,
		Timeout:  30 * time.Minute,
		Schedule: "5 * * * *",
		NewProcessor: func(ctx context.Context) (ingest.Processor, error) {
			return &eventProcessor{repo: repo}, nil
		},
	}
}

type eventProcessor struct {
	ingest.BaseSource
	repo repository.EventRepository
}

func (p *eventProcessor) ModifiedTimestamp(record map[string]any) (string, error) {
	return ingest.StringField(record, "modified_date")
}

func (p *eventProcessor) Process(ctx context.Context, record map[string]any) (domain.Outcome, error) {
	var errs []string

	sourceID, err := intField(record, "id")
	if err != nil {
		errs = append(errs, err.Error())
	}
	name := stringField(record, "name")
	if name == "" {
		errs = append(errs, "missing \"name\"")
	}
	if len(errs) > 0 {
		return domain.Rejected(errs...), nil
	}

	event := domain.Event{
		SourceID:    sourceID,
		Name:        name,
		Description: stringField(record, "description"),
		City:        stringField(record, "city"),
		Country:     stringField(record, "country"),
		StartDate:   timeField(record, "start_date"),
		EndDate:     timeField(record, "end_date"),
		ModifiedAt:  modifiedAtOrNow(record, "modified_date"),
	}

	stored, created, err := p.repo.Upsert(ctx, event)
	if err != nil {
		return domain.Outcome{}, fmt.Errorf("failed to upsert event %d: %w", sourceID, err)
	}
	if created {
		return domain.Created(stored.ID.String()), nil
	}
	return domain.Updated(stored.ID.String()), nil
}
