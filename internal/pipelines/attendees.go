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
	attendeesPrefix   = "data-flow/exports/attendees/"
	attendeesFunction = "pipelines.ingest_attendees"
)

// Attendees ingests the attendee export that accompanies the events feed;
// it shares the feed's "modified_date" convention.
func Attendees(repo repository.AttendeeRepository, queueName string) ingest.Pipeline {
	return ingest.Pipeline{
		Name:     "attendees",
		Prefix:   attendeesPrefix,
		Function: attendeesFunction,
		Queue:    queueName,
		Timeout:  30 * time.Minute,
		Schedule: "20 * * * *",
		NewProcessor: func(ctx context.Context) (ingest.Processor, error) {
			return &attendeeProcessor{repo: repo}, nil
		},
	}
}

type attendeeProcessor struct {
	ingest.BaseSource
	repo repository.AttendeeRepository
}

func (p *attendeeProcessor) ModifiedTimestamp(record map[string]any) (string, error) {
	return ingest.StringField(record, "modified_date")
}

func (p *attendeeProcessor) Process(ctx context.Context, record map[string]any) (domain.Outcome, error) {
	var errs []string

	sourceID, err := intField(record, "id")
	if err != nil {
		errs = append(errs, err.Error())
	}
	eventID, err := intField(record, "event_id")
	if err != nil {
		errs = append(errs, err.Error())
	}
	email := stringField(record, "email")
	if email == "" {
		errs = append(errs, "missing \"email\"")
	}
	if len(errs) > 0 {
		return domain.Rejected(errs...), nil
	}

	attendee := domain.Attendee{
		SourceID:      sourceID,
		SourceEventID: eventID,
		Email:         email,
		FirstName:     stringField(record, "first_name"),
		LastName:      stringField(record, "last_name"),
		Company:       stringField(record, "company_name"),
		ModifiedAt:    modifiedAtOrNow(record, "modified_date"),
	}

	stored, created, err := p.repo.Upsert(ctx, attendee)
	if err != nil {
		return domain.Outcome{}, fmt.Errorf("failed to upsert attendee %d: %w", sourceID, err)
	}
	if created {
		return domain.Created(stored.ID.String()), nil
	}
	return domain.Updated(stored.ID.String()), nil
}
