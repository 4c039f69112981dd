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
	leadsPrefix   = "data-flow/exports/leads/"
	leadsFunction = "pipelines.ingest_leads"
)

// Leads ingests the investment lead triage export. Each line nests the
// record under an "object" envelope key.
func Leads(repo repository.LeadRepository, queueName string) ingest.Pipeline {
	return ingest.Pipeline{
		Name:     "leads",
		Prefix:   leadsPrefix,
		Function: leadsFunction,
		Queue:    queueName,
		Timeout:  30 * time.Minute,
		Schedule: "35 * * * *",
		NewProcessor: func(ctx context.Context) (ingest.Processor, error) {
			return &leadProcessor{
				EnvelopeSource: ingest.EnvelopeSource{Key: "object"},
				repo:           repo,
			}, nil
		},
	}
}

type leadProcessor struct {
	ingest.EnvelopeSource
	repo repository.LeadRepository

	// existing caches the stored triage ids for the run, loaded on first
	// use. It classifies created vs updated and keeps a duplicate triage id
	// later in the same file reported as an update.
	existing map[string]struct{}
}

func (p *leadProcessor) Process(ctx context.Context, record map[string]any) (domain.Outcome, error) {
	if p.existing == nil {
		ids, err := p.repo.ExistingTriageIDs(ctx)
		if err != nil {
			return domain.Outcome{}, fmt.Errorf("failed to load existing triage ids: %w", err)
		}
		p.existing = ids
	}

	triageID := stringField(record, "triage_id")
	if triageID == "" {
		return domain.Rejected("missing \"triage_id\""), nil
	}

	lead := domain.Lead{
		TriageID:    triageID,
		CompanyName: stringField(record, "company_name"),
		Sector:      stringField(record, "sector"),
		Location:    stringField(record, "location"),
		Email:       stringField(record, "email"),
		ModifiedAt:  modifiedAtOrNow(record, "modified"),
	}

	_, known := p.existing[triageID]
	stored, _, err := p.repo.Upsert(ctx, lead)
	if err != nil {
		return domain.Outcome{}, fmt.Errorf("failed to upsert lead %s: %w", triageID, err)
	}
	if known {
		return domain.Updated(stored.ID.String()), nil
	}
	p.existing[triageID] = struct{}{}
	return domain.Created(stored.ID.String()), nil
}
