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
	postcodesPrefix   = "data-flow/exports/postcodes/"
	postcodesFunction = "pipelines.ingest_postcodes"
)

// Postcodes ingests the full postcode reference dataset. The export is
// large and infrequent, hence the long job timeout and daily schedule.
func Postcodes(repo repository.PostcodeRepository, queueName string) ingest.Pipeline {
	return ingest.Pipeline{
		Name:     "postcodes",
		Prefix:   postcodesPrefix,
		Function: postcodesFunction,
		Queue:    queueName,
		Timeout:  12 * time.Hour,
		Schedule: "50 2 * * *",
		NewProcessor: func(ctx context.Context) (ingest.Processor, error) {
			return &postcodeProcessor{repo: repo}, nil
		},
	}
}

type postcodeProcessor struct {
	ingest.BaseSource
	repo repository.PostcodeRepository

	// existing caches the stored postcodes for the run, loaded on first
	// use, so created vs updated does not cost a lookup per row of a
	// multi-million-row dataset.
	existing map[string]struct{}
}

func (p *postcodeProcessor) Process(ctx context.Context, record map[string]any) (domain.Outcome, error) {
	if p.existing == nil {
		codes, err := p.repo.ExistingPostcodes(ctx)
		if err != nil {
			return domain.Outcome{}, fmt.Errorf("failed to load existing postcodes: %w", err)
		}
		p.existing = codes
	}

	code := stringField(record, "postcode")
	if code == "" {
		return domain.Rejected("missing \"postcode\""), nil
	}

	postcode := domain.Postcode{
		Postcode:   code,
		Region:     stringField(record, "region"),
		District:   stringField(record, "district"),
		Latitude:   floatField(record, "latitude"),
		Longitude:  floatField(record, "longitude"),
		ModifiedAt: modifiedAtOrNow(record, "modified"),
	}

	_, known := p.existing[code]
	stored, _, err := p.repo.Upsert(ctx, postcode)
	if err != nil {
		return domain.Outcome{}, fmt.Errorf("failed to upsert postcode %s: %w", code, err)
	}
	if known {
		return domain.Updated(stored.ID.String()), nil
	}
	p.existing[code] = struct{}{}
	return domain.Created(stored.ID.String()), nil
}
