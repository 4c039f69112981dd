package pipelines

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/jgrantham/inlet/internal/domain"
)

type stubEventRepo struct {
	upserts []domain.Event
	created bool
}

func (r *stubEventRepo) Upsert(ctx context.Context, event domain.Event) (domain.Event, bool, error) {
	event.ID = uuid.New()
	r.upserts = append(r.upserts, event)
	return event, r.created, nil
}

type stubAttendeeRepo struct {
	upserts []domain.Attendee
	created bool
}

func (r *stubAttendeeRepo) Upsert(ctx context.Context, attendee domain.Attendee) (domain.Attendee, bool, error) {
	attendee.ID = uuid.New()
	r.upserts = append(r.upserts, attendee)
	return attendee, r.created, nil
}

type stubLeadRepo struct {
	existing map[string]struct{}
	upserts  []domain.Lead
}

func (r *stubLeadRepo) ExistingTriageIDs(ctx context.Context) (map[string]struct{}, error) {
	return r.existing, nil
}

func (r *stubLeadRepo) Upsert(ctx context.Context, lead domain.Lead) (domain.Lead, bool, error) {
	lead.ID = uuid.New()
	r.upserts = append(r.upserts, lead)
	return lead, false, nil
}

type stubPostcodeRepo struct {
	existing map[string]struct{}
	upserts  []domain.Postcode
}

func (r *stubPostcodeRepo) ExistingPostcodes(ctx context.Context) (map[string]struct{}, error) {
	return r.existing, nil
}

func (r *stubPostcodeRepo) Upsert(ctx context.Context, postcode domain.Postcode) (domain.Postcode, bool, error) {
	postcode.ID = uuid.New()
	r.upserts = append(r.upserts, postcode)
	return postcode, false, nil
}

func TestEventProcessorCreatesValidRecord(t *testing.T) {
	repo := &stubEventRepo{created: true}
	processor := &eventProcessor{repo: repo}

	outcome, err := processor.Process(context.Background(), map[string]any{
		"id":            float64(42),
		"name":          "Expo 2024",
		"city":          "Manchester",
		"country":       "United Kingdom",
		"start_date":    "2024-06-01",
		"modified_date": "2024-02-01T00:00:00Z",
	})
	if err != nil {
		t.Fatalf("Process returned error: %v", err)
	}
	if outcome.Kind != domain.OutcomeCreated {
		t.Errorf("expected created outcome, got %v", outcome.Kind)
	}
	if len(repo.upserts) != 1 {
		t.Fatalf("expected 1 upsert, got %d", len(repo.upserts))
	}
	event := repo.upserts[0]
	if event.SourceID != 42 || event.Name != "Expo 2024" {
		t.Errorf("unexpected event mapped: %+v", event)
	}
	if event.StartDate == nil {
		t.Error("expected start date to be parsed")
	}
}

func TestEventProcessorRejectsInvalidRecord(t *testing.T) {
	repo := &stubEventRepo{}
	processor := &eventProcessor{repo: repo}

	outcome, err := processor.Process(context.Background(), map[string]any{"city": "Leeds"})
	if err != nil {
		t.Fatalf("Process returned error: %v", err)
	}
	if outcome.Kind != domain.OutcomeRejected {
		t.Fatalf("expected rejected outcome, got %v", outcome.Kind)
	}
	if len(outcome.Errors) != 2 {
		t.Errorf("expected both id and name errors, got %v", outcome.Errors)
	}
	if len(repo.upserts) != 0 {
		t.Error("rejected record must not reach the repository")
	}
}

func TestEventProcessorReportsUpdate(t *testing.T) {
	processor := &eventProcessor{repo: &stubEventRepo{created: false}}

	outcome, err := processor.Process(context.Background(), map[string]any{
		"id":   float64(7),
		"name": "Returning Expo",
	})
	if err != nil {
		t.Fatalf("Process returned error: %v", err)
	}
	if outcome.Kind != domain.OutcomeUpdated {
		t.Errorf("expected updated outcome, got %v", outcome.Kind)
	}
}

func TestEventProcessorModifiedTimestampField(t *testing.T) {
	processor := &eventProcessor{repo: &stubEventRepo{}}

	raw, err := processor.ModifiedTimestamp(map[string]any{"modified_date": "2024-02-01T00:00:00Z"})
	if err != nil {
		t.Fatalf("ModifiedTimestamp returned error: %v", err)
	}
	if raw != "2024-02-01T00:00:00Z" {
		t.Errorf("unexpected timestamp %q", raw)
	}
}

func TestAttendeeProcessorRejectsMissingEmail(t *testing.T) {
	processor := &attendeeProcessor{repo: &stubAttendeeRepo{}}

	outcome, err := processor.Process(context.Background(), map[string]any{
		"id":       float64(1),
		"event_id": float64(2),
	})
	if err != nil {
		t.Fatalf("Process returned error: %v", err)
	}
	if outcome.Kind != domain.OutcomeRejected {
		t.Errorf("expected rejected outcome, got %v", outcome.Kind)
	}
}

func TestLeadProcessorClassifiesByExistingIDs(t *testing.T) {
	repo := &stubLeadRepo{existing: map[string]struct{}{"known": {}}}
	processor := &leadProcessor{repo: repo}

	outcome, err := processor.Process(context.Background(), map[string]any{"triage_id": "known"})
	if err != nil {
		t.Fatalf("Process returned error: %v", err)
	}
	if outcome.Kind != domain.OutcomeUpdated {
		t.Errorf("expected known id to be an update, got %v", outcome.Kind)
	}

	outcome, err = processor.Process(context.Background(), map[string]any{"triage_id": "new"})
	if err != nil {
		t.Fatalf("Process returned error: %v", err)
	}
	if outcome.Kind != domain.OutcomeCreated {
		t.Errorf("expected new id to be a create, got %v", outcome.Kind)
	}

	// A duplicate later in the same run counts as an update.
	outcome, err = processor.Process(context.Background(), map[string]any{"triage_id": "new"})
	if err != nil {
		t.Fatalf("Process returned error: %v", err)
	}
	if outcome.Kind != domain.OutcomeUpdated {
		t.Errorf("expected duplicate id to be an update, got %v", outcome.Kind)
	}
}

func TestLeadProcessorRejectsMissingTriageID(t *testing.T) {
	repo := &stubLeadRepo{existing: map[string]struct{}{}}
	processor := &leadProcessor{repo: repo}

	outcome, err := processor.Process(context.Background(), map[string]any{"company_name": "Acme"})
	if err != nil {
		t.Fatalf("Process returned error: %v", err)
	}
	if outcome.Kind != domain.OutcomeRejected {
		t.Errorf("expected rejected outcome, got %v", outcome.Kind)
	}
	if len(repo.upserts) != 0 {
		t.Error("rejected record must not reach the repository")
	}
}

func TestPostcodeProcessorMapsCoordinates(t *testing.T) {
	repo := &stubPostcodeRepo{existing: map[string]struct{}{}}
	processor := &postcodeProcessor{repo: repo}

	outcome, err := processor.Process(context.Background(), map[string]any{
		"postcode":  "M1 1AA",
		"region":    "North West",
		"latitude":  53.4808,
		"longitude": -2.2426,
	})
	if err != nil {
		t.Fatalf("Process returned error: %v", err)
	}
	if outcome.Kind != domain.OutcomeCreated {
		t.Errorf("expected created outcome, got %v", outcome.Kind)
	}
	if len(repo.upserts) != 1 {
		t.Fatalf("expected 1 upsert, got %d", len(repo.upserts))
	}
	postcode := repo.upserts[0]
	if postcode.Latitude == nil || *postcode.Latitude != 53.4808 {
		t.Errorf("latitude not mapped: %+v", postcode)
	}
	if postcode.Longitude == nil || *postcode.Longitude != -2.2426 {
		t.Errorf("longitude not mapped: %+v", postcode)
	}
}

func TestAllBindsQueueName(t *testing.T) {
	repos := Repositories{
		Events:    &stubEventRepo{},
		Attendees: &stubAttendeeRepo{},
		Leads:     &stubLeadRepo{},
		Postcodes: &stubPostcodeRepo{},
	}

	all := All(repos, "long-running")
	if len(all) != 4 {
		t.Fatalf("expected 4 pipelines, got %d", len(all))
	}
	seen := map[string]bool{}
	for _, p := range all {
		if p.Queue != "long-running" {
			t.Errorf("pipeline %s not bound to queue: %q", p.Name, p.Queue)
		}
		if p.Prefix == "" || p.Function == "" || p.Schedule == "" {
			t.Errorf("pipeline %s incompletely defined: %+v", p.Name, p)
		}
		if seen[p.Function] {
			t.Errorf("duplicate function name %q", p.Function)
		}
		seen[p.Function] = true

		processor, err := p.NewProcessor(context.Background())
		if err != nil {
			t.Errorf("pipeline %s processor construction failed: %v", p.Name, err)
		}
		if processor == nil {
			t.Errorf("pipeline %s returned nil processor", p.Name)
		}
	}
}
