package scheduler

import (
	"testing"

	"github.com/jgrantham/inlet/internal/ingest"
)

func TestNewRejectsInvalidCron(t *testing.T) {
	pipelines := []ingest.Pipeline{{Name: "events", Schedule: "every hour"}}

	if _, err := New(nil, pipelines, nil); err == nil {
		t.Fatal("expected an error for an invalid cron expression")
	}
}

func TestNewAppliesOverrides(t *testing.T) {
	pipelines := []ingest.Pipeline{
		{Name: "events", Schedule: "5 * * * *"},
		{Name: "postcodes", Schedule: "50 2 * * *"},
	}
	overrides := map[string]string{"events": "*/10 * * * *"}

	s, err := New(nil, pipelines, overrides)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if len(s.entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(s.entries))
	}
	if s.entries[0].cron != "*/10 * * * *" {
		t.Errorf("override not applied: %q", s.entries[0].cron)
	}
	if s.entries[1].cron != "50 2 * * *" {
		t.Errorf("default schedule lost: %q", s.entries[1].cron)
	}
}

func TestNewRejectsInvalidOverride(t *testing.T) {
	pipelines := []ingest.Pipeline{{Name: "events", Schedule: "5 * * * *"}}
	overrides := map[string]string{"events": "not a cron"}

	if _, err := New(nil, pipelines, overrides); err == nil {
		t.Fatal("expected an error for an invalid override")
	}
}
