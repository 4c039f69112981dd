package ingest

import (
	"testing"
	"time"
)

func TestParseTimestamp(t *testing.T) {
	cases := []struct {
		raw  string
		want time.Time
	}{
		{"2024-02-01T12:30:45Z", time.Date(2024, 2, 1, 12, 30, 45, 0, time.UTC)},
		{"2024-02-01T12:30:45.123456Z", time.Date(2024, 2, 1, 12, 30, 45, 123456000, time.UTC)},
		{"2024-02-01 12:30:45", time.Date(2024, 2, 1, 12, 30, 45, 0, time.UTC)},
		{"2024-02-01", time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)},
		{"  2024-02-01T12:30:45Z  ", time.Date(2024, 2, 1, 12, 30, 45, 0, time.UTC)},
	}
	for _, c := range cases {
		got, err := ParseTimestamp(c.raw)
		if err != nil {
			t.Errorf("ParseTimestamp(%q) returned error: %v", c.raw, err)
			continue
		}
		if !got.Equal(c.want) {
			t.Errorf("ParseTimestamp(%q) = %v, want %v", c.raw, got, c.want)
		}
	}
}

func TestParseTimestampRejectsGarbage(t *testing.T) {
	if _, err := ParseTimestamp("next tuesday"); err == nil {
		t.Error("expected an error for an unrecognized format")
	}
}

func TestEnvelopeSourceExtractRecord(t *testing.T) {
	source := EnvelopeSource{Key: "object"}

	line := map[string]any{"object": map[string]any{"id": "a"}}
	record := source.ExtractRecord(line)
	if record["id"] != "a" {
		t.Errorf("expected nested record, got %v", record)
	}

	// A line without the envelope falls through unchanged.
	flat := map[string]any{"id": "b"}
	if got := source.ExtractRecord(flat); got["id"] != "b" {
		t.Errorf("expected flat record, got %v", got)
	}
}

func TestBaseSourceModifiedTimestamp(t *testing.T) {
	raw, err := BaseSource{}.ModifiedTimestamp(map[string]any{"modified": "2024-02-01T00:00:00Z"})
	if err != nil {
		t.Fatalf("ModifiedTimestamp returned error: %v", err)
	}
	if raw != "2024-02-01T00:00:00Z" {
		t.Errorf("unexpected timestamp %q", raw)
	}

	if _, err := (BaseSource{}).ModifiedTimestamp(map[string]any{}); err == nil {
		t.Error("expected an error when the field is missing")
	}
	if _, err := (BaseSource{}).ModifiedTimestamp(map[string]any{"modified": 42}); err == nil {
		t.Error("expected an error when the field is not a string")
	}
}
