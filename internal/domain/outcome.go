package domain

// OutcomeKind classifies what a record processor did with one record.
type OutcomeKind string

const (
	OutcomeCreated  OutcomeKind = "created"
	OutcomeUpdated  OutcomeKind = "updated"
	OutcomeRejected OutcomeKind = "rejected"
)

// Outcome is the result of processing a single eligible record. Created
// and Updated carry the id of the affected row; Rejected carries the
// validation errors that prevented the upsert.
type Outcome struct {
	Kind   OutcomeKind
	ID     string
	Errors []string
}

// Created reports a newly inserted row.
func Created(id string) Outcome {
	return Outcome{Kind: OutcomeCreated, ID: id}
}

// Updated reports an existing row that was refreshed.
func Updated(id string) Outcome {
	return Outcome{Kind: OutcomeUpdated, ID: id}
}

// Rejected reports a record that failed validation or mapping.
func Rejected(errs ...string) Outcome {
	return Outcome{Kind: OutcomeRejected, Errors: errs}
}

// RecordError pairs a rejected record with the reasons it was rejected.
type RecordError struct {
	Record map[string]any `json:"record"`
	Errors []string       `json:"errors"`
}
