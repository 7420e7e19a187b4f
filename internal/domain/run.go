package domain

import "time"

type Outcome string

const (
	OutcomeSkipped Outcome = "skipped"
	OutcomeSaved   Outcome = "saved"
	OutcomeFailed  Outcome = "failed"
	OutcomePlanned Outcome = "planned"
)

// RunRecord is one processed document as kept in the run journal.
type RunRecord struct {
	RunID     string
	Target    string
	Identity  string
	Outcome   Outcome
	Hash      uint32
	Size      int64
	Elapsed   time.Duration
	Error     string
	CreatedAt time.Time
}
