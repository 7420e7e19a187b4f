package run

import "github.com/osvaldoandrade/docforge/internal/domain"

type Decision int

const (
	DecisionRun Decision = iota
	DecisionSkip
)

func (d Decision) String() string {
	if d == DecisionSkip {
		return "skip"
	}
	return "run"
}

// Decide skips only when the entry already records this exact payload. A zero
// hash never skips.
func Decide(entry domain.IndexEntry, payload domain.Fingerprint) Decision {
	if !payload.IsZero() && entry.Fingerprint() == payload {
		return DecisionSkip
	}
	return DecisionRun
}
