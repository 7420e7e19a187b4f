package run

import (
	"time"

	"github.com/osvaldoandrade/docforge/internal/domain"
)

type Options struct {
	DryRun bool
	Diff   bool
	// RebuildMissing runs documents whose recorded hash matches but whose
	// target file is gone.
	RebuildMissing bool
}

type Ports struct {
	Builder     PayloadBuilder
	Transformer Transformer
	Artifacts   ArtifactStore
	Differ      Differ
	Journal     Journal
	IDs         IDGenerator
	Clock       Clock
	Observer    Observer
}

type Report struct {
	RunID    string
	Target   string
	Path     string
	Identity string
	Outcome  domain.Outcome
	Hash     domain.Fingerprint
	Size     int64
	Sources  int
	Elapsed  time.Duration
	Diff     string
	Err      error
}

type Summary struct {
	RunID   string
	Saved   int
	Skipped int
	Planned int
	Failed  int
	Errors  int
	Elapsed time.Duration
}

func (s Summary) Total() int {
	return s.Saved + s.Skipped + s.Planned + s.Failed
}

func (s Summary) Incomplete() bool {
	return s.Failed > 0 || s.Errors > 0
}

func (s *Summary) add(report Report) {
	switch report.Outcome {
	case domain.OutcomeSaved:
		s.Saved++
	case domain.OutcomeSkipped:
		s.Skipped++
	case domain.OutcomePlanned:
		s.Planned++
	case domain.OutcomeFailed:
		s.Failed++
	}
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}
