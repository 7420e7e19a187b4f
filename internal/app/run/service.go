package run

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"log/slog"

	"github.com/osvaldoandrade/docforge/internal/app/parse"
	"github.com/osvaldoandrade/docforge/internal/domain"
)

type Service struct {
	ports  Ports
	opts   Options
	logger *slog.Logger
	// claims maps each entry seen in the current run to the first target
	// that used it.
	claims map[*domain.IndexEntry]string
}

func NewService(ports Ports, opts Options, logger *slog.Logger) (*Service, error) {
	if ports.Builder == nil {
		return nil, ErrBuilderRequired
	}
	if ports.Transformer == nil && !opts.DryRun {
		return nil, ErrTransformerRequired
	}
	if ports.Artifacts == nil {
		return nil, ErrArtifactsRequired
	}
	if ports.Clock == nil {
		ports.Clock = systemClock{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{ports: ports, opts: opts, logger: logger, claims: make(map[*domain.IndexEntry]string)}, nil
}

// Run processes units one at a time. Unit failures are counted and logged;
// only cancellation stops the loop early.
func (s *Service) Run(ctx context.Context, units iter.Seq2[parse.Unit, error]) (Summary, error) {
	start := s.ports.Clock.Now()
	summary := Summary{RunID: s.newRunID()}
	clear(s.claims)

	for unit, err := range units {
		if ctxErr := ctx.Err(); ctxErr != nil {
			summary.Elapsed = s.ports.Clock.Now().Sub(start)
			return summary, ctxErr
		}
		if err != nil {
			summary.Errors++
			s.logger.Warn("document skipped", "err", err)
			continue
		}

		report := s.Process(ctx, unit)
		report.RunID = summary.RunID
		summary.add(report)
		s.record(ctx, report)
		if s.ports.Observer != nil {
			s.ports.Observer.Observe(report)
		}
	}

	summary.Elapsed = s.ports.Clock.Now().Sub(start)
	if err := ctx.Err(); err != nil {
		return summary, err
	}
	return summary, nil
}

// Process runs the gate for one unit. The entry and its index change only
// after the result has been written.
func (s *Service) Process(ctx context.Context, unit parse.Unit) Report {
	start := s.ports.Clock.Now()
	doc := unit.Document
	report := Report{
		Target:  doc.Target(),
		Size:    doc.AggregateSize(),
		Sources: len(doc.Sources()),
	}
	finish := func(outcome domain.Outcome, err error) Report {
		report.Outcome = outcome
		report.Err = err
		report.Elapsed = s.ports.Clock.Now().Sub(start)
		return report
	}

	identity, err := doc.Identity()
	if err != nil {
		return finish(domain.OutcomeFailed, err)
	}
	report.Identity = identity

	payload, err := s.ports.Builder.Build(ctx, doc)
	if err != nil {
		s.logger.Warn("not saved", "target", report.Target, "err", err)
		return finish(domain.OutcomeFailed, fmt.Errorf("build payload: %w", err))
	}
	hash := payload.Fingerprint()
	report.Hash = hash

	decision := Decide(*unit.Entry, hash)
	shared := s.claim(unit.Entry, report.Target)
	if decision == DecisionSkip && (s.opts.RebuildMissing || shared) {
		exists, err := s.ports.Artifacts.Exists(ctx, doc.Target())
		if err != nil {
			return finish(domain.OutcomeFailed, fmt.Errorf("check target: %w", err))
		}
		if !exists {
			s.logger.Info("target missing, rebuilding", "target", report.Target)
			decision = DecisionRun
		}
	}
	if decision == DecisionSkip {
		s.logger.Debug("skipped, unchanged", "target", report.Target, "hash", hash.String())
		return finish(domain.OutcomeSkipped, nil)
	}
	if s.opts.DryRun {
		return finish(domain.OutcomePlanned, nil)
	}

	content, err := s.ports.Transformer.Complete(ctx, payload)
	if err != nil {
		s.logger.Warn("not saved", "target", report.Target, "err", err)
		return finish(domain.OutcomeFailed, fmt.Errorf("%w: %w", domain.ErrTransformationFailed, err))
	}

	var previous []byte
	if s.opts.Diff && s.ports.Differ != nil {
		previous, err = s.ports.Artifacts.Read(ctx, doc.Target())
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			s.logger.Debug("previous result unreadable", "target", report.Target, "err", err)
		}
	}

	path, err := s.ports.Artifacts.Write(ctx, doc.Target(), content)
	if err != nil {
		s.logger.Warn("not saved", "target", report.Target, "err", err)
		return finish(domain.OutcomeFailed, fmt.Errorf("write result: %w", err))
	}
	report.Path = path

	if err := unit.Entry.Map(doc); err != nil {
		return finish(domain.OutcomeFailed, err)
	}
	unit.Entry.Hash = uint32(hash)
	unit.Index().SetChanged(true)

	if s.opts.Diff && s.ports.Differ != nil {
		diff, err := s.ports.Differ.Diff(path, string(previous), content)
		if err != nil {
			s.logger.Debug("diff failed", "path", path, "err", err)
		}
		report.Diff = diff
	}

	s.logger.Info("result saved", "path", path)
	return finish(domain.OutcomeSaved, nil)
}

// claim reports whether entry already belongs to another target in this
// run. Documents with the same member names in one target directory share
// an entry, so a matching hash alone does not prove the target was written.
func (s *Service) claim(entry *domain.IndexEntry, target string) bool {
	owner, ok := s.claims[entry]
	if !ok {
		s.claims[entry] = target
		return false
	}
	return owner != target
}

func (s *Service) newRunID() string {
	if s.ports.IDs == nil {
		return ""
	}
	id, err := s.ports.IDs.NewID()
	if err != nil {
		s.logger.Warn("run id unavailable", "err", err)
		return ""
	}
	return id
}

func (s *Service) record(ctx context.Context, report Report) {
	if s.ports.Journal == nil {
		return
	}
	record := domain.RunRecord{
		RunID:     report.RunID,
		Target:    report.Target,
		Identity:  report.Identity,
		Outcome:   report.Outcome,
		Hash:      uint32(report.Hash),
		Size:      report.Size,
		Elapsed:   report.Elapsed,
		CreatedAt: s.ports.Clock.Now().UTC(),
	}
	if report.Err != nil {
		record.Error = report.Err.Error()
	}
	if err := s.ports.Journal.Record(ctx, record); err != nil {
		s.logger.Warn("journal record failed", "target", report.Target, "err", err)
	}
}
