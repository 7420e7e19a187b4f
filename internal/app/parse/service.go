package parse

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/osvaldoandrade/docforge/internal/app/paths"
	"github.com/osvaldoandrade/docforge/internal/domain"
)

type Service struct {
	store    IndexStore
	logger   *slog.Logger
	sources  []string
	target   string
	patterns []string
	generate Generator
}

func NewService(store IndexStore, opts Options, logger *slog.Logger) (*Service, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	if strings.TrimSpace(opts.Target) == "" {
		return nil, ErrTargetRequired
	}
	target, err := paths.Normalize(opts.Target)
	if err != nil {
		return nil, err
	}

	sources := make([]string, 0, len(opts.Sources))
	for _, source := range opts.Sources {
		if strings.TrimSpace(source) == "" {
			continue
		}
		abs, err := paths.Normalize(source)
		if err != nil {
			return nil, err
		}
		sources = append(sources, abs)
	}
	if len(sources) == 0 {
		return nil, ErrSourcesRequired
	}

	patterns, err := compilePatterns(opts.Pattern)
	if err != nil {
		return nil, err
	}

	generate := opts.Generate
	if generate == nil {
		generate = DefaultGenerator
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		store:    store,
		logger:   logger,
		sources:  sources,
		target:   target,
		patterns: patterns,
		generate: generate,
	}, nil
}

// compilePatterns splits a whitespace separated list of globs. "*.*" keeps
// its usual meaning of every file, with or without an extension.
func compilePatterns(value string) ([]string, error) {
	fields := strings.Fields(strings.ToLower(value))
	if len(fields) == 0 {
		fields = []string{domain.DefaultPattern}
	}
	patterns := make([]string, 0, len(fields))
	for _, field := range fields {
		if field == domain.DefaultPattern {
			field = "*"
		}
		if _, err := filepath.Match(field, ""); err != nil {
			return nil, fmt.Errorf("%s: %w", field, ErrInvalidPattern)
		}
		patterns = append(patterns, field)
	}
	return patterns, nil
}

func (s *Service) matches(name string) bool {
	name = strings.ToLower(name)
	for _, pattern := range s.patterns {
		if ok, _ := filepath.Match(pattern, name); ok {
			return true
		}
	}
	return false
}

func (s *Service) Units(ctx context.Context, strategy domain.ParseStrategy) iter.Seq2[Unit, error] {
	switch domain.NormalizeParseStrategy(strategy) {
	case domain.StrategyByFolder:
		return s.ByFolder(ctx)
	case domain.StrategyOneShot:
		return s.OneShot(ctx)
	default:
		return s.FileByFile(ctx)
	}
}

// sequence runs walk with the shared emit rules. Indexes are flushed when
// the sequence ends, including when the consumer breaks out early.
func (s *Service) sequence(ctx context.Context, walk func(e *emitter) error) iter.Seq2[Unit, error] {
	return func(yield func(Unit, error) bool) {
		defer func() {
			if err := s.store.SaveAll(context.WithoutCancel(ctx)); err != nil {
				s.logger.Error("flush indexes", "err", err)
			}
		}()

		if err := os.MkdirAll(s.target, 0o755); err != nil {
			yield(Unit{}, fmt.Errorf("create target directory: %w", err))
			return
		}

		e := &emitter{ctx: ctx, store: s.store, logger: s.logger, yield: yield}
		if err := walk(e); err != nil && !errors.Is(err, errStop) {
			yield(Unit{}, err)
		}
	}
}

type emitter struct {
	ctx     context.Context
	store   IndexStore
	logger  *slog.Logger
	yield   func(Unit, error) bool
	current *domain.Index
}

// emit resolves the index and entry for a group and hands it to the
// consumer. Empty groups are dropped before any index is touched.
func (e *emitter) emit(target string, sources []domain.SourceFile) error {
	if err := e.ctx.Err(); err != nil {
		return err
	}
	if target == "" || len(sources) == 0 {
		return nil
	}

	idx, err := e.store.GetOrCreate(e.ctx, target)
	if err != nil {
		return e.fail(fmt.Errorf("%s: %w", target, err))
	}
	if e.current != nil && e.current != idx {
		e.flush()
	}
	e.current = idx

	doc := domain.NewDocument(target, sources, idx)
	entry, err := idx.Get(doc)
	if err != nil {
		return e.fail(fmt.Errorf("%s: %w", target, err))
	}
	if !e.yield(Unit{Document: doc, Entry: entry}, nil) {
		return errStop
	}
	return nil
}

func (e *emitter) fail(err error) error {
	if !e.yield(Unit{}, err) {
		return errStop
	}
	return nil
}

func (e *emitter) flush() {
	if !e.current.Changed() {
		return
	}
	if err := e.current.Save(context.WithoutCancel(e.ctx)); err != nil {
		e.logger.Error("index not saved", "path", e.current.Path(), "err", err)
	}
}
