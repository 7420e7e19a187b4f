package ledger

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/osvaldoandrade/docforge/internal/app/paths"
	"github.com/osvaldoandrade/docforge/internal/domain"
)

const DefaultSidecarName = ".index.json"

type Options struct {
	SidecarName string
	Logger      *slog.Logger
}

// Store keeps at most one Index per sidecar file for the lifetime of a run.
type Store struct {
	codec   Codec
	name    string
	logger  *slog.Logger
	indexes map[string]*domain.Index
	order   []string
	closed  bool
}

func NewStore(codec Codec, opts Options) *Store {
	name := strings.TrimSpace(opts.SidecarName)
	if name == "" {
		name = DefaultSidecarName
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		codec:   codec,
		name:    name,
		logger:  logger,
		indexes: make(map[string]*domain.Index),
	}
}

// PromptSidecarName scopes a ledger to a prompt, so changing the prompt
// starts from an empty ledger.
func PromptSidecarName(prompt string) string {
	return "." + domain.ChecksumString(prompt).String() + DefaultSidecarName
}

func (s *Store) SidecarName() string {
	return s.name
}

func (s *Store) GetOrCreate(ctx context.Context, target string) (*domain.Index, error) {
	if strings.TrimSpace(target) == "" {
		return nil, fmt.Errorf("target is required: %w", domain.ErrInvalidGrouping)
	}
	return s.ForDirectory(ctx, filepath.Dir(target))
}

func (s *Store) ForDirectory(ctx context.Context, dir string) (*domain.Index, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.codec == nil {
		return nil, ErrCodecRequired
	}
	if s.closed {
		return nil, ErrStoreClosed
	}

	dir, err := paths.Normalize(dir)
	if err != nil {
		return nil, err
	}
	sidecar := filepath.Join(dir, s.name)
	key, err := paths.CanonicalKey(sidecar)
	if err != nil {
		return nil, err
	}
	if idx, ok := s.indexes[key]; ok {
		return idx, nil
	}

	idx, err := s.load(ctx, sidecar)
	if err != nil {
		return nil, err
	}
	s.indexes[key] = idx
	s.order = append(s.order, key)
	return idx, nil
}

func (s *Store) load(ctx context.Context, sidecar string) (*domain.Index, error) {
	entries, err := s.codec.Load(ctx, sidecar)
	switch {
	case err == nil:
		s.logger.Debug("index loaded", "path", sidecar, "entries", len(entries))
		return domain.NewIndex(sidecar, s.codec, entries), nil
	case errors.Is(err, fs.ErrNotExist):
		s.logger.Debug("index created", "path", sidecar)
		return domain.NewIndex(sidecar, s.codec, nil), nil
	case errors.Is(err, domain.ErrPersistenceCorrupt):
		s.logger.Warn("failed to load index (every document will be processed again)", "path", sidecar, "err", err)
		return domain.NewIndex(sidecar, s.codec, nil), nil
	default:
		return nil, fmt.Errorf("load index: %w", err)
	}
}

// SaveAll saves every changed index. A failing index does not stop the
// others; their errors are joined.
func (s *Store) SaveAll(ctx context.Context) error {
	var errs []error
	for _, key := range s.order {
		idx := s.indexes[key]
		if !idx.Changed() {
			continue
		}
		if err := idx.Save(ctx); err != nil {
			s.logger.Error("index not saved", "path", idx.Path(), "err", err)
			errs = append(errs, err)
			continue
		}
		s.logger.Debug("index saved", "path", idx.Path(), "entries", idx.Len())
	}
	return errors.Join(errs...)
}

// Close saves changed indexes once. Later calls do nothing.
func (s *Store) Close() error {
	if s.closed {
		return nil
	}
	err := s.SaveAll(context.Background())
	s.closed = true
	return err
}
