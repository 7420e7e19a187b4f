package sidecar

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
	"github.com/natefinch/atomic"
	"github.com/osvaldoandrade/docforge/internal/domain"
	"github.com/osvaldoandrade/docforge/internal/infra/schema"
)

//go:embed schema.json
var indexSchema []byte

// Codec stores index entries as an indented JSON array next to the targets
// they describe.
type Codec struct {
	validator *schema.Validator
}

func NewCodec() *Codec {
	return &Codec{validator: schema.MustCompile("index.json", indexSchema)}
}

func (c *Codec) Load(ctx context.Context, path string) ([]domain.IndexEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read index: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	if err := c.validator.Validate(ctx, data); err != nil {
		return nil, fmt.Errorf("%s: %w", path, errors.Join(domain.ErrPersistenceCorrupt, err))
	}

	var entries []domain.IndexEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("%s: %w", path, errors.Join(domain.ErrPersistenceCorrupt, err))
	}
	return entries, nil
}

func (c *Codec) Persist(ctx context.Context, path string, entries []domain.IndexEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if entries == nil {
		entries = []domain.IndexEntry{}
	}

	data, err := json.Marshal(entries, jsontext.WithIndent("  "))
	if err != nil {
		return fmt.Errorf("encode index: %w", err)
	}
	data = append(data, '\n')

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create index dir: %w", err)
	}
	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("write index: %w", err)
	}
	return nil
}
