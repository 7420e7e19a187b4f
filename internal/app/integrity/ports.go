package integrity

import (
	"context"

	"github.com/osvaldoandrade/docforge/internal/domain"
)

// IndexLister finds every index file below a folder.
type IndexLister interface {
	ListIndexes(ctx context.Context, root string) ([]string, error)
}

type Codec interface {
	Load(ctx context.Context, path string) ([]domain.IndexEntry, error)
	Persist(ctx context.Context, path string, entries []domain.IndexEntry) error
}
