package parse

import (
	"context"

	"github.com/osvaldoandrade/docforge/internal/domain"
)

type IndexStore interface {
	GetOrCreate(ctx context.Context, target string) (*domain.Index, error)
	SaveAll(ctx context.Context) error
}
