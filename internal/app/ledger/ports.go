package ledger

import (
	"context"

	"github.com/osvaldoandrade/docforge/internal/domain"
)

// Codec reads and writes sidecar files. Load reports a missing file with an
// error matching fs.ErrNotExist and a malformed one with
// domain.ErrPersistenceCorrupt.
type Codec interface {
	Load(ctx context.Context, path string) ([]domain.IndexEntry, error)
	domain.Persister
}
