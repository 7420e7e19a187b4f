package run

import (
	"context"
	"time"

	"github.com/osvaldoandrade/docforge/internal/domain"
)

type PayloadBuilder interface {
	Build(ctx context.Context, doc *domain.Document) (domain.Payload, error)
}

type Transformer interface {
	Complete(ctx context.Context, payload domain.Payload) (string, error)
}

// ArtifactStore reads and writes target files. Write returns the path that
// was actually written.
type ArtifactStore interface {
	Exists(ctx context.Context, target string) (bool, error)
	Read(ctx context.Context, target string) ([]byte, error)
	Write(ctx context.Context, target, content string) (string, error)
}

type Differ interface {
	Diff(path, before, after string) (string, error)
}

type Journal interface {
	Record(ctx context.Context, record domain.RunRecord) error
}

type IDGenerator interface {
	NewID() (string, error)
}

type Clock interface {
	Now() time.Time
}

type Observer interface {
	Observe(report Report)
}
