package jsonpatch

import (
	"context"
	"fmt"

	"github.com/evanphx/json-patch/v5"
)

// Merger folds configuration documents with JSON merge patch (RFC 7386):
// objects merge key by key, anything else in the overlay replaces the base,
// and null deletes.
type Merger struct{}

func (Merger) Merge(ctx context.Context, base, overlay []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(base) == 0 {
		base = []byte("{}")
	}

	out, err := jsonpatch.MergePatch(base, overlay)
	if err != nil {
		return nil, fmt.Errorf("merge json: %w", err)
	}
	return out, nil
}

func (m Merger) MergeAll(ctx context.Context, docs ...[]byte) ([]byte, error) {
	out := []byte("{}")
	for _, doc := range docs {
		merged, err := m.Merge(ctx, out, doc)
		if err != nil {
			return nil, err
		}
		out = merged
	}
	return out, nil
}
