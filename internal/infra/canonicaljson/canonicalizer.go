package canonicaljson

import (
	"context"
	"fmt"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
	"github.com/osvaldoandrade/docforge/internal/domain"
)

// HeaderEncoder renders payload headers in RFC 8785 form: keys sorted,
// numbers normalized, no insignificant whitespace. Equal settings always
// produce equal bytes, and therefore equal fingerprints.
type HeaderEncoder struct{}

func (HeaderEncoder) EncodeHeader(ctx context.Context, header domain.PayloadHeader) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw, err := json.Marshal(header, json.Deterministic(true))
	if err != nil {
		return nil, fmt.Errorf("encode payload header: %w", err)
	}
	value := jsontext.Value(raw)
	if err := value.Canonicalize(); err != nil {
		return nil, fmt.Errorf("canonicalize payload header: %w", err)
	}
	return []byte(value), nil
}
