package prompt

import (
	"context"

	"github.com/osvaldoandrade/docforge/internal/domain"
)

type SourceReader interface {
	ReadSource(ctx context.Context, path string) ([]byte, error)
}

type HeaderEncoder interface {
	EncodeHeader(ctx context.Context, header domain.PayloadHeader) ([]byte, error)
}

type TemplateLoader interface {
	LoadPrompt(ctx context.Context, name string) (string, error)
}
