package filesystem

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

type SourceReader struct{}

func (SourceReader) ReadSource(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read source: %w", err)
	}
	return data, nil
}

// PromptDir loads prompt templates from a directory, usually the Prompts
// folder of the configuration directory.
type PromptDir struct {
	Dir string
}

func (p PromptDir) LoadPrompt(ctx context.Context, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	name = strings.TrimSpace(name)
	if filepath.IsAbs(name) {
		return readPrompt(name)
	}
	clean := filepath.Clean(name)
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("prompt %s escapes %s", name, p.Dir)
	}
	return readPrompt(filepath.Join(p.Dir, clean))
}

func readPrompt(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read prompt: %w", err)
	}
	return string(data), nil
}
