package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"
)

const DefaultExtension = ".txt"

// Artifacts writes transformation results. Targets without an extension get
// DefaultExtension.
type Artifacts struct{}

func ResultPath(target string) string {
	if filepath.Ext(target) == "" {
		return target + DefaultExtension
	}
	return target
}

func (Artifacts) Exists(ctx context.Context, target string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	_, err := os.Stat(ResultPath(target))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("stat result: %w", err)
}

func (Artifacts) Read(ctx context.Context, target string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(ResultPath(target))
	if err != nil {
		return nil, fmt.Errorf("read result: %w", err)
	}
	return data, nil
}

func (Artifacts) Write(ctx context.Context, target, content string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if strings.TrimSpace(target) == "" {
		return "", errors.New("result path is required")
	}

	path := ResultPath(target)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create result dir: %w", err)
	}
	if err := atomic.WriteFile(path, strings.NewReader(content)); err != nil {
		return "", fmt.Errorf("write result: %w", err)
	}
	return path, nil
}
