package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v5"
	repoapp "github.com/osvaldoandrade/docforge/internal/app/repo"
)

func (s *Store) Clone(ctx context.Context, url, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := ensureClonePath(path); err != nil {
		return err
	}

	auth, err := authForURL(url)
	if err != nil {
		return err
	}

	_, err = git.PlainCloneContext(ctx, path, false, &git.CloneOptions{URL: url, Auth: auth, Depth: 1})
	if err != nil {
		return fmt.Errorf("clone git repo: %w", err)
	}

	return nil
}

// ensureClonePath accepts a missing or empty directory.
func ensureClonePath(path string) error {
	info, err := os.Stat(path)
	if err == nil {
		if !info.IsDir() {
			return fmt.Errorf("clone path is a file: %w", os.ErrExist)
		}
		entries, err := os.ReadDir(path)
		if err != nil {
			return fmt.Errorf("read clone path: %w", err)
		}
		if len(entries) > 0 {
			return fmt.Errorf("%s: %w", path, repoapp.ErrCloneDirNotEmpty)
		}
		return nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("check clone path: %w", err)
	}

	parent := filepath.Dir(path)
	if parent != "" && parent != "." {
		if err := os.MkdirAll(parent, 0o755); err != nil {
			return fmt.Errorf("create parent directory: %w", err)
		}
	}

	return nil
}
