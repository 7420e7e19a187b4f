package repo

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/osvaldoandrade/docforge/internal/app/paths"
)

// SyncService keeps a local copy of a configuration repository: it clones
// on first use and pulls afterwards.
type SyncService struct {
	syncer Syncer
}

func NewSyncService(syncer Syncer) *SyncService {
	return &SyncService{syncer: syncer}
}

func (s *SyncService) Sync(ctx context.Context, url, path string) (SyncResult, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return SyncResult{}, ErrRepoURLRequired
	}

	path = strings.TrimSpace(path)
	if path == "" {
		defaultDir, err := defaultCloneDir(url)
		if err != nil {
			return SyncResult{}, err
		}
		path = defaultDir
	}

	absPath, err := paths.Normalize(path)
	if err != nil {
		return SyncResult{}, err
	}

	result, err := s.syncer.Sync(ctx, url, absPath)
	if err != nil {
		return SyncResult{}, fmt.Errorf("sync config repo: %w", err)
	}
	result.Path = absPath
	return result, nil
}

func defaultCloneDir(url string) (string, error) {
	trimmed := strings.TrimSpace(url)
	trimmed = strings.TrimSuffix(trimmed, "/")
	if trimmed == "" {
		return "", ErrClonePathRequired
	}

	last := trimmed
	if idx := strings.LastIndexAny(trimmed, "/:"); idx >= 0 && idx < len(trimmed)-1 {
		last = trimmed[idx+1:]
	}

	last = strings.TrimSuffix(last, ".git")
	last = strings.TrimSpace(last)
	if last == "" {
		return "", ErrClonePathRequired
	}

	if filepath.Base(last) != last {
		return "", fmt.Errorf("invalid clone dir %q: %w", last, ErrClonePathRequired)
	}

	return last, nil
}
