package gitrepo

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	repoapp "github.com/osvaldoandrade/docforge/internal/app/repo"
)

const remoteName = "origin"

// Store keeps a working copy of a configuration repository up to date.
type Store struct{}

func NewStore() *Store {
	return &Store{}
}

func (s *Store) Sync(ctx context.Context, url, path string) (repoapp.SyncResult, error) {
	if err := ctx.Err(); err != nil {
		return repoapp.SyncResult{}, err
	}

	repo, err := git.PlainOpen(path)
	switch {
	case err == nil:
		return s.pull(ctx, repo)
	case errors.Is(err, git.ErrRepositoryNotExists):
		if err := s.Clone(ctx, url, path); err != nil {
			return repoapp.SyncResult{}, err
		}
		repo, err = git.PlainOpen(path)
		if err != nil {
			return repoapp.SyncResult{}, fmt.Errorf("open git repo: %w", err)
		}
		head, err := headHash(repo)
		if err != nil {
			return repoapp.SyncResult{}, err
		}
		return repoapp.SyncResult{Cloned: true, Updated: true, Head: head}, nil
	default:
		return repoapp.SyncResult{}, fmt.Errorf("open git repo: %w", err)
	}
}

func (s *Store) pull(ctx context.Context, repo *git.Repository) (repoapp.SyncResult, error) {
	before, err := headHash(repo)
	if err != nil {
		return repoapp.SyncResult{}, err
	}

	remote, err := repo.Remote(remoteName)
	if err != nil {
		if errors.Is(err, git.ErrRemoteNotFound) {
			return repoapp.SyncResult{Head: before}, nil
		}
		return repoapp.SyncResult{}, fmt.Errorf("read git remote: %w", err)
	}
	remoteURL := ""
	if cfg := remote.Config(); cfg != nil && len(cfg.URLs) > 0 {
		remoteURL = cfg.URLs[0]
	}
	auth, err := authForURL(remoteURL)
	if err != nil {
		return repoapp.SyncResult{}, err
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return repoapp.SyncResult{}, fmt.Errorf("open worktree: %w", err)
	}
	err = worktree.PullContext(ctx, &git.PullOptions{RemoteName: remoteName, Auth: auth})
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return repoapp.SyncResult{}, fmt.Errorf("pull git repo: %w", err)
	}

	after, err := headHash(repo)
	if err != nil {
		return repoapp.SyncResult{}, err
	}
	return repoapp.SyncResult{Updated: after != before, Head: after}, nil
}

func headHash(repo *git.Repository) (string, error) {
	ref, err := repo.Head()
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("read head: %w", err)
	}
	return ref.Hash().String(), nil
}
