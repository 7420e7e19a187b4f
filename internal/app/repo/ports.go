package repo

import "context"

type Syncer interface {
	Sync(ctx context.Context, url, path string) (SyncResult, error)
}
