package integrity

import (
	"context"
	"errors"
	"fmt"

	"github.com/osvaldoandrade/docforge/internal/app/paths"
	"github.com/osvaldoandrade/docforge/internal/domain"
)

const (
	IssueIndexRead      = "index_read"
	IssueIndexCorrupt   = "index_corrupt"
	IssueEntryDuplicate = "entry_duplicate"
	IssueEntryInvalid   = "entry_invalid"
	IssueEntryPending   = "entry_pending"
	IssuePruneFailed    = "prune_failed"
)

var (
	ErrListerRequired = errors.New("index lister is required")
	ErrCodecRequired  = errors.New("index codec is required")
)

// VerifyService checks the index files of an output tree. An entry whose
// hash is zero belongs to a document that never completed.
type VerifyService struct {
	lister IndexLister
	codec  Codec
}

func NewVerifyService(lister IndexLister, codec Codec) *VerifyService {
	return &VerifyService{lister: lister, codec: codec}
}

func (s *VerifyService) Verify(ctx context.Context, root string, opts VerifyOptions) (VerifyResult, error) {
	if s.lister == nil {
		return VerifyResult{}, ErrListerRequired
	}
	if s.codec == nil {
		return VerifyResult{}, ErrCodecRequired
	}
	absRoot, err := paths.Normalize(root)
	if err != nil {
		return VerifyResult{}, err
	}

	indexes, err := s.lister.ListIndexes(ctx, absRoot)
	if err != nil {
		return VerifyResult{}, err
	}

	result := VerifyResult{Indexes: len(indexes)}
	for _, path := range indexes {
		if err := ctx.Err(); err != nil {
			return VerifyResult{}, err
		}

		kept, entries, issues := s.verifyIndex(ctx, path)
		result.Entries += entries
		if len(issues) == 0 {
			result.Valid++
			continue
		}
		result.Issues = append(result.Issues, issues...)

		if !opts.Prune || kept == nil {
			continue
		}
		if err := s.codec.Persist(ctx, path, *kept); err != nil {
			result.Issues = append(result.Issues, newIssue(path, IssuePruneFailed, err))
			continue
		}
		result.Pruned++
	}

	return result, nil
}

// verifyIndex returns the entries worth keeping when the file needs a
// rewrite, nil when it cannot be repaired.
func (s *VerifyService) verifyIndex(ctx context.Context, path string) (*[]domain.IndexEntry, int, []Issue) {
	entries, err := s.codec.Load(ctx, path)
	if err != nil {
		if errors.Is(err, domain.ErrPersistenceCorrupt) {
			empty := []domain.IndexEntry{}
			return &empty, 0, []Issue{newIssue(path, IssueIndexCorrupt, err)}
		}
		return nil, 0, []Issue{newIssue(path, IssueIndexRead, err)}
	}

	var issues []Issue
	kept := make([]domain.IndexEntry, 0, len(entries))
	seen := make(map[string]struct{}, len(entries))
	for _, entry := range entries {
		switch {
		case entry.Name == "":
			issues = append(issues, newIssue(path, IssueEntryInvalid, errors.New("entry without name")))
			continue
		case isSeen(seen, entry.Name):
			issues = append(issues, newIssue(path, IssueEntryDuplicate, fmt.Errorf("duplicate entry %s", entry.Name)))
			continue
		}
		seen[entry.Name] = struct{}{}
		if entry.Fingerprint().IsZero() {
			issues = append(issues, newIssue(path, IssueEntryPending, fmt.Errorf("entry %s has no result", entry.Name)))
			continue
		}
		kept = append(kept, entry)
	}
	return &kept, len(entries), issues
}

func isSeen(seen map[string]struct{}, name string) bool {
	_, ok := seen[name]
	return ok
}

func newIssue(path, code string, err error) Issue {
	return Issue{
		IndexPath: path,
		Code:      code,
		Message:   err.Error(),
	}
}
