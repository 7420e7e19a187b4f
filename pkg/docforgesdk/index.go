package docforgesdk

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/osvaldoandrade/docforge/internal/app/ledger"
	"github.com/osvaldoandrade/docforge/internal/app/prompt"
	"github.com/osvaldoandrade/docforge/internal/infra/filesystem"
	"github.com/osvaldoandrade/docforge/internal/infra/sidecar"
	"github.com/osvaldoandrade/docforge/internal/platform"
)

// Entry is one remembered document of an output folder.
type Entry struct {
	Name   string
	Hash   uint32
	Length *int64
}

// Record is one journaled document outcome.
type Record struct {
	RunID     string
	Target    string
	Identity  string
	Outcome   string
	Hash      uint32
	Size      int64
	Elapsed   time.Duration
	Error     string
	CreatedAt time.Time
}

// Index returns the entries remembered for dir under promptValue. An empty
// prompt selects the unscoped index file.
func (c *Client) Index(ctx context.Context, dir, promptValue string) ([]Entry, error) {
	if err := c.ensureOpen(); err != nil {
		return nil, err
	}
	name := ledger.DefaultSidecarName
	if strings.TrimSpace(promptValue) != "" {
		text, err := prompt.Resolve(ctx, filesystem.PromptDir{Dir: filepath.Join(c.cfg.ConfigDir, "Prompts")}, promptValue)
		if err != nil {
			return nil, err
		}
		name = ledger.PromptSidecarName(text)
	}

	store := ledger.NewStore(sidecar.NewCodec(), ledger.Options{
		SidecarName: name,
		Logger:      platform.Component(c.cfg.Logger, "ledger"),
	})
	idx, err := store.ForDirectory(ctx, dir)
	if err != nil {
		return nil, err
	}
	entries := idx.Entries()
	out := make([]Entry, 0, len(entries))
	for _, entry := range entries {
		out = append(out, Entry{Name: entry.Name, Hash: entry.Hash, Length: entry.Length})
	}
	return out, nil
}

// History lists journaled outcomes, newest first. An empty runID lists
// every run.
func (c *Client) History(ctx context.Context, runID string, limit int) ([]Record, error) {
	journal, err := c.ensureJournal()
	if err != nil {
		return nil, err
	}
	records, err := journal.Recent(ctx, runID, limit)
	if err != nil {
		return nil, err
	}
	out := make([]Record, 0, len(records))
	for _, record := range records {
		out = append(out, Record{
			RunID:     record.RunID,
			Target:    record.Target,
			Identity:  record.Identity,
			Outcome:   string(record.Outcome),
			Hash:      record.Hash,
			Size:      record.Size,
			Elapsed:   record.Elapsed,
			Error:     record.Error,
			CreatedAt: record.CreatedAt,
		})
	}
	return out, nil
}
