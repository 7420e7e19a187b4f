package sqlitejournal

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/osvaldoandrade/docforge/internal/domain"
)

func TestRecordAndRecent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "journal.db")
	store, err := OpenWithOptions(path, OpenOptions{Fast: true})
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	at := time.Date(2026, 10, 17, 8, 0, 0, 0, time.UTC)
	records := []domain.RunRecord{
		{RunID: "run-1", Target: "/out/a.md", Identity: "11", Outcome: domain.OutcomeSaved, Hash: 4294967295, Size: 10, Elapsed: 1500 * time.Millisecond, CreatedAt: at},
		{RunID: "run-1", Target: "/out/b.md", Identity: "22", Outcome: domain.OutcomeFailed, Error: "endpoint unavailable", CreatedAt: at},
		{RunID: "run-2", Target: "/out/a.md", Identity: "11", Outcome: domain.OutcomeSkipped, Hash: 4294967295, Size: 10, CreatedAt: at.Add(time.Hour)},
	}
	for _, record := range records {
		if err := store.Record(ctx, record); err != nil {
			t.Fatalf("Record returned error: %v", err)
		}
	}

	all, err := store.Recent(ctx, "", 10)
	if err != nil {
		t.Fatalf("Recent returned error: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 records, got %d", len(all))
	}
	if all[0].RunID != "run-2" || all[0].Outcome != domain.OutcomeSkipped {
		t.Fatalf("expected newest first, got %+v", all[0])
	}

	run1, err := store.Recent(ctx, "run-1", 10)
	if err != nil {
		t.Fatalf("Recent returned error: %v", err)
	}
	if len(run1) != 2 {
		t.Fatalf("expected 2 records, got %d", len(run1))
	}
	saved := run1[1]
	if saved.Hash != 4294967295 || saved.Elapsed != 1500*time.Millisecond || !saved.CreatedAt.Equal(at) {
		t.Fatalf("unexpected record %+v", saved)
	}
	if run1[0].Error != "endpoint unavailable" {
		t.Fatalf("expected error text, got %q", run1[0].Error)
	}

	limited, err := store.Recent(ctx, "", 1)
	if err != nil {
		t.Fatalf("Recent returned error: %v", err)
	}
	if len(limited) != 1 {
		t.Fatalf("expected 1 record, got %d", len(limited))
	}
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := Open(" "); err == nil {
		t.Fatalf("expected error for empty path")
	}
}
