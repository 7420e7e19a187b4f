package ledger

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"

	"github.com/osvaldoandrade/docforge/internal/domain"
)

type fakeCodec struct {
	files   map[string][]domain.IndexEntry
	loadErr map[string]error
	saveErr map[string]error
	loads   int
	saves   map[string]int
}

func newFakeCodec() *fakeCodec {
	return &fakeCodec{
		files:   make(map[string][]domain.IndexEntry),
		loadErr: make(map[string]error),
		saveErr: make(map[string]error),
		saves:   make(map[string]int),
	}
}

func (f *fakeCodec) Load(ctx context.Context, path string) ([]domain.IndexEntry, error) {
	f.loads++
	if err, ok := f.loadErr[path]; ok {
		return nil, err
	}
	entries, ok := f.files[path]
	if !ok {
		return nil, fmt.Errorf("open %s: %w", path, fs.ErrNotExist)
	}
	return entries, nil
}

func (f *fakeCodec) Persist(ctx context.Context, path string, entries []domain.IndexEntry) error {
	f.saves[path]++
	if err, ok := f.saveErr[path]; ok {
		return err
	}
	f.files[path] = entries
	return nil
}

func TestGetOrCreateReturnsSameIndexForEquivalentPaths(t *testing.T) {
	dir := t.TempDir()
	codec := newFakeCodec()
	store := NewStore(codec, Options{})
	ctx := context.Background()

	first, err := store.GetOrCreate(ctx, filepath.Join(dir, "out", "a.md"))
	if err != nil {
		t.Fatalf("GetOrCreate returned error: %v", err)
	}
	second, err := store.GetOrCreate(ctx, filepath.Join(dir, "OUT", "sub", "..", "b.md"))
	if err != nil {
		t.Fatalf("GetOrCreate returned error: %v", err)
	}
	if first != second {
		t.Fatalf("expected one index per sidecar path")
	}
	if codec.loads != 1 {
		t.Fatalf("expected one load, got %d", codec.loads)
	}
	if filepath.Base(first.Path()) != DefaultSidecarName {
		t.Fatalf("unexpected sidecar path %s", first.Path())
	}
}

func TestGetOrCreateLoadsExistingEntries(t *testing.T) {
	dir := t.TempDir()
	codec := newFakeCodec()
	sidecar := filepath.Join(dir, DefaultSidecarName)
	codec.files[sidecar] = []domain.IndexEntry{{Name: "1", Hash: 5}}

	idx, err := NewStore(codec, Options{}).GetOrCreate(context.Background(), filepath.Join(dir, "x.md"))
	if err != nil {
		t.Fatalf("GetOrCreate returned error: %v", err)
	}
	if entry, ok := idx.Lookup("1"); !ok || entry.Hash != 5 {
		t.Fatalf("expected loaded entry, got %+v", entry)
	}
}

func TestCorruptSidecarFallsBackToEmptyIndex(t *testing.T) {
	dir := t.TempDir()
	codec := newFakeCodec()
	sidecar := filepath.Join(dir, DefaultSidecarName)
	codec.loadErr[sidecar] = fmt.Errorf("decode: %w", domain.ErrPersistenceCorrupt)

	idx, err := NewStore(codec, Options{}).GetOrCreate(context.Background(), filepath.Join(dir, "x.md"))
	if err != nil {
		t.Fatalf("GetOrCreate returned error: %v", err)
	}
	if idx.Len() != 0 {
		t.Fatalf("expected empty index, got %d entries", idx.Len())
	}
	if idx.Path() != sidecar {
		t.Fatalf("expected index bound to %s, got %s", sidecar, idx.Path())
	}
}

func TestUnreadableSidecarFails(t *testing.T) {
	dir := t.TempDir()
	codec := newFakeCodec()
	codec.loadErr[filepath.Join(dir, DefaultSidecarName)] = fs.ErrPermission

	_, err := NewStore(codec, Options{}).GetOrCreate(context.Background(), filepath.Join(dir, "x.md"))
	if !errors.Is(err, fs.ErrPermission) {
		t.Fatalf("expected permission error, got %v", err)
	}
}

func TestSaveAllIsolatesFailures(t *testing.T) {
	dir := t.TempDir()
	codec := newFakeCodec()
	store := NewStore(codec, Options{})
	ctx := context.Background()

	bad, err := store.GetOrCreate(ctx, filepath.Join(dir, "bad", "x.md"))
	if err != nil {
		t.Fatalf("GetOrCreate returned error: %v", err)
	}
	good, err := store.GetOrCreate(ctx, filepath.Join(dir, "good", "x.md"))
	if err != nil {
		t.Fatalf("GetOrCreate returned error: %v", err)
	}
	clean, err := store.GetOrCreate(ctx, filepath.Join(dir, "clean", "x.md"))
	if err != nil {
		t.Fatalf("GetOrCreate returned error: %v", err)
	}
	boom := errors.New("disk full")
	codec.saveErr[bad.Path()] = boom
	bad.SetChanged(true)
	good.SetChanged(true)

	err = store.SaveAll(ctx)
	if !errors.Is(err, boom) {
		t.Fatalf("expected save error, got %v", err)
	}
	if codec.saves[good.Path()] != 1 {
		t.Fatalf("expected good index saved once, got %d", codec.saves[good.Path()])
	}
	if codec.saves[clean.Path()] != 0 {
		t.Fatalf("expected unchanged index not saved")
	}
	if good.Changed() || !bad.Changed() {
		t.Fatalf("unexpected changed flags: good=%v bad=%v", good.Changed(), bad.Changed())
	}
}

func TestCloseSavesOnce(t *testing.T) {
	dir := t.TempDir()
	codec := newFakeCodec()
	store := NewStore(codec, Options{})

	idx, err := store.GetOrCreate(context.Background(), filepath.Join(dir, "x.md"))
	if err != nil {
		t.Fatalf("GetOrCreate returned error: %v", err)
	}
	idx.SetChanged(true)

	if err := store.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}
	idx.SetChanged(true)
	if err := store.Close(); err != nil {
		t.Fatalf("second Close returned error: %v", err)
	}
	if codec.saves[idx.Path()] != 1 {
		t.Fatalf("expected one save, got %d", codec.saves[idx.Path()])
	}
	if _, err := store.GetOrCreate(context.Background(), filepath.Join(dir, "y.md")); !errors.Is(err, ErrStoreClosed) {
		t.Fatalf("expected ErrStoreClosed, got %v", err)
	}
}

func TestPromptSidecarName(t *testing.T) {
	name := PromptSidecarName("summarize")
	if !strings.HasPrefix(name, ".") || !strings.HasSuffix(name, ".index.json") {
		t.Fatalf("unexpected sidecar name %q", name)
	}
	if name == PromptSidecarName("summarise") {
		t.Fatalf("expected prompt to change sidecar name")
	}

	store := NewStore(newFakeCodec(), Options{SidecarName: name})
	if store.SidecarName() != name {
		t.Fatalf("expected sidecar name %q, got %q", name, store.SidecarName())
	}
}
