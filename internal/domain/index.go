package domain

import (
	"context"
	"fmt"
	"strings"
)

type Persister interface {
	Persist(ctx context.Context, path string, entries []IndexEntry) error
}

// Index is the ordered set of entries for one target directory, backed by a
// sidecar file.
type Index struct {
	path      string
	persister Persister
	entries   []*IndexEntry
	byName    map[string]*IndexEntry
	changed   bool
}

func NewIndex(path string, persister Persister, entries []IndexEntry) *Index {
	idx := &Index{
		path:      strings.TrimSpace(path),
		persister: persister,
		byName:    make(map[string]*IndexEntry, len(entries)),
	}
	for _, entry := range entries {
		if _, ok := idx.byName[entry.Name]; ok {
			continue
		}
		stored := entry
		idx.entries = append(idx.entries, &stored)
		idx.byName[stored.Name] = &stored
	}
	return idx
}

// EmptyIndex has no backing file and cannot be saved.
func EmptyIndex() *Index {
	return NewIndex("", nil, nil)
}

func (i *Index) Path() string {
	return i.path
}

func (i *Index) Len() int {
	return len(i.entries)
}

// Get returns the entry for doc, appending a stub entry on first lookup.
func (i *Index) Get(doc *Document) (*IndexEntry, error) {
	name, err := doc.Identity()
	if err != nil {
		return nil, fmt.Errorf("get index entry: %w", err)
	}
	if entry, ok := i.byName[name]; ok {
		return entry, nil
	}
	entry := &IndexEntry{Name: name}
	i.entries = append(i.entries, entry)
	i.byName[name] = entry
	return entry, nil
}

func (i *Index) Lookup(name string) (IndexEntry, bool) {
	entry, ok := i.byName[name]
	if !ok {
		return IndexEntry{}, false
	}
	return *entry, true
}

// SetChanged only ever raises the flag; Save clears it.
func (i *Index) SetChanged(changed bool) {
	i.changed = i.changed || changed
}

func (i *Index) Changed() bool {
	return i.changed
}

func (i *Index) Entries() []IndexEntry {
	out := make([]IndexEntry, 0, len(i.entries))
	for _, entry := range i.entries {
		out = append(out, *entry)
	}
	return out
}

func (i *Index) Save(ctx context.Context) error {
	if i.path == "" || i.persister == nil {
		return ErrNotConfigured
	}
	if err := i.persister.Persist(ctx, i.path, i.Entries()); err != nil {
		return fmt.Errorf("save index %s: %w", i.path, err)
	}
	i.changed = false
	return nil
}
