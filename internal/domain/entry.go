package domain

import "fmt"

// IndexEntry records the payload fingerprint that last produced a document's
// target. A zero Hash means the document never completed. Keys are written
// as Name, Hash and Length and read in any case.
type IndexEntry struct {
	Name   string `json:"Name,case:ignore"`
	Hash   uint32 `json:"Hash,case:ignore"`
	Length *int64 `json:"Length,case:ignore"`
}

// Map refreshes Name and Length from doc. Hash is left as is.
func (e *IndexEntry) Map(doc *Document) error {
	name, err := doc.Identity()
	if err != nil {
		return fmt.Errorf("map index entry: %w", err)
	}
	size := doc.AggregateSize()
	e.Name = name
	e.Length = &size
	return nil
}

func (e *IndexEntry) Fingerprint() Fingerprint {
	return Fingerprint(e.Hash)
}
