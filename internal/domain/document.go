package domain

import (
	"path/filepath"
	"slices"
	"strings"
)

type SourceFile struct {
	Path   string
	Size   int64
	Exists bool
}

func (f SourceFile) Name() string {
	return filepath.Base(f.Path)
}

// Document groups source files that produce a single target artifact.
// Sources and target are fixed at construction.
type Document struct {
	target  string
	sources []SourceFile
	index   *Index

	identity    string
	hasIdentity bool
	size        int64
	hasSize     bool
}

func NewDocument(target string, sources []SourceFile, index *Index) *Document {
	return &Document{
		target:  strings.TrimSpace(target),
		sources: slices.Clone(sources),
		index:   index,
	}
}

func (d *Document) Target() string {
	return d.target
}

func (d *Document) Sources() []SourceFile {
	return slices.Clone(d.sources)
}

func (d *Document) Index() *Index {
	return d.index
}

func (d *Document) IsEmpty() bool {
	return d == nil || d.target == "" || len(d.sources) == 0
}

// Identity is the XOR of the checksums of the source file names, sorted by
// name. It is computed once per document.
func (d *Document) Identity() (string, error) {
	if d.hasIdentity {
		return d.identity, nil
	}
	if len(d.sources) == 0 {
		return "", ErrInvalidGrouping
	}

	names := make([]string, 0, len(d.sources))
	for _, source := range d.sources {
		names = append(names, source.Name())
	}
	slices.Sort(names)

	fingerprints := make([]Fingerprint, 0, len(names))
	for _, name := range names {
		fingerprints = append(fingerprints, ChecksumString(name))
	}

	d.identity = Combine(fingerprints...).String()
	d.hasIdentity = true
	return d.identity, nil
}

func (d *Document) AggregateSize() int64 {
	if d.hasSize {
		return d.size
	}
	var total int64
	for _, source := range d.sources {
		total += source.Size
	}
	d.size = total
	d.hasSize = true
	return total
}
