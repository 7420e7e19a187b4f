package domain

import (
	"errors"
	"testing"
)

func TestIdentityIgnoresDiscoveryOrder(t *testing.T) {
	first := NewDocument("out.md", []SourceFile{{Path: "/src/a.txt"}, {Path: "/src/b.txt"}}, nil)
	second := NewDocument("out.md", []SourceFile{{Path: "/other/b.txt"}, {Path: "/other/a.txt"}}, nil)
	third := NewDocument("out.md", []SourceFile{{Path: "a.txt"}, {Path: "b.txt"}, {Path: "c.txt"}}, nil)

	id1, err := first.Identity()
	if err != nil {
		t.Fatalf("Identity returned error: %v", err)
	}
	id2, err := second.Identity()
	if err != nil {
		t.Fatalf("Identity returned error: %v", err)
	}
	id3, err := third.Identity()
	if err != nil {
		t.Fatalf("Identity returned error: %v", err)
	}

	if id1 != id2 {
		t.Fatalf("expected same identity, got %s and %s", id1, id2)
	}
	if id1 == id3 {
		t.Fatalf("expected different identity for different membership")
	}
}

func TestIdentityRequiresSources(t *testing.T) {
	doc := NewDocument("out.md", nil, nil)
	if _, err := doc.Identity(); !errors.Is(err, ErrInvalidGrouping) {
		t.Fatalf("expected ErrInvalidGrouping, got %v", err)
	}
	if !doc.IsEmpty() {
		t.Fatalf("expected document without sources to be empty")
	}
}

func TestDocumentWithoutTargetIsEmpty(t *testing.T) {
	doc := NewDocument(" ", []SourceFile{{Path: "a.txt"}}, nil)
	if !doc.IsEmpty() {
		t.Fatalf("expected document without target to be empty")
	}
}

func TestSourcesAreCopied(t *testing.T) {
	sources := []SourceFile{{Path: "a.txt", Size: 3}}
	doc := NewDocument("out.md", sources, nil)
	sources[0].Path = "z.txt"

	got := doc.Sources()
	if got[0].Path != "a.txt" {
		t.Fatalf("expected sources to be immutable, got %s", got[0].Path)
	}
	got[0].Path = "y.txt"
	if doc.Sources()[0].Path != "a.txt" {
		t.Fatalf("expected returned sources to be a copy")
	}
}

func TestAggregateSize(t *testing.T) {
	doc := NewDocument("out.md", []SourceFile{{Path: "a", Size: 3}, {Path: "b", Size: 0}, {Path: "c", Size: 4}}, nil)
	if got := doc.AggregateSize(); got != 7 {
		t.Fatalf("expected 7, got %d", got)
	}

	empty := NewDocument("out.md", []SourceFile{{Path: "a"}}, nil)
	if got := empty.AggregateSize(); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
}
