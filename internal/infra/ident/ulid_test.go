package ident

import (
	"testing"
	"time"
)

func TestRunIDsAreOrdered(t *testing.T) {
	ids := NewRunIDs()
	fixed := time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC)
	ids.now = func() time.Time { return fixed }

	first, err := ids.NewID()
	if err != nil {
		t.Fatalf("NewID returned error: %v", err)
	}
	second, err := ids.NewID()
	if err != nil {
		t.Fatalf("NewID returned error: %v", err)
	}
	if len(first) != 26 {
		t.Fatalf("expected 26 chars, got %d", len(first))
	}
	if second <= first {
		t.Fatalf("expected monotonic ids, got %s then %s", first, second)
	}

	at, err := Time(first)
	if err != nil {
		t.Fatalf("Time returned error: %v", err)
	}
	if !at.Equal(fixed) {
		t.Fatalf("expected %s, got %s", fixed, at)
	}
}

func TestTimeRejectsGarbage(t *testing.T) {
	if _, err := Time("not-a-ulid"); err == nil {
		t.Fatalf("expected parse error")
	}
}
