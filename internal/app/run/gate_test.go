package run

import (
	"testing"

	"github.com/osvaldoandrade/docforge/internal/domain"
)

func TestDecide(t *testing.T) {
	tests := []struct {
		name    string
		entry   uint32
		payload domain.Fingerprint
		want    Decision
	}{
		{name: "never run", entry: 0, payload: 42, want: DecisionRun},
		{name: "unchanged", entry: 42, payload: 42, want: DecisionSkip},
		{name: "changed", entry: 42, payload: 43, want: DecisionRun},
		{name: "zero payload", entry: 0, payload: 0, want: DecisionRun},
	}

	for _, tt := range tests {
		got := Decide(domain.IndexEntry{Name: "1", Hash: tt.entry}, tt.payload)
		if got != tt.want {
			t.Fatalf("%s: expected %s, got %s", tt.name, tt.want, got)
		}
	}
}
