package domain

import (
	"errors"
	"testing"
)

func TestParsePattern(t *testing.T) {
	tests := []struct {
		input    string
		glob     string
		strategy ParseStrategy
	}{
		{input: "", glob: "*.*", strategy: StrategyFileByFile},
		{input: "*.cs", glob: "*.cs", strategy: StrategyFileByFile},
		{input: "*.cs -folder", glob: "*.cs", strategy: StrategyByFolder},
		{input: "*.go -ALL", glob: "*.go", strategy: StrategyOneShot},
		{input: "-folder", glob: "*.*", strategy: StrategyByFolder},
		{input: "*.cs  *.ts -folder", glob: "*.cs *.ts", strategy: StrategyByFolder},
	}

	for _, tt := range tests {
		glob, strategy := ParsePattern(tt.input)
		if glob != tt.glob || strategy != tt.strategy {
			t.Fatalf("ParsePattern(%q) = %q, %q; expected %q, %q", tt.input, glob, strategy, tt.glob, tt.strategy)
		}
	}
}

func TestParseParseStrategy(t *testing.T) {
	got, err := ParseParseStrategy(" Folder ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != StrategyByFolder {
		t.Fatalf("expected folder, got %s", got)
	}
	if _, err := ParseParseStrategy("tree"); !errors.Is(err, ErrInvalidStrategy) {
		t.Fatalf("expected ErrInvalidStrategy, got %v", err)
	}
	if NormalizeParseStrategy("bad") != StrategyFileByFile {
		t.Fatalf("expected default strategy")
	}
}
