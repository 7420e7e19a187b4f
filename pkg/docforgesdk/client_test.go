package docforgesdk

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
}

func setup(t *testing.T) (Config, string, string) {
	t.Helper()
	root := t.TempDir()
	configDir := filepath.Join(root, "config")
	writeFile(t, filepath.Join(configDir, "services.json"), `{"services":{"local":{"endpoint":"http://127.0.0.1:1","model":"m"}}}`)
	writeFile(t, filepath.Join(configDir, "Prompts", "doc.txt"), "Document this folder.")
	src := filepath.Join(root, "src")
	writeFile(t, filepath.Join(src, "api", "a.go"), "package api")
	writeFile(t, filepath.Join(src, "api", "b.go"), "package api // b")
	writeFile(t, filepath.Join(src, "cmd", "main.go"), "package main")

	cfg := DefaultConfig(configDir)
	cfg.Journal.Path = filepath.Join(root, "journal.db")
	return cfg, src, filepath.Join(root, "out")
}

func TestClientRunWithTransformer(t *testing.T) {
	cfg, src, out := setup(t)
	ctx := context.Background()
	client, err := Open(ctx, cfg)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	defer client.Close()

	calls := 0
	transformer := TransformerFunc(func(ctx context.Context, req Request) (string, error) {
		calls++
		if req.Service != "local" || req.Model != "m" {
			t.Errorf("unexpected request %+v", req)
		}
		return "docs for " + req.Messages[len(req.Messages)-1].Content[:20], nil
	})
	req := RunRequest{
		Sources:     []string{src},
		Output:      out,
		Pattern:     "*.go -folder",
		Prompt:      "file:doc.txt",
		Transformer: transformer,
	}

	var seen []string
	req.OnDocument = func(doc DocumentResult) { seen = append(seen, doc.Outcome) }
	result, err := client.Run(ctx, req)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	// src, api and cmd each become one document.
	if result.Saved != 3 || calls != 3 || len(seen) != 3 {
		t.Fatalf("unexpected result %+v (calls %d)", result, calls)
	}
	if _, err := os.Stat(filepath.Join(out, "api.md")); err != nil {
		t.Fatalf("expected api.md: %v", err)
	}

	result, err = client.Run(ctx, req)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if result.Skipped != 3 || calls != 3 {
		t.Fatalf("expected unchanged run, got %+v (calls %d)", result, calls)
	}

	entries, err := client.Index(ctx, out, "file:doc.txt")
	if err != nil {
		t.Fatalf("Index returned error: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}

	records, err := client.History(ctx, "", 10)
	if err != nil {
		t.Fatalf("History returned error: %v", err)
	}
	if len(records) != 6 || records[0].Outcome != "skipped" {
		t.Fatalf("unexpected history %+v", records)
	}
}

func TestClientRunIncomplete(t *testing.T) {
	cfg, src, out := setup(t)
	cfg.Journal.Path = ""
	ctx := context.Background()
	client, err := Open(ctx, cfg)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	defer client.Close()

	result, err := client.Run(ctx, RunRequest{
		Sources:  []string{src},
		Output:   out,
		Pattern:  "*.go",
		Strategy: StrategyAll,
		Prompt:   "summarize",
		Transformer: TransformerFunc(func(context.Context, Request) (string, error) {
			return "", errors.New("quota exceeded")
		}),
	})
	if !errors.Is(err, ErrIncomplete) {
		t.Fatalf("expected ErrIncomplete, got %v", err)
	}
	if result.Failed != 1 || len(result.Documents) != 1 || !strings.Contains(result.Documents[0].Err.Error(), "quota exceeded") {
		t.Fatalf("unexpected result %+v", result)
	}

	if _, err := client.History(ctx, "", 1); !errors.Is(err, ErrJournalNotOpen) {
		t.Fatalf("expected ErrJournalNotOpen, got %v", err)
	}
	_ = client.Close()
	if _, err := client.Run(ctx, RunRequest{}); !errors.Is(err, ErrClientClosed) {
		t.Fatalf("expected ErrClientClosed, got %v", err)
	}
}

func TestNewRequiresConfigDir(t *testing.T) {
	if _, err := New(context.Background(), Config{}); !errors.Is(err, ErrConfigDirRequired) {
		t.Fatalf("expected ErrConfigDirRequired, got %v", err)
	}
}
