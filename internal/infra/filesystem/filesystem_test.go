package filesystem

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteAddsDefaultExtension(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "nested", "summary")

	path, err := (Artifacts{}).Write(context.Background(), target, "hello")
	if err != nil {
		t.Fatalf("Write returned error: %v", err)
	}
	if path != target+".txt" {
		t.Fatalf("expected %s.txt, got %s", target, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read result: %v", err)
	}
	if string(data) != "hello" {
		t.Fatalf("unexpected content %q", data)
	}

	ok, err := (Artifacts{}).Exists(context.Background(), target)
	if err != nil || !ok {
		t.Fatalf("expected result to exist, got %v %v", ok, err)
	}
}

func TestWriteKeepsExtensionAndOverwrites(t *testing.T) {
	target := filepath.Join(t.TempDir(), "x.md")
	artifacts := Artifacts{}
	if _, err := artifacts.Write(context.Background(), target, "one"); err != nil {
		t.Fatalf("Write returned error: %v", err)
	}
	path, err := artifacts.Write(context.Background(), target, "two")
	if err != nil {
		t.Fatalf("Write returned error: %v", err)
	}
	if path != target {
		t.Fatalf("expected %s, got %s", target, path)
	}
	data, err := artifacts.Read(context.Background(), target)
	if err != nil {
		t.Fatalf("Read returned error: %v", err)
	}
	if string(data) != "two" {
		t.Fatalf("expected overwritten content, got %q", data)
	}
}

func TestReadMissingResult(t *testing.T) {
	_, err := (Artifacts{}).Read(context.Background(), filepath.Join(t.TempDir(), "none.md"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected not exist error, got %v", err)
	}
	ok, err := (Artifacts{}).Exists(context.Background(), filepath.Join(t.TempDir(), "none.md"))
	if err != nil || ok {
		t.Fatalf("expected missing result, got %v %v", ok, err)
	}
}

func TestPromptDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "summary.txt"), []byte("summarize"), 0o644); err != nil {
		t.Fatalf("write prompt: %v", err)
	}
	loader := PromptDir{Dir: dir}

	text, err := loader.LoadPrompt(context.Background(), "summary.txt")
	if err != nil {
		t.Fatalf("LoadPrompt returned error: %v", err)
	}
	if text != "summarize" {
		t.Fatalf("unexpected prompt %q", text)
	}
	if _, err := loader.LoadPrompt(context.Background(), "../secret.txt"); err == nil {
		t.Fatalf("expected error for prompt outside directory")
	}
	if _, err := loader.LoadPrompt(context.Background(), "missing.txt"); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected not exist error, got %v", err)
	}
}

func TestSourceReader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.cs")
	if err := os.WriteFile(path, []byte("class A {}"), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}
	data, err := (SourceReader{}).ReadSource(context.Background(), path)
	if err != nil {
		t.Fatalf("ReadSource returned error: %v", err)
	}
	if string(data) != "class A {}" {
		t.Fatalf("unexpected content %q", data)
	}
}

func TestDiff(t *testing.T) {
	out, err := (Differ{}).Diff("x.md", "a\nb\n", "a\nc\n")
	if err != nil {
		t.Fatalf("Diff returned error: %v", err)
	}
	for _, want := range []string{"--- x.md (previous)", "+++ x.md", "-b", "+c"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in diff:\n%s", want, out)
		}
	}

	same, err := (Differ{}).Diff("x.md", "a\n", "a\n")
	if err != nil || same != "" {
		t.Fatalf("expected empty diff, got %q %v", same, err)
	}
}

func TestIndexFiles(t *testing.T) {
	root := t.TempDir()
	for _, rel := range []string{
		".index.json",
		filepath.Join("api", ".123.index.json"),
		filepath.Join("api", "result.md"),
		filepath.Join(".git", ".index.json"),
		filepath.Join("api", "index.json"),
	} {
		path := filepath.Join(root, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte("[]"), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	got, err := IndexFiles{}.ListIndexes(context.Background(), root)
	if err != nil {
		t.Fatalf("ListIndexes returned error: %v", err)
	}
	want := []string{
		filepath.Join(root, ".index.json"),
		filepath.Join(root, "api", ".123.index.json"),
	}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}
