package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/osvaldoandrade/docforge/internal/domain"
)

func writeConfig(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func TestLoadMergesFilesInNameOrder(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DOCFORGE_TEST_KEY", "secret")
	writeConfig(t, dir, "10-base.json", `{
		"default": "openai",
		"services": {
			"openai": {
				"endpoint": "https://api.openai.com/v1",
				"apiKey": "${DOCFORGE_TEST_KEY}",
				"model": "gpt-4o",
				"messages": [{"position": "pre", "role": "system", "texts": ["you write docs"]}]
			}
		}
	}`)
	writeConfig(t, dir, "20-local.yaml", `
services:
  openai:
    tunes:
      temperature: 0.2
  azure:
    endpoint: https://example.openai.azure.com
    apiVersion: "2024-06-01"
    model: gpt-4
    messages:
      - texts: ["answer in markdown"]
        position: post
`)
	writeConfig(t, dir, "README.md", "ignored")
	if err := os.MkdirAll(filepath.Join(dir, "Prompts"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	cfg, err := NewLoader(nil).Load(context.Background(), dir)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	openai, err := cfg.Service("")
	if err != nil {
		t.Fatalf("Service returned error: %v", err)
	}
	if openai.Name != "openai" || openai.APIKey != "secret" {
		t.Fatalf("unexpected profile %+v", openai)
	}
	if openai.Tunes.Temperature != 0.2 {
		t.Fatalf("expected overlay temperature, got %v", openai.Tunes.Temperature)
	}
	if openai.Tunes.MaxOutputTokens != 128000 || openai.Tunes.TopP != 0.95 {
		t.Fatalf("expected default tunes, got %+v", openai.Tunes)
	}
	if len(openai.Messages) != 1 || openai.Messages[0].Role != domain.RoleSystem {
		t.Fatalf("unexpected messages %+v", openai.Messages)
	}

	azure, err := cfg.Service("AZURE")
	if err != nil {
		t.Fatalf("Service returned error: %v", err)
	}
	if azure.APIVersion != "2024-06-01" {
		t.Fatalf("unexpected api version %q", azure.APIVersion)
	}
	if azure.Messages[0].Position != domain.PositionPost || azure.Messages[0].Role != domain.RoleUser {
		t.Fatalf("expected normalized message, got %+v", azure.Messages[0])
	}
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	tests := map[string]string{
		"missing model": `{"services":{"x":{"endpoint":"http://localhost"}}}`,
		"bad role":      `{"services":{"x":{"endpoint":"http://localhost","model":"m","messages":[{"role":"robot","texts":[]}]}}}`,
		"bad tunes":     `{"services":{"x":{"endpoint":"http://localhost","model":"m","tunes":{"topP":3}}}}`,
	}

	for name, content := range tests {
		dir := t.TempDir()
		writeConfig(t, dir, "config.json", content)
		if _, err := NewLoader(nil).Load(context.Background(), dir); !errors.Is(err, ErrInvalidConfig) {
			t.Fatalf("%s: expected ErrInvalidConfig, got %v", name, err)
		}
	}
}

func TestLoadRejectsBrokenYAML(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.yml", "services: [unclosed")
	if _, err := NewLoader(nil).Load(context.Background(), dir); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestLoadEmptyDirectory(t *testing.T) {
	if _, err := NewLoader(nil).Load(context.Background(), t.TempDir()); !errors.Is(err, ErrConfigNotFound) {
		t.Fatalf("expected ErrConfigNotFound, got %v", err)
	}
}

func TestServiceSelection(t *testing.T) {
	cfg := domain.Config{Services: map[string]domain.ServiceProfile{
		"a": {Name: "a"},
		"b": {Name: "b"},
	}}
	if _, err := cfg.Service(""); !errors.Is(err, domain.ErrServiceNotFound) {
		t.Fatalf("expected ErrServiceNotFound without default, got %v", err)
	}
	if _, err := cfg.Service("c"); !errors.Is(err, domain.ErrServiceNotFound) {
		t.Fatalf("expected ErrServiceNotFound, got %v", err)
	}
	got, err := cfg.Service("b")
	if err != nil || got.Name != "b" {
		t.Fatalf("expected profile b, got %+v %v", got, err)
	}
	if _, err := (domain.Config{}).Service(""); !errors.Is(err, domain.ErrNoServices) {
		t.Fatalf("expected ErrNoServices, got %v", err)
	}
}
