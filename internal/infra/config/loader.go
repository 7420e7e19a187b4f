package config

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-json-experiment/json"
	"github.com/osvaldoandrade/docforge/internal/domain"
	"github.com/osvaldoandrade/docforge/internal/infra/jsonpatch"
	"github.com/osvaldoandrade/docforge/internal/infra/schema"
	"gopkg.in/yaml.v3"
)

//go:embed schema.json
var configSchema []byte

var ErrConfigNotFound = errors.New("no configuration files found")
var ErrInvalidConfig = errors.New("invalid configuration")

// Loader reads every *.json, *.yaml and *.yml file of a directory in name
// order and folds them into one configuration with JSON merge patch.
type Loader struct {
	merger    jsonpatch.Merger
	validator *schema.Validator
	logger    *slog.Logger
}

func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		validator: schema.MustCompile("config.json", configSchema),
		logger:    logger,
	}
}

func (l *Loader) Load(ctx context.Context, dir string) (domain.Config, error) {
	if err := ctx.Err(); err != nil {
		return domain.Config{}, err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return domain.Config{}, fmt.Errorf("read config dir: %w", err)
	}

	var docs [][]byte
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		path := filepath.Join(dir, name)
		doc, ok, err := readDocument(path)
		if err != nil {
			return domain.Config{}, err
		}
		if !ok {
			continue
		}
		l.logger.Debug("config file loaded", "path", path)
		docs = append(docs, doc)
	}
	if len(docs) == 0 {
		return domain.Config{}, fmt.Errorf("%s: %w", dir, ErrConfigNotFound)
	}

	merged, err := l.merger.MergeAll(ctx, docs...)
	if err != nil {
		return domain.Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return l.Decode(ctx, merged)
}

// Decode validates a merged configuration document and applies defaults.
func (l *Loader) Decode(ctx context.Context, data []byte) (domain.Config, error) {
	if err := l.validator.Validate(ctx, data); err != nil {
		return domain.Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	var cfg domain.Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return domain.Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	for name, profile := range cfg.Services {
		if strings.TrimSpace(profile.Name) == "" {
			profile.Name = name
		}
		expandEnv(&profile)
		applyDefaults(&profile)
		cfg.Services[name] = profile
	}
	cfg.Default = strings.TrimSpace(cfg.Default)
	return cfg, nil
}

func readDocument(path string) ([]byte, bool, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".json" && ext != ".yaml" && ext != ".yml" {
		return nil, false, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false, fmt.Errorf("read config file: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, false, nil
	}
	if ext == ".json" {
		return data, true, nil
	}

	var value any
	if err := yaml.Unmarshal(data, &value); err != nil {
		return nil, false, fmt.Errorf("%s: %w: %w", path, ErrInvalidConfig, err)
	}
	out, err := json.Marshal(value)
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w: %w", path, ErrInvalidConfig, err)
	}
	return out, true, nil
}

func expandEnv(profile *domain.ServiceProfile) {
	profile.Endpoint = os.ExpandEnv(profile.Endpoint)
	profile.APIKey = os.ExpandEnv(profile.APIKey)
	profile.APIVersion = os.ExpandEnv(profile.APIVersion)
	profile.Proxy = os.ExpandEnv(profile.Proxy)
}

func applyDefaults(profile *domain.ServiceProfile) {
	defaults := domain.DefaultTunes()
	if profile.Tunes.Temperature == 0 {
		profile.Tunes.Temperature = defaults.Temperature
	}
	if profile.Tunes.TopP == 0 {
		profile.Tunes.TopP = defaults.TopP
	}
	if profile.Tunes.MaxOutputTokens == 0 {
		profile.Tunes.MaxOutputTokens = defaults.MaxOutputTokens
	}
	if profile.TimeoutSeconds == 0 {
		profile.TimeoutSeconds = 300
	}
	for i := range profile.Messages {
		profile.Messages[i].Position = domain.NormalizeMessagePosition(profile.Messages[i].Position)
		profile.Messages[i].Role = domain.NormalizeRole(profile.Messages[i].Role)
	}
}
