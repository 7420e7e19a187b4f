package docforgesdk

import (
	"log/slog"
	"strings"
)

type Strategy string

const (
	StrategyFile   Strategy = "file"
	StrategyFolder Strategy = "folder"
	StrategyAll    Strategy = "all"
)

// Config defines where the SDK finds service profiles and where it keeps
// the run journal.
type Config struct {
	ConfigDir string
	// GitURL, when set, is cloned or pulled into ConfigDir before the
	// configuration is loaded.
	GitURL  string
	Service string
	Journal JournalConfig
	Logger  *slog.Logger
}

// JournalConfig configures the optional SQLite run journal.
type JournalConfig struct {
	Path string
	Fast bool
}

func DefaultConfig(configDir string) Config {
	return Config{
		ConfigDir: configDir,
		Journal:   JournalConfig{Fast: true},
	}
}

func normalizeConfig(cfg Config) (Config, error) {
	if strings.TrimSpace(cfg.ConfigDir) == "" {
		return cfg, ErrConfigDirRequired
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return cfg, nil
}
