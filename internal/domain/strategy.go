package domain

import (
	"fmt"
	"strings"
)

type ParseStrategy string

const (
	StrategyFileByFile ParseStrategy = "file"
	StrategyByFolder   ParseStrategy = "folder"
	StrategyOneShot    ParseStrategy = "all"
)

const DefaultStrategy = StrategyFileByFile

const DefaultPattern = "*.*"

func (s ParseStrategy) IsValid() bool {
	return s == StrategyFileByFile || s == StrategyByFolder || s == StrategyOneShot
}

func ParseParseStrategy(value string) (ParseStrategy, error) {
	parsed := ParseStrategy(strings.ToLower(strings.TrimSpace(value)))
	if parsed == "" {
		return "", fmt.Errorf("parse strategy is required: %w", ErrInvalidStrategy)
	}
	if !parsed.IsValid() {
		return "", fmt.Errorf("%s: %w", value, ErrInvalidStrategy)
	}
	return parsed, nil
}

func NormalizeParseStrategy(s ParseStrategy) ParseStrategy {
	if s.IsValid() {
		return s
	}
	return DefaultStrategy
}

// ParsePattern splits a pattern such as "*.go *.mod -folder" into its globs,
// space separated, and the strategy selected by the switch. Without a switch
// the strategy is file by file.
func ParsePattern(value string) (string, ParseStrategy) {
	fields := strings.Fields(value)
	strategy := DefaultStrategy
	globs := make([]string, 0, len(fields))
	for _, field := range fields {
		switch strings.ToLower(field) {
		case "-folder":
			strategy = StrategyByFolder
		case "-all":
			strategy = StrategyOneShot
		case "-file":
			strategy = StrategyFileByFile
		default:
			globs = append(globs, field)
		}
	}
	glob := strings.Join(globs, " ")
	if glob == "" {
		glob = DefaultPattern
	}
	return glob, strategy
}
