package paths

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

var ErrPathRequired = errors.New("path is required")

func Normalize(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", ErrPathRequired
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve path: %w", err)
	}

	return absPath, nil
}

// CanonicalKey maps equivalent spellings of a path to one key: absolute,
// cleaned, forward slashes, lower case.
func CanonicalKey(path string) (string, error) {
	absPath, err := Normalize(path)
	if err != nil {
		return "", err
	}
	return strings.ToLower(filepath.ToSlash(filepath.Clean(absPath))), nil
}
