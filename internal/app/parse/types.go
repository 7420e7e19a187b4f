package parse

import (
	"path/filepath"
	"strings"

	"github.com/osvaldoandrade/docforge/internal/domain"
)

// Generator maps a source file or folder base name to a target file name.
type Generator func(name string) string

func DefaultGenerator(name string) string {
	return name + ".txt"
}

// ExtensionGenerator appends ext, adding the leading dot when missing.
func ExtensionGenerator(ext string) Generator {
	ext = strings.TrimSpace(ext)
	if ext == "" {
		return DefaultGenerator
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return func(name string) string {
		return name + ext
	}
}

type Options struct {
	Sources  []string
	Target   string
	Pattern  string
	Generate Generator
}

// Unit is one document ready for the execution gate, with its index entry
// already resolved.
type Unit struct {
	Document *domain.Document
	Entry    *domain.IndexEntry
}

func (u Unit) Index() *domain.Index {
	return u.Document.Index()
}

func (u Unit) Target() string {
	return u.Document.Target()
}

func stem(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}
