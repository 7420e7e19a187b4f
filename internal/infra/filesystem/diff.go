package filesystem

import (
	"fmt"

	"github.com/pmezard/go-difflib/difflib"
)

type Differ struct {
	Context int
}

// Diff renders a unified diff between the previous and the new content of
// path. Equal inputs produce an empty string.
func (d Differ) Diff(path, before, after string) (string, error) {
	if before == after {
		return "", nil
	}
	lines := d.Context
	if lines <= 0 {
		lines = 3
	}
	out, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(before),
		B:        difflib.SplitLines(after),
		FromFile: path + " (previous)",
		ToFile:   path,
		Context:  lines,
	})
	if err != nil {
		return "", fmt.Errorf("diff %s: %w", path, err)
	}
	return out, nil
}
