// Package reconstruction rebuilds file content from the fixes rules propose.
package reconstruction

import (
	"bytes"
	"sort"

	"github.com/evanrichards/tree-lint-ts/internal/invariant"
	"github.com/evanrichards/tree-lint-ts/internal/lint"
)

// Result is the outcome of applying one round of fixes
type Result struct {
	Content []byte
	Applied int
	// Skipped counts fixes left out because they overlap an applied one
	Skipped int
}

// Apply applies whole fixes in source order. A fix whose span overlaps one
// already taken is skipped; the next round, on re-linted content, gets to
// propose it again.
func Apply(content []byte, fixes []*lint.Fix) Result {
	ordered := make([]*lint.Fix, 0, len(fixes))
	for _, f := range fixes {
		if f != nil && len(f.Edits) > 0 {
			ordered = append(ordered, f)
		}
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		si, _ := ordered[i].Span()
		sj, _ := ordered[j].Span()
		return si < sj
	})

	var edits []lint.TextEdit
	res := Result{}
	lastEnd := -1
	for _, f := range ordered {
		start, end := f.Span()
		if start < lastEnd {
			res.Skipped++
			continue
		}
		edits = append(edits, f.Edits...)
		lastEnd = end
		res.Applied++
	}

	res.Content = ApplyEdits(content, edits)
	return res
}

// ApplyEdits rewrites content with non-overlapping edits
func ApplyEdits(content []byte, edits []lint.TextEdit) []byte {
	sorted := append([]lint.TextEdit(nil), edits...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Start < sorted[j].Start
	})

	var result bytes.Buffer
	result.Grow(len(content))
	pos := 0
	for _, e := range sorted {
		invariant.Invariant(e.Start >= pos && e.End >= e.Start && e.End <= len(content),
			"edit [%d, %d) overlaps or exceeds content at %d", e.Start, e.End, pos)
		result.Write(content[pos:e.Start])
		result.WriteString(e.NewText)
		pos = e.End
	}
	result.Write(content[pos:])

	return result.Bytes()
}
