package interfaces

import (
	"github.com/evanrichards/tree-lint-ts/internal/sorting/types"

	sitter "github.com/smacker/go-tree-sitter"
)

// Replacement puts the source text of With where Original stands
type Replacement struct {
	Original *sitter.Node
	With     *sitter.Node
}

// Violation describes the first out-of-order position of a container
type Violation struct {
	Container types.Container
	// Expected is the display key of the child that belongs at the position
	Expected string
	// Actual is the display key of the child found there
	Actual string
	// Replacements reorder every misplaced child in one edit
	Replacements []Replacement
}

// Reporter receives sort violations
type Reporter interface {
	ReportUnsorted(v Violation)
}

// ReporterFunc adapts a function to Reporter
type ReporterFunc func(v Violation)

// ReportUnsorted calls f(v)
func (f ReporterFunc) ReportUnsorted(v Violation) {
	f(v)
}
