// Package sorting checks annotated containers for sorted children and
// proposes the reordering that fixes them.
package sorting

import (
	"sort"

	"github.com/evanrichards/tree-lint-ts/internal/config"
	"github.com/evanrichards/tree-lint-ts/internal/sorting/common"
	"github.com/evanrichards/tree-lint-ts/internal/sorting/interfaces"
	"github.com/evanrichards/tree-lint-ts/internal/sorting/types"
)

// Enforcer checks one container at a time
type Enforcer struct {
	content  []byte
	compare  *common.Comparator
	reporter interfaces.Reporter
}

// NewEnforcer creates an enforcer for one file's content
func NewEnforcer(content []byte, reporter interfaces.Reporter) *Enforcer {
	return &Enforcer{
		content:  content,
		compare:  common.NewComparator(),
		reporter: reporter,
	}
}

// Enforce reports the container when its children are out of order under
// cfg, and returns whether it did
func (e *Enforcer) Enforce(c types.Container, cfg config.SortConfig) bool {
	if cfg.None {
		return false
	}
	if (c.KeyBearing() && !cfg.SortKeys) || (!c.KeyBearing() && !cfg.SortValues) {
		return false
	}

	children := c.Children()
	keys := make([]common.Key, len(children))
	for i, child := range children {
		keys[i] = common.SortKey(child, e.content)
	}

	// order[i] is the index of the child that belongs at position i
	order := make([]int, len(children))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return e.compare.Compare(keys[order[i]], keys[order[j]], cfg.Reverse) < 0
	})

	first := -1
	var replacements []interfaces.Replacement
	for i, target := range order {
		if target == i {
			continue
		}
		if first < 0 {
			first = i
		}
		replacements = append(replacements, interfaces.Replacement{
			Original: children[i],
			With:     children[target],
		})
	}
	if first < 0 {
		return false
	}

	e.reporter.ReportUnsorted(interfaces.Violation{
		Container:    c,
		Expected:     common.DisplayKey(children[order[first]], e.content),
		Actual:       common.DisplayKey(children[first], e.content),
		Replacements: replacements,
	})
	return true
}
