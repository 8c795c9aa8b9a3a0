package config

import (
	"strings"

	"github.com/evanrichards/tree-lint-ts/internal/parser"
)

// SortMarker is the annotation that opts a container into sorting
const SortMarker = "@sort"

// SortConfig contains the options of a @sort annotation
type SortConfig struct {
	SortKeys   bool // sort key-bearing containers (objects, interfaces, type literals)
	SortValues bool // sort value-bearing containers (arrays, enums, unions)
	Reverse    bool
	None       bool // explicit no-op for this node
	Shallow    bool // applies to direct children only
}

// ParseSortConfig decodes the option tokens of a @sort annotation. Unknown
// tokens are ignored. Naming neither keys nor values selects both.
func ParseSortConfig(opts parser.OptionSet) SortConfig {
	return SortConfig{
		SortKeys:   opts.Has("keys") || !opts.Has("values"),
		SortValues: opts.Has("values") || !opts.Has("keys"),
		Reverse:    opts.Has("reverse"),
		None:       opts.Has("none"),
		Shallow:    opts.Has("shallow"),
	}
}

// Deep reports whether the config propagates to nested containers
func (c SortConfig) Deep() bool {
	return !c.Shallow
}

// String renders the config in annotation form, for debugging
func (c SortConfig) String() string {
	parts := []string{SortMarker}
	if c.SortKeys != c.SortValues {
		if c.SortKeys {
			parts = append(parts, "keys")
		} else {
			parts = append(parts, "values")
		}
	}
	if c.Reverse {
		parts = append(parts, "reverse")
	}
	if c.None {
		parts = append(parts, "none")
	}
	if c.Shallow {
		parts = append(parts, "shallow")
	}
	return strings.Join(parts, ":")
}
