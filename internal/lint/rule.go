// Package lint is the rule host: it validates rule options, walks the
// syntax tree dispatching nodes to rule listeners, and collects the
// diagnostics and fixes the rules report.
package lint

import (
	"errors"
	"fmt"
	"sort"

	"github.com/google/jsonschema-go/jsonschema"

	sitter "github.com/smacker/go-tree-sitter"
)

var (
	// ErrUnknownRule is returned when a rule name is not registered.
	ErrUnknownRule = errors.New("unknown rule")
	// ErrInvalidOptions is returned when options fail a rule's schema.
	ErrInvalidOptions = errors.New("invalid rule options")
)

// Type classifies what a rule reports
type Type string

const (
	TypeProblem    Type = "problem"
	TypeSuggestion Type = "suggestion"
	TypeLayout     Type = "layout"
)

// Meta describes a rule
type Meta struct {
	Name        string
	Description string
	Type        Type
	Fixable     bool
	// Messages maps a message id to its template. Templates reference
	// report data as {{name}}.
	Messages map[string]string
	// Schema validates the rule's options. A nil schema means the rule
	// takes none.
	Schema *jsonschema.Schema
}

// Rule is a single check over one file
type Rule interface {
	Meta() Meta
	// Create returns the listeners for one file. Rules keep per-file state
	// in the closure, never on the Rule.
	Create(ctx *Context) (Listeners, error)
}

// Listener is called with a node of the type it is registered for
type Listener func(node *sitter.Node)

// Listeners maps a node type to the listener called on entering it, and
// Exit(type) to the one called on leaving it
type Listeners map[string]Listener

const exitSuffix = ":exit"

// Exit returns the listener key for leaving nodes of nodeType
func Exit(nodeType string) string {
	return nodeType + exitSuffix
}

// Registry holds the available rules by name
type Registry map[string]Rule

// NewRegistry indexes rules by name
func NewRegistry(rules ...Rule) Registry {
	r := make(Registry, len(rules))
	for _, rule := range rules {
		r[rule.Meta().Name] = rule
	}
	return r
}

// Get returns the rule called name
func (r Registry) Get(name string) (Rule, error) {
	rule, ok := r[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownRule, name)
	}
	return rule, nil
}

// Names returns the rule names in order
func (r Registry) Names() []string {
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
