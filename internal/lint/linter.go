package lint

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"charm.land/log/v2"
	"github.com/google/jsonschema-go/jsonschema"

	"github.com/evanrichards/tree-lint-ts/internal/invariant"
	"github.com/evanrichards/tree-lint-ts/internal/parser"
)

// RuleConfig enables a rule with options
type RuleConfig struct {
	Rule    Rule
	Options map[string]any
}

type configuredRule struct {
	rule    Rule
	meta    Meta
	options map[string]any
}

// Linter runs a fixed set of rules over files. It holds no per-file state
// and is safe for concurrent use.
type Linter struct {
	rules  []configuredRule
	logger *log.Logger
}

// NewLinter validates every rule's options against its schema
func NewLinter(logger *log.Logger, configs ...RuleConfig) (*Linter, error) {
	l := &Linter{logger: logger}
	for _, cfg := range configs {
		meta := cfg.Rule.Meta()
		options, err := ValidateOptions(meta, cfg.Options)
		if err != nil {
			return nil, err
		}
		l.rules = append(l.rules, configuredRule{rule: cfg.Rule, meta: meta, options: options})
	}
	return l, nil
}

// Rules returns the names of the configured rules
func (l *Linter) Rules() []string {
	names := make([]string, len(l.rules))
	for i, r := range l.rules {
		names[i] = r.meta.Name
	}
	return names
}

// Fixable reports whether any configured rule can fix
func (l *Linter) Fixable() bool {
	for _, r := range l.rules {
		if r.meta.Fixable {
			return true
		}
	}
	return false
}

// Lint runs every rule over file and returns the diagnostics ordered by
// position. A failed internal assertion aborts this file only and is
// returned as an error.
func (l *Linter) Lint(file *parser.File) (diags []Diagnostic, err error) {
	defer invariant.Recover(&err)

	start := time.Now()
	if file.Root().HasError() {
		l.logger.Warn("syntax errors in file, results may be incomplete", "path", file.Path)
	}

	contexts := make([]*Context, 0, len(l.rules))
	all := make([]Listeners, 0, len(l.rules))
	for _, r := range l.rules {
		ctx := newContext(r.meta, file, r.options, l.logger)
		listeners, err := r.rule.Create(ctx)
		if err != nil {
			return nil, fmt.Errorf("%s: creating rule %s: %w", file.Path, r.meta.Name, err)
		}
		contexts = append(contexts, ctx)
		all = append(all, listeners)
	}

	if d := newDispatcher(all); !d.empty() {
		Walk(file.Root(), d.visit)
	}

	for _, ctx := range contexts {
		diags = append(diags, ctx.diagnostics...)
	}
	SortDiagnostics(diags)

	l.logger.Debug("linted", "path", file.Path, "diagnostics", len(diags), "elapsed", time.Since(start))
	return diags, nil
}

// SortDiagnostics orders diagnostics by start position, keeping report
// order for equal positions
func SortDiagnostics(diags []Diagnostic) {
	sort.SliceStable(diags, func(i, j int) bool {
		a, b := diags[i].Location.Start, diags[j].Location.Start
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Column < b.Column
	})
}

// ValidateOptions checks options against the rule's schema and returns them
// normalised to JSON types
func ValidateOptions(meta Meta, options map[string]any) (map[string]any, error) {
	if meta.Schema == nil {
		if len(options) > 0 {
			return nil, fmt.Errorf("%w: %s takes no options", ErrInvalidOptions, meta.Name)
		}
		return map[string]any{}, nil
	}

	normalized, err := normalize(options)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidOptions, meta.Name, err)
	}

	resolved, err := meta.Schema.Resolve(nil)
	if err != nil {
		return nil, fmt.Errorf("resolving schema of %s: %w", meta.Name, err)
	}
	if err := resolved.Validate(normalized); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidOptions, meta.Name, err)
	}
	return normalized, nil
}

// normalize round-trips options through JSON so that numbers, lists and
// maps decoded from YAML have the types the schema validator expects
func normalize(options map[string]any) (map[string]any, error) {
	if options == nil {
		return map[string]any{}, nil
	}
	data, err := json.Marshal(options)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ObjectSchema is a schema for an options object with the given properties
// and no others
func ObjectSchema(properties map[string]*jsonschema.Schema, required ...string) *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:                 "object",
		Properties:           properties,
		Required:             required,
		AdditionalProperties: &jsonschema.Schema{Not: &jsonschema.Schema{}},
	}
}
