// Package rules holds the lint rules shipped with tree-lint-ts.
package rules

import (
	"fmt"

	"github.com/evanrichards/tree-lint-ts/internal/config"
	"github.com/evanrichards/tree-lint-ts/internal/lint"
)

// All returns every rule
func All() []lint.Rule {
	return []lint.Rule{
		ForbidPatternEverywhere{},
		NoEmptyBlockComment{},
		OptInSort{},
	}
}

// Registry indexes All by name
func Registry() lint.Registry {
	return lint.NewRegistry(All()...)
}

// Configure selects the enabled rules and their options from the config
// file. When only is non-empty it further restricts the run to those rule
// names. Names in either place that are not registered are an error.
func Configure(file *config.File, only []string) ([]lint.RuleConfig, error) {
	registry := Registry()

	if file != nil {
		for name := range file.Rules {
			if _, err := registry.Get(name); err != nil {
				return nil, fmt.Errorf("%w: in config file", err)
			}
		}
	}

	selected := map[string]bool{}
	for _, name := range only {
		if _, err := registry.Get(name); err != nil {
			return nil, err
		}
		selected[name] = true
	}

	var configs []lint.RuleConfig
	for _, name := range registry.Names() {
		settings := file.Rule(name)
		if !settings.IsEnabled() {
			continue
		}
		if len(selected) > 0 && !selected[name] {
			continue
		}
		configs = append(configs, lint.RuleConfig{Rule: registry[name], Options: settings.Options})
	}
	return configs, nil
}
