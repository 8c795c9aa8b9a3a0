package rules

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/evanrichards/tree-lint-ts/internal/config"
	"github.com/evanrichards/tree-lint-ts/internal/lint"
	"github.com/evanrichards/tree-lint-ts/internal/parser"
	"github.com/evanrichards/tree-lint-ts/internal/sorting"
	"github.com/evanrichards/tree-lint-ts/internal/sorting/interfaces"
	"github.com/evanrichards/tree-lint-ts/internal/sorting/types"
)

// OptInSortName is the name of the OptInSort rule
const OptInSortName = "opt-in-sort"

const msgUnsorted = "unsortedKeysOrValues"

var sortScanner = parser.NewAnnotationScanner(config.SortMarker)

// OptInSort keeps the children of @sort annotated containers in order
type OptInSort struct{}

func (OptInSort) Meta() lint.Meta {
	return lint.Meta{
		Name:        OptInSortName,
		Description: "sorts object keys, array values, TS interfaces/enums/etc via an annotation",
		Type:        lint.TypeLayout,
		Fixable:     true,
		Messages: map[string]string{
			msgUnsorted: "{{entityType}} are not sorted: '{{expected}}' should appear before '{{actual}}'.",
		},
	}
}

func (OptInSort) Create(ctx *lint.Context) (lint.Listeners, error) {
	annotations := parser.ScanAnnotations(sortScanner, ctx.File.Comments(), config.ParseSortConfig)
	if len(annotations) == 0 {
		return lint.Listeners{}, nil
	}

	report := func(v interfaces.Violation) {
		ctx.Report(lint.Descriptor{
			Node:      v.Container.Node,
			MessageID: msgUnsorted,
			Data: map[string]string{
				"entityType": v.Container.Label(),
				"expected":   v.Expected,
				"actual":     v.Actual,
			},
			Fix: func(fixer lint.Fixer) []lint.TextEdit {
				edits := make([]lint.TextEdit, 0, len(v.Replacements))
				for _, r := range v.Replacements {
					edits = append(edits, fixer.ReplaceText(r.Original, ctx.File.Text(r.With)))
				}
				return edits
			},
		})
	}

	tracker := sorting.NewTracker(annotations, sorting.NewEnforcer(ctx.File.Content, interfaces.ReporterFunc(report)))

	listeners := lint.Listeners{
		lint.Exit("program"): func(*sitter.Node) {
			ctx.Logger.Debug("sort annotations checked",
				"path", ctx.File.Path,
				"annotations", len(annotations),
				"enforced", tracker.Enforced,
				"violations", tracker.Violations)
		},
	}
	for _, nodeType := range types.NodeTypes() {
		listeners[nodeType] = func(node *sitter.Node) {
			if c, ok := types.ContainerFor(node); ok {
				tracker.Enter(c)
			}
		}
		listeners[lint.Exit(nodeType)] = func(node *sitter.Node) {
			if c, ok := types.ContainerFor(node); ok {
				tracker.Exit(c)
			}
		}
	}
	return listeners, nil
}
