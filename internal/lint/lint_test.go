package lint

import (
	"context"
	"io"
	"testing"

	"charm.land/log/v2"
	"github.com/google/jsonschema-go/jsonschema"

	"github.com/evanrichards/tree-lint-ts/internal/invariant"
	"github.com/evanrichards/tree-lint-ts/internal/parser"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, src string) *parser.File {
	t.Helper()
	file, err := parser.ParseFile(context.Background(), "test.ts", []byte(src))
	require.NoError(t, err)
	t.Cleanup(file.Close)
	return file
}

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

// identRule reports every identifier called "bad" and fixes it to "good"
type identRule struct {
	create func(ctx *Context) (Listeners, error)
}

func (r identRule) Meta() Meta {
	return Meta{
		Name:     "no-bad",
		Type:     TypeProblem,
		Fixable:  true,
		Messages: map[string]string{"bad": "Identifier {{name}} is bad"},
		Schema: ObjectSchema(map[string]*jsonschema.Schema{
			"level": {Type: "integer"},
		}),
	}
}

func (r identRule) Create(ctx *Context) (Listeners, error) {
	if r.create != nil {
		return r.create(ctx)
	}
	return Listeners{
		"identifier": func(node *sitter.Node) {
			if ctx.File.Text(node) != "bad" {
				return
			}
			ctx.Report(Descriptor{
				Node:      node,
				MessageID: "bad",
				Data:      map[string]string{"name": "bad"},
				Fix: func(fixer Fixer) []TextEdit {
					return []TextEdit{fixer.ReplaceText(node, "good")}
				},
			})
		},
	}, nil
}

func TestWalkOrder(t *testing.T) {
	file := parse(t, "const a = [b];")

	var events []string
	Walk(file.Root(), func(node *sitter.Node, exit bool) {
		if exit {
			events = append(events, "/"+node.Type())
			return
		}
		events = append(events, node.Type())
	})

	assert.Equal(t, []string{
		"program",
		"lexical_declaration",
		"variable_declarator",
		"identifier", "/identifier",
		"array",
		"identifier", "/identifier",
		"/array",
		"/variable_declarator",
		"/lexical_declaration",
		"/program",
	}, events)
}

func TestLint(t *testing.T) {
	l, err := NewLinter(quietLogger(), RuleConfig{Rule: identRule{}, Options: map[string]any{"level": 2}})
	require.NoError(t, err)
	assert.Equal(t, []string{"no-bad"}, l.Rules())
	assert.True(t, l.Fixable())

	file := parse(t, "const x = bad;\nconst y = [bad];\n")
	diags, err := l.Lint(file)
	require.NoError(t, err)
	require.Len(t, diags, 2)

	assert.Equal(t, Diagnostic{
		Rule:      "no-bad",
		MessageID: "bad",
		Message:   "Identifier bad is bad",
		Path:      "test.ts",
		Location: parser.Location{
			Start: parser.Position{Line: 1, Column: 11},
			End:   parser.Position{Line: 1, Column: 14},
		},
		Fix: &Fix{Edits: []TextEdit{{Start: 10, End: 13, NewText: "good"}}},
	}, diags[0])
	assert.Equal(t, 2, diags[1].Location.Start.Line)
	assert.Equal(t, 12, diags[1].Location.Start.Column)
}

func TestLintRecoversAssertions(t *testing.T) {
	rule := identRule{create: func(ctx *Context) (Listeners, error) {
		return Listeners{
			Exit("program"): func(node *sitter.Node) {
				ctx.Report(Descriptor{Node: node, MessageID: "missing"})
			},
		}, nil
	}}
	l, err := NewLinter(quietLogger(), RuleConfig{Rule: rule})
	require.NoError(t, err)

	_, err = l.Lint(parse(t, "const x = 1;"))
	require.Error(t, err)
	assert.ErrorIs(t, err, invariant.ErrViolation)
	assert.Contains(t, err.Error(), `rule no-bad has no message "missing"`)
}

func TestValidateOptions(t *testing.T) {
	tests := []struct {
		name    string
		meta    Meta
		options map[string]any
		want    map[string]any
		wantErr error
	}{
		{
			name:    "valid",
			meta:    identRule{}.Meta(),
			options: map[string]any{"level": uint64(3)},
			want:    map[string]any{"level": float64(3)},
		},
		{
			name: "nil options",
			meta: identRule{}.Meta(),
			want: map[string]any{},
		},
		{
			name:    "wrong type",
			meta:    identRule{}.Meta(),
			options: map[string]any{"level": "high"},
			wantErr: ErrInvalidOptions,
		},
		{
			name:    "unknown property",
			meta:    identRule{}.Meta(),
			options: map[string]any{"colour": "red"},
			wantErr: ErrInvalidOptions,
		},
		{
			name:    "rule without options",
			meta:    Meta{Name: "plain"},
			options: map[string]any{"level": 1},
			wantErr: ErrInvalidOptions,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateOptions(tt.meta, tt.options)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestInterpolate(t *testing.T) {
	data := map[string]string{"entityType": "Object keys", "expected": "a"}
	assert.Equal(t, "Object keys: a {{missing}}", Interpolate("{{entityType}}: {{ expected }} {{missing}}", data))
	assert.Equal(t, "no data {{x}}", Interpolate("no data {{x}}", nil))
}

func TestRegistry(t *testing.T) {
	r := NewRegistry(identRule{})
	rule, err := r.Get("no-bad")
	require.NoError(t, err)
	assert.Equal(t, "no-bad", rule.Meta().Name)

	_, err = r.Get("nope")
	assert.ErrorIs(t, err, ErrUnknownRule)
	assert.Equal(t, []string{"no-bad"}, r.Names())
}

func TestFixSpan(t *testing.T) {
	f := &Fix{Edits: []TextEdit{{Start: 8, End: 10}, {Start: 2, End: 4}}}
	start, end := f.Span()
	assert.Equal(t, 2, start)
	assert.Equal(t, 10, end)
}

func TestDiagnosticString(t *testing.T) {
	d := Diagnostic{
		Rule:     "opt-in-sort",
		Message:  "Array values are not sorted: 'a' should appear before 'b'.",
		Path:     "src/a.ts",
		Location: parser.Location{Start: parser.Position{Line: 3, Column: 17}},
	}
	assert.Equal(t, "src/a.ts:3:17: Array values are not sorted: 'a' should appear before 'b'. [opt-in-sort]", d.String())
}
