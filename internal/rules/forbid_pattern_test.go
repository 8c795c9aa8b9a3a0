package rules

import (
	"testing"

	"github.com/evanrichards/tree-lint-ts/internal/lint"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type span struct {
	pattern   string
	line      int
	column    int
	endColumn int
}

func TestForbidPatternEverywhere(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		patterns []any
		want     []span
	}{
		{
			name: "no patterns",
			src:  "const myVar = 5;",
		},
		{
			name:     "no match",
			src:      "const myVar = 5;",
			patterns: []any{"Bleep", "Bloop"},
		},
		{
			name:     "negative lookbehind without match",
			src:      "const blah = ctx.dataSources.enrichment.lookup();",
			patterns: []any{`/(?<!ctx\.)(D|d)ataSource/g`},
		},
		{
			name:     "object key",
			src:      "let a = {\n    x: 4\n};",
			patterns: []any{"x"},
			want:     []span{{"/x/g", 2, 5, 6}},
		},
		{
			name:     "variable name",
			src:      "const doNotAllowBlahInVarName = 5;",
			patterns: []any{"Blah"},
			want:     []span{{"/Blah/g", 1, 17, 21}},
		},
		{
			name:     "function name",
			src:      "function doNotAllowBlahInFunctionName() {\n    return 'ok';\n};",
			patterns: []any{"Blah"},
			want:     []span{{"/Blah/g", 1, 20, 24}},
		},
		{
			name:     "string literal",
			src:      "function myFunc() {\n    return 'do not allow Blah in string literal';\n};",
			patterns: []any{"Blah"},
			want:     []span{{"/Blah/g", 2, 26, 30}},
		},
		{
			name:     "every instance in a template",
			src:      "const myStr = `This is a ${type} template literal with BlahBlahBlah`;",
			patterns: []any{"Blah"},
			want: []span{
				{"/Blah/g", 1, 56, 60},
				{"/Blah/g", 1, 60, 64},
				{"/Blah/g", 1, 64, 68},
			},
		},
		{
			name:     "case insensitive",
			src:      "const doNotAllowBlahCaseInsensitive = 5;",
			patterns: []any{"/BLAH/i"},
			want:     []span{{"/BLAH/gi", 1, 17, 21}},
		},
		{
			name:     "negative lookbehind",
			src:      "const dataSources = ctx.dataSources;",
			patterns: []any{`/(?<!ctx\.)(D|d)ataSource/`},
			want:     []span{{`/(?<!ctx\.)(D|d)ataSource/g`, 1, 7, 17}},
		},
		{
			name:     "comment",
			src:      "// Can't even put Blah in a comment!",
			patterns: []any{"/Blah/"},
			want:     []span{{"/Blah/g", 1, 19, 23}},
		},
		{
			name:     "dollar does not match before a final newline",
			src:      "const x = 1; // foo\n",
			patterns: []any{"foo$"},
		},
		{
			name:     "dollar with multiline flag",
			src:      "const x = 1; // foo\n",
			patterns: []any{"/foo$/m"},
			want:     []span{{"/foo$/gm", 1, 17, 20}},
		},
		{
			name:     "digit class is ASCII only",
			src:      "const n = '\u0663';",
			patterns: []any{`\d`},
		},
		{
			name:     "word class is ASCII only",
			src:      "const n = '\u00e9';",
			patterns: []any{`'\w'`},
		},
		{
			name:     "dot matches newline with s flag",
			src:      "// a\nb",
			patterns: []any{"/a.b/s"},
			want:     []span{{"/a.b/gs", 1, 4, 2}},
		},
		{
			name:     "bare source with slashes",
			src:      "fetch('/api/v1/users');",
			patterns: []any{"/api/v1"},
			want:     []span{{`/\/api\/v1/g`, 1, 8, 15}},
		},
		{
			name:     "columns count runes",
			src:      "const é = 'Blah';",
			patterns: []any{"Blah"},
			want:     []span{{"/Blah/g", 1, 12, 16}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var options map[string]any
			if tt.patterns != nil {
				options = map[string]any{"patterns": tt.patterns}
			}
			diags, _ := run(t, ForbidPatternEverywhere{}, options, tt.src)

			var got []span
			for _, d := range diags {
				require.Equal(t, "disallowedPattern", d.MessageID)
				pattern := d.Message[len("Text matches the following disallowed pattern: "):]
				got = append(got, span{pattern, d.Location.Start.Line, d.Location.Start.Column, d.Location.End.Column})
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCompilePattern(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{input: "Blah", want: "/Blah/g"},
		{input: "/Blah/", want: "/Blah/g"},
		{input: "/a/b/im", want: "/a/b/gim"},
		{input: "/x/ysg", want: "/x/gsy"},
		{input: "/x/q", want: `/\/x\/q/g`},
		{input: "/api/v1", want: `/\/api\/v1/g`},
		{input: `\/already`, want: `/\/already/g`},
		{input: "(unclosed", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			p, err := CompilePattern(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidPattern)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.String())
		})
	}
}

func TestForbidPatternOptions(t *testing.T) {
	_, err := lint.ValidateOptions(ForbidPatternEverywhere{}.Meta(), map[string]any{"patterns": "Blah"})
	assert.ErrorIs(t, err, lint.ErrInvalidOptions)

	_, err = lint.ValidateOptions(ForbidPatternEverywhere{}.Meta(), map[string]any{"other": []any{}})
	assert.ErrorIs(t, err, lint.ErrInvalidOptions)
}
