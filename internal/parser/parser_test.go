package parser

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseTypeScript(t *testing.T, content string) *File {
	t.Helper()
	f, err := Parse(context.Background(), "test.ts", []byte(content), LanguageTypeScript)
	require.NoError(t, err)
	t.Cleanup(f.Close)
	return f
}

func TestLanguageForPath(t *testing.T) {
	tests := []struct {
		path    string
		want    Language
		wantErr bool
	}{
		{path: "a.ts", want: LanguageTypeScript},
		{path: "dir/a.MTS", want: LanguageTypeScript},
		{path: "a.tsx", want: LanguageTSX},
		{path: "a.jsx", want: LanguageJavaScript},
		{path: "a.cjs", want: LanguageJavaScript},
		{path: "a.go", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := LanguageForPath(tt.path)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnsupportedLanguage)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestComments(t *testing.T) {
	f := parseTypeScript(t, `// first
const a = 1; /* inline */
/**
 * doc
 */
const b = 2;`)

	comments := f.Comments()
	require.Len(t, comments, 3)

	assert.False(t, comments[0].Block)
	assert.Equal(t, " first", comments[0].Value)
	assert.Equal(t, Location{Start: Position{1, 1}, End: Position{1, 9}}, comments[0].Location)

	assert.True(t, comments[1].Block)
	assert.Equal(t, " inline ", comments[1].Value)
	assert.Equal(t, 2, comments[1].Location.End.Line)

	assert.True(t, comments[2].Block)
	assert.Equal(t, "*\n * doc\n ", comments[2].Value)
	assert.Equal(t, 3, comments[2].Location.Start.Line)
	assert.Equal(t, 5, comments[2].Location.End.Line)
}

func TestPosition(t *testing.T) {
	f := parseTypeScript(t, "const é = 1;\nlet x = 2;\n")

	assert.Equal(t, Position{Line: 1, Column: 1}, f.Position(0))
	// "é" is two bytes but one column
	assert.Equal(t, Position{Line: 1, Column: 9}, f.Position(9))
	assert.Equal(t, Position{Line: 2, Column: 1}, f.Position(14))
	assert.Equal(t, Position{Line: 3, Column: 1}, f.Position(len(f.Content)))

	assert.Panics(t, func() { f.Position(len(f.Content) + 1) })
	assert.Panics(t, func() { f.Position(-1) })
}

func TestByteOffset(t *testing.T) {
	f := parseTypeScript(t, "const é = 1;")

	assert.Equal(t, 0, f.ByteOffset(0))
	assert.Equal(t, 6, f.ByteOffset(6))
	assert.Equal(t, 8, f.ByteOffset(7))
	assert.Equal(t, len(f.Content), f.ByteOffset(12))
	assert.Panics(t, func() { f.ByteOffset(13) })
}

func TestText(t *testing.T) {
	f := parseTypeScript(t, "const config = { a: 1 };")

	root := f.Root()
	assert.Equal(t, "program", root.Type())
	assert.Equal(t, "const config = { a: 1 };", f.Text(root))
}
