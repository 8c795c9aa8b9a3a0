package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNoEmptyBlockComment(t *testing.T) {
	tests := []struct {
		name      string
		src       string
		wantLines []int
	}{
		{name: "content", src: "/**\n * Not empty\n */\n"},
		{name: "blank line then content", src: "/**\n *\n * Still not empty\n */\n"},
		{name: "empty line comment ignored", src: "//\n"},
		{name: "no space", src: "/**/", wantLines: []int{1}},
		{name: "space", src: "/* */", wantLines: []int{1}},
		{name: "gutter only", src: "/**\n *\n */\n", wantLines: []int{1}},
		{name: "trailing whitespace on gutter", src: "/**\n * \n */\n", wantLines: []int{1}},
		{
			name:      "empty after good comment",
			src:       "/**\n * Good comment, followed by empty comment\n */\nconst bleep = 4;\n/**\n *\n */\nconst bloop = 5;\n",
			wantLines: []int{5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diags, out := run(t, NoEmptyBlockComment{}, nil, tt.src)
			var lines []int
			for _, d := range diags {
				assert.Equal(t, "Block comments must have non-empty content", d.Message)
				assert.Nil(t, d.Fix)
				lines = append(lines, d.Location.Start.Line)
			}
			assert.Equal(t, tt.wantLines, lines)
			assert.Equal(t, tt.src, out)
		})
	}
}
