package reconstruction

import (
	"testing"

	"github.com/evanrichards/tree-lint-ts/internal/invariant"
	"github.com/evanrichards/tree-lint-ts/internal/lint"

	"github.com/stretchr/testify/assert"
)

func edit(start, end int, text string) lint.TextEdit {
	return lint.TextEdit{Start: start, End: end, NewText: text}
}

func TestApply(t *testing.T) {
	content := []byte("[c, b, a] [z, y]")

	tests := []struct {
		name        string
		fixes       []*lint.Fix
		want        string
		wantApplied int
		wantSkipped int
	}{
		{
			name: "no fixes",
			want: "[c, b, a] [z, y]",
		},
		{
			name: "multi-span fix",
			fixes: []*lint.Fix{
				{Edits: []lint.TextEdit{edit(1, 2, "a"), edit(7, 8, "c")}},
			},
			want:        "[a, b, c] [z, y]",
			wantApplied: 1,
		},
		{
			name: "independent fixes in any order",
			fixes: []*lint.Fix{
				{Edits: []lint.TextEdit{edit(11, 12, "y"), edit(14, 15, "z")}},
				{Edits: []lint.TextEdit{edit(7, 8, "c"), edit(1, 2, "a")}},
			},
			want:        "[a, b, c] [y, z]",
			wantApplied: 2,
		},
		{
			name: "overlapping fix skipped",
			fixes: []*lint.Fix{
				{Edits: []lint.TextEdit{edit(0, 16, "[]")}},
				{Edits: []lint.TextEdit{edit(1, 2, "a")}},
			},
			want:        "[]",
			wantApplied: 1,
			wantSkipped: 1,
		},
		{
			name:  "nil and empty fixes ignored",
			fixes: []*lint.Fix{nil, {}},
			want:  "[c, b, a] [z, y]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Apply(content, tt.fixes)
			assert.Equal(t, tt.want, string(res.Content))
			assert.Equal(t, tt.wantApplied, res.Applied)
			assert.Equal(t, tt.wantSkipped, res.Skipped)
		})
	}
}

func TestApplyEditsOverlap(t *testing.T) {
	var err error
	func() {
		defer invariant.Recover(&err)
		ApplyEdits([]byte("abcdef"), []lint.TextEdit{edit(0, 3, "x"), edit(2, 4, "y")})
	}()
	assert.ErrorIs(t, err, invariant.ErrViolation)
}
