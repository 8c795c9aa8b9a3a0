package rules

import (
	"regexp"
	"strings"

	"github.com/evanrichards/tree-lint-ts/internal/lint"
	"github.com/evanrichards/tree-lint-ts/internal/parser"

	sitter "github.com/smacker/go-tree-sitter"
)

// NoEmptyBlockCommentName is the name of the NoEmptyBlockComment rule
const NoEmptyBlockCommentName = "no-empty-block-comment"

const msgEmptyBlockComment = "nonEmptyBlockComment"

var blankCommentLine = regexp.MustCompile(`^(\s*\*)?\s*$`)

// NoEmptyBlockComment reports block comments without content
type NoEmptyBlockComment struct{}

func (NoEmptyBlockComment) Meta() lint.Meta {
	return lint.Meta{
		Name:        NoEmptyBlockCommentName,
		Description: "disallow block comments with empty content",
		Type:        lint.TypeLayout,
		Messages: map[string]string{
			msgEmptyBlockComment: "Block comments must have non-empty content",
		},
	}
}

func (NoEmptyBlockComment) Create(ctx *lint.Context) (lint.Listeners, error) {
	return lint.Listeners{
		"program": func(*sitter.Node) {
			for _, c := range ctx.File.Comments() {
				if IsEmptyBlockComment(c) {
					ctx.Report(lint.Descriptor{
						Location:  &c.Location,
						MessageID: msgEmptyBlockComment,
					})
				}
			}
		},
	}, nil
}

// IsEmptyBlockComment reports whether c is a block comment whose lines hold
// nothing but whitespace and gutter asterisks
func IsEmptyBlockComment(c parser.Comment) bool {
	if !c.Block {
		return false
	}
	for _, line := range strings.Split(c.Value, "\n") {
		if !blankCommentLine.MatchString(line) {
			return false
		}
	}
	return true
}
