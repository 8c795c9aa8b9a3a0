package lint

import (
	"fmt"
	"regexp"

	"charm.land/log/v2"

	"github.com/evanrichards/tree-lint-ts/internal/invariant"
	"github.com/evanrichards/tree-lint-ts/internal/parser"

	sitter "github.com/smacker/go-tree-sitter"
)

// TextEdit replaces the bytes [Start, End) of the source with NewText
type TextEdit struct {
	Start   int    `json:"start"`
	End     int    `json:"end"`
	NewText string `json:"newText"`
}

// Fix is a set of edits that must be applied together
type Fix struct {
	Edits []TextEdit `json:"edits"`
}

// Span returns the smallest byte range covering every edit
func (f *Fix) Span() (start, end int) {
	for i, e := range f.Edits {
		if i == 0 || e.Start < start {
			start = e.Start
		}
		if i == 0 || e.End > end {
			end = e.End
		}
	}
	return start, end
}

// Diagnostic is one reported problem
type Diagnostic struct {
	Rule      string          `json:"rule"`
	MessageID string          `json:"messageId"`
	Message   string          `json:"message"`
	Path      string          `json:"path"`
	Location  parser.Location `json:"location"`
	Fix       *Fix            `json:"fix,omitempty"`
}

// String formats d as "path:line:col: message [rule]"
func (d Diagnostic) String() string {
	return fmt.Sprintf("%s:%d:%d: %s [%s]", d.Path, d.Location.Start.Line, d.Location.Start.Column, d.Message, d.Rule)
}

// Fixer builds the edits of a fix
type Fixer struct {
	file *parser.File
}

// ReplaceText replaces the source of node
func (f Fixer) ReplaceText(node *sitter.Node, text string) TextEdit {
	return f.ReplaceRange(int(node.StartByte()), int(node.EndByte()), text)
}

// ReplaceRange replaces the bytes [start, end)
func (f Fixer) ReplaceRange(start, end int, text string) TextEdit {
	invariant.Invariant(0 <= start && start <= end && end <= len(f.file.Content),
		"edit [%d, %d) outside %s", start, end, f.file.Path)
	return TextEdit{Start: start, End: end, NewText: text}
}

// FixFunc returns the edits that fix a reported problem
type FixFunc func(fixer Fixer) []TextEdit

// Descriptor is what a rule reports
type Descriptor struct {
	// Node locates the problem unless Location is set
	Node      *sitter.Node
	Location  *parser.Location
	MessageID string
	Data      map[string]string
	Fix       FixFunc
}

// Context is a rule's view of the file being linted
type Context struct {
	File    *parser.File
	Options map[string]any
	Logger  *log.Logger

	meta        Meta
	diagnostics []Diagnostic
}

func newContext(meta Meta, file *parser.File, options map[string]any, logger *log.Logger) *Context {
	return &Context{
		File:    file,
		Options: options,
		Logger:  logger.WithPrefix(meta.Name),
		meta:    meta,
	}
}

// Report records a diagnostic
func (c *Context) Report(d Descriptor) {
	template, ok := c.meta.Messages[d.MessageID]
	invariant.Invariant(ok, "rule %s has no message %q", c.meta.Name, d.MessageID)

	var loc parser.Location
	if d.Location != nil {
		loc = *d.Location
	} else {
		loc = c.File.NodeLocation(invariant.Defined(d.Node, "report node"))
	}

	diag := Diagnostic{
		Rule:      c.meta.Name,
		MessageID: d.MessageID,
		Message:   Interpolate(template, d.Data),
		Path:      c.File.Path,
		Location:  loc,
	}
	if d.Fix != nil {
		invariant.Invariant(c.meta.Fixable, "rule %s is not fixable but proposed a fix", c.meta.Name)
		if edits := d.Fix(Fixer{file: c.File}); len(edits) > 0 {
			diag.Fix = &Fix{Edits: edits}
		}
	}

	c.diagnostics = append(c.diagnostics, diag)
}

var placeholder = regexp.MustCompile(`\{\{\s*([^{}]+?)\s*\}\}`)

// Interpolate fills {{name}} placeholders from data. Placeholders without
// data are left as written.
func Interpolate(template string, data map[string]string) string {
	if len(data) == 0 {
		return template
	}
	return placeholder.ReplaceAllStringFunc(template, func(m string) string {
		name := placeholder.FindStringSubmatch(m)[1]
		if v, ok := data[name]; ok {
			return v
		}
		return m
	})
}
