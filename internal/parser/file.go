package parser

import (
	"sort"
	"unicode/utf8"

	"github.com/evanrichards/tree-lint-ts/internal/invariant"

	sitter "github.com/smacker/go-tree-sitter"
)

// Position is a 1-based line and 1-based column counted in runes
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Location spans two positions, end exclusive
type Location struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// Comment is a single line or block comment of the file
type Comment struct {
	Node *sitter.Node
	// Text is the raw comment including its delimiters
	Text string
	// Value is the text without the // or /* */ delimiters
	Value     string
	Block     bool
	StartByte int
	EndByte   int
	Location  Location
}

// File is a parsed source file plus the lookups rules need on it. A File is
// owned by one goroutine.
type File struct {
	Path    string
	Content []byte

	tree        *sitter.Tree
	comments    []Comment
	scanned     bool
	lineStarts  []int
	runeOffsets []int
}

func newFile(path string, content []byte, tree *sitter.Tree) *File {
	return &File{
		Path:    path,
		Content: content,
		tree:    tree,
	}
}

// Root returns the program node
func (f *File) Root() *sitter.Node {
	return f.tree.RootNode()
}

// Close releases the syntax tree
func (f *File) Close() {
	f.tree.Close()
}

// Text returns the exact source of node
func (f *File) Text(node *sitter.Node) string {
	return string(f.Content[node.StartByte():node.EndByte()])
}

// Comments returns every comment in document order
func (f *File) Comments() []Comment {
	if f.scanned {
		return f.comments
	}
	f.scanned = true

	var traverse func(*sitter.Node)
	traverse = func(n *sitter.Node) {
		if n.Type() == "comment" {
			f.comments = append(f.comments, f.newComment(n))
			return
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			traverse(n.Child(i))
		}
	}
	traverse(f.Root())

	return f.comments
}

func (f *File) newComment(n *sitter.Node) Comment {
	text := f.Text(n)
	c := Comment{
		Node:      n,
		Text:      text,
		StartByte: int(n.StartByte()),
		EndByte:   int(n.EndByte()),
		Location:  f.NodeLocation(n),
	}
	switch {
	case len(text) >= 4 && text[:2] == "/*":
		c.Block = true
		c.Value = text[2 : len(text)-2]
	case len(text) >= 2 && text[:2] == "//":
		c.Value = text[2:]
	default:
		c.Value = text
	}
	return c
}

// NodeLocation returns the location of node
func (f *File) NodeLocation(node *sitter.Node) Location {
	return Location{
		Start: f.Position(int(node.StartByte())),
		End:   f.Position(int(node.EndByte())),
	}
}

// Position translates a byte offset into a Position. Offsets outside the
// file are an invariant violation.
func (f *File) Position(offset int) Position {
	invariant.Invariant(offset >= 0 && offset <= len(f.Content),
		"offset %d outside %s (%d bytes)", offset, f.Path, len(f.Content))

	starts := f.lines()
	line := sort.Search(len(starts), func(i int) bool { return starts[i] > offset }) - 1
	invariant.Invariant(line >= 0, "no line holds offset %d", offset)

	return Position{
		Line:   line + 1,
		Column: utf8.RuneCount(f.Content[starts[line]:offset]) + 1,
	}
}

// ByteOffset translates a rune index into a byte offset. The index one past
// the last rune maps to len(Content).
func (f *File) ByteOffset(runeIndex int) int {
	if f.runeOffsets == nil {
		offsets := make([]int, 0, len(f.Content)+1)
		for i := range string(f.Content) {
			offsets = append(offsets, i)
		}
		f.runeOffsets = append(offsets, len(f.Content))
	}
	invariant.Invariant(runeIndex >= 0 && runeIndex < len(f.runeOffsets),
		"rune index %d outside %s", runeIndex, f.Path)
	return f.runeOffsets[runeIndex]
}

// lines lazily computes the byte offset of every line start
func (f *File) lines() []int {
	if f.lineStarts == nil {
		f.lineStarts = []int{0}
		for i, b := range f.Content {
			if b == '\n' {
				f.lineStarts = append(f.lineStarts, i+1)
			}
		}
	}
	return f.lineStarts
}
