package common

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"
)

// Key is the canonical string of a node. Nodes with no canonical form are
// unsortable.
type Key struct {
	Text     string
	Sortable bool
}

// Unsortable is the key of a node with no canonical form
var Unsortable = Key{}

func sortable(text string) Key {
	return Key{Text: text, Sortable: true}
}

// SortKey returns the comparison form of node. Any part without a canonical
// form makes the whole key unsortable.
func SortKey(node *sitter.Node, content []byte) Key {
	c := canonicalizer{content: content}
	return c.key(node)
}

// DisplayKey returns the form of node used in messages. A node without a
// canonical form, or a template substitution without one, renders as an
// "<Unsortable type: KIND>" tag.
func DisplayKey(node *sitter.Node, content []byte) string {
	c := canonicalizer{content: content, display: true}
	if k := c.key(node); k.Sortable {
		return k.Text
	}
	return UnsortableTag(node)
}

// UnsortableTag names the kind of a node that has no canonical form
func UnsortableTag(node *sitter.Node) string {
	return fmt.Sprintf("<Unsortable type: %s>", node.Type())
}

type canonicalizer struct {
	content []byte
	display bool
}

func (c canonicalizer) text(node *sitter.Node) string {
	return string(c.content[node.StartByte():node.EndByte()])
}

// key dispatches on the node type. Leaves return their name or value,
// wrappers recurse into the child holding the name.
func (c canonicalizer) key(node *sitter.Node) Key {
	if node == nil {
		return Unsortable
	}

	switch node.Type() {
	case "identifier", "property_identifier", "shorthand_property_identifier",
		"private_property_identifier", "type_identifier", "predefined_type",
		"this", "super", "undefined", "true", "false", "null", "regex":
		return sortable(c.text(node))
	case "nested_type_identifier":
		return sortable(strings.Join(strings.Fields(c.text(node)), ""))
	case "number":
		return sortable(NumberValue(c.text(node)))
	case "string":
		return sortable(c.cook(node))
	case "template_string":
		return c.template(node)
	case "member_expression":
		return c.path(node.ChildByFieldName("object"), node.ChildByFieldName("property"))
	case "subscript_expression":
		return c.path(node.ChildByFieldName("object"), node.ChildByFieldName("index"))
	case "pair", "method_definition", "property_signature", "method_signature", "enum_assignment":
		name := node.ChildByFieldName("key")
		if name == nil {
			name = node.ChildByFieldName("name")
		}
		return c.key(name)
	case "computed_property_name", "parenthesized_expression", "literal_type":
		return c.key(firstNamed(node))
	default:
		return Unsortable
	}
}

// path joins an access chain such as a.b.c
func (c canonicalizer) path(object, property *sitter.Node) Key {
	left, right := c.key(object), c.key(property)
	if !left.Sortable || !right.Sortable {
		return Unsortable
	}
	return sortable(left.Text + "." + right.Text)
}

// template reassembles a template literal in source order from its cooked
// chunks and a ${key} for each substitution
func (c canonicalizer) template(node *sitter.Node) Key {
	var b strings.Builder
	for _, part := range c.parts(node) {
		if part.sub == nil {
			b.WriteString(part.text)
			continue
		}
		expr := firstNamed(part.sub)
		k := c.key(expr)
		switch {
		case k.Sortable:
		case c.display && expr != nil:
			k = sortable(UnsortableTag(expr))
		default:
			return Unsortable
		}
		b.WriteString("${" + k.Text + "}")
	}
	return sortable(b.String())
}

// cook returns the value of a string literal with escapes decoded
func (c canonicalizer) cook(node *sitter.Node) string {
	var b strings.Builder
	for _, part := range c.parts(node) {
		b.WriteString(part.text)
	}
	return b.String()
}

type chunk struct {
	text string
	sub  *sitter.Node
}

// parts splits a quoted literal into cooked text and substitutions. Text
// between children is taken verbatim, which covers grammars that keep
// literal characters in hidden tokens.
func (c canonicalizer) parts(node *sitter.Node) []chunk {
	start, end := int(node.StartByte())+1, int(node.EndByte())-1
	if end < start {
		return nil
	}

	var chunks []chunk
	pos := start
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		cs, ce := int(child.StartByte()), int(child.EndByte())
		if cs < start || ce > end || child.Type() == "comment" {
			continue
		}
		if cs > pos {
			chunks = append(chunks, chunk{text: string(c.content[pos:cs])})
		}
		switch child.Type() {
		case "escape_sequence":
			chunks = append(chunks, chunk{text: Unescape(c.text(child))})
		case "template_substitution":
			chunks = append(chunks, chunk{sub: child})
		default:
			chunks = append(chunks, chunk{text: c.text(child)})
		}
		pos = ce
	}
	if pos < end {
		chunks = append(chunks, chunk{text: string(c.content[pos:end])})
	}
	return chunks
}

func firstNamed(node *sitter.Node) *sitter.Node {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		if child := node.NamedChild(i); child.Type() != "comment" {
			return child
		}
	}
	return nil
}

// Unescape decodes a single JavaScript escape sequence such as \n, \x41,
// \u0041 or \u{1F600}. Unknown escapes yield the escaped character and a
// line continuation yields nothing.
func Unescape(seq string) string {
	if len(seq) < 2 || seq[0] != '\\' {
		return seq
	}
	body := seq[1:]
	switch body[0] {
	case 'n':
		return "\n"
	case 't':
		return "\t"
	case 'r':
		return "\r"
	case 'b':
		return "\b"
	case 'f':
		return "\f"
	case 'v':
		return "\v"
	case '0':
		if len(body) == 1 {
			return "\x00"
		}
	case '\r', '\n':
		return ""
	case 'x':
		if r, ok := hexRune(body[1:]); ok {
			return string(r)
		}
	case 'u':
		hex := strings.TrimSuffix(strings.TrimPrefix(body[1:], "{"), "}")
		if r, ok := hexRune(hex); ok {
			return string(r)
		}
	}
	r, size := utf8.DecodeRuneInString(body)
	if size == len(body) && (r == '\u2028' || r == '\u2029') {
		return ""
	}
	return body
}

func hexRune(hex string) (rune, bool) {
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil || v > utf8.MaxRune {
		return 0, false
	}
	return rune(v), true
}

// NumberValue prints a numeric literal the way JavaScript prints its value:
// 0x10 is "16", 1e21 is "1e+21" and 10n is "10". Literals that cannot be
// evaluated keep their source text.
func NumberValue(raw string) string {
	text := strings.ReplaceAll(raw, "_", "")

	if bigint, ok := strings.CutSuffix(text, "n"); ok {
		if v, ok := new(big.Int).SetString(bigint, 0); ok {
			return v.String()
		}
		return raw
	}

	if len(text) > 1 && text[0] == '0' && strings.ContainsAny(text[1:2], "xXoObB01234567") {
		v, ok := new(big.Int).SetString(text, 0)
		if !ok {
			return raw
		}
		f, _ := new(big.Float).SetInt(v).Float64()
		return FormatNumber(f)
	}

	f, err := strconv.ParseFloat(text, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return raw
	}
	return FormatNumber(f)
}

// FormatNumber mirrors JavaScript's Number.prototype.toString
func FormatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}

	if abs := math.Abs(f); abs >= 1e21 || abs < 1e-6 {
		s := strconv.FormatFloat(f, 'e', -1, 64)
		mantissa, exp, _ := strings.Cut(s, "e")
		digits := strings.TrimLeft(exp[1:], "0")
		return mantissa + "e" + exp[:1] + digits
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
