// Package types describes the syntax nodes whose children can be kept in
// order: objects, arrays, enums, interfaces, type literals and unions.
package types

import (
	"github.com/evanrichards/tree-lint-ts/internal/invariant"

	sitter "github.com/smacker/go-tree-sitter"
)

// Kind is the variant of a sortable container
type Kind int

const (
	KindObject Kind = iota
	KindArray
	KindEnum
	KindInterface
	KindTypeLiteral
	KindUnion
)

var kindByNodeType = map[string]Kind{
	"object":                KindObject,
	"array":                 KindArray,
	"enum_declaration":      KindEnum,
	"interface_declaration": KindInterface,
	"object_type":           KindTypeLiteral,
	"union_type":            KindUnion,
}

// NodeTypes lists the tree-sitter node types that can be containers
func NodeTypes() []string {
	return []string{
		"object",
		"array",
		"enum_declaration",
		"interface_declaration",
		"object_type",
		"union_type",
	}
}

// Container is a node holding an ordered child sequence
type Container struct {
	Kind Kind
	Node *sitter.Node
}

// ContainerFor returns the container rooted at node. An interface body and
// a union nested in another union belong to their parent and are not
// containers of their own.
func ContainerFor(node *sitter.Node) (Container, bool) {
	kind, ok := kindByNodeType[node.Type()]
	if !ok {
		return Container{}, false
	}

	parent := node.Parent()
	switch {
	case kind == KindTypeLiteral && parent != nil && parent.Type() == "interface_declaration":
		return Container{}, false
	case kind == KindUnion && parent != nil && parent.Type() == "union_type":
		return Container{}, false
	}

	return Container{Kind: kind, Node: node}, true
}

// Label names the container's children in messages
func (c Container) Label() string {
	switch c.Kind {
	case KindObject:
		return "Object keys"
	case KindArray:
		return "Array values"
	case KindEnum:
		return "Enum values"
	case KindInterface:
		return "Interface keys"
	case KindTypeLiteral:
		return "Type literal keys"
	case KindUnion:
		return "Union values"
	}
	invariant.Invariant(false, "unknown container kind %d", c.Kind)
	return ""
}

// KeyBearing reports whether the children are keys (sorted under
// "keys") rather than values (sorted under "values")
func (c Container) KeyBearing() bool {
	switch c.Kind {
	case KindObject, KindInterface, KindTypeLiteral:
		return true
	case KindArray, KindEnum, KindUnion:
		return false
	}
	invariant.Invariant(false, "unknown container kind %d", c.Kind)
	return false
}

// Children returns the elements in source order. Comments are skipped and
// so are array holes, which have no node.
func (c Container) Children() []*sitter.Node {
	switch c.Kind {
	case KindObject, KindArray, KindTypeLiteral:
		return namedChildren(c.Node)
	case KindEnum, KindInterface:
		body := c.Node.ChildByFieldName("body")
		if body == nil {
			return nil
		}
		return namedChildren(body)
	case KindUnion:
		return unionMembers(c.Node, nil)
	}
	invariant.Invariant(false, "unknown container kind %d", c.Kind)
	return nil
}

// unionMembers flattens the left-nested binary unions of the grammar
func unionMembers(node *sitter.Node, members []*sitter.Node) []*sitter.Node {
	for _, child := range namedChildren(node) {
		if child.Type() == "union_type" {
			members = unionMembers(child, members)
			continue
		}
		members = append(members, child)
	}
	return members
}

func namedChildren(node *sitter.Node) []*sitter.Node {
	children := make([]*sitter.Node, 0, node.NamedChildCount())
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child.Type() == "comment" {
			continue
		}
		children = append(children, child)
	}
	return children
}
