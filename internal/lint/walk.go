package lint

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// Walk visits every named node below root, root included, depth first in
// document order. visit is called with exit false on the way down and with
// exit true once all of the node's children have been visited.
func Walk(root *sitter.Node, visit func(node *sitter.Node, exit bool)) {
	cursor := sitter.NewTreeCursor(root)
	defer cursor.Close()

	for {
		if node := cursor.CurrentNode(); node.IsNamed() {
			visit(node, false)
		}
		if cursor.GoToFirstChild() {
			continue
		}

		// Leave nodes until one has a next sibling
		for {
			if node := cursor.CurrentNode(); node.IsNamed() {
				visit(node, true)
			}
			if cursor.GoToNextSibling() {
				break
			}
			if !cursor.GoToParent() {
				return
			}
		}
	}
}

// dispatcher fans visits out to the listeners of every rule, in rule order
type dispatcher struct {
	enter map[string][]Listener
	exit  map[string][]Listener
}

func newDispatcher(all []Listeners) *dispatcher {
	d := &dispatcher{
		enter: map[string][]Listener{},
		exit:  map[string][]Listener{},
	}
	for _, listeners := range all {
		for key, fn := range listeners {
			if nodeType, ok := strings.CutSuffix(key, exitSuffix); ok {
				d.exit[nodeType] = append(d.exit[nodeType], fn)
				continue
			}
			d.enter[key] = append(d.enter[key], fn)
		}
	}
	return d
}

func (d *dispatcher) empty() bool {
	return len(d.enter) == 0 && len(d.exit) == 0
}

func (d *dispatcher) visit(node *sitter.Node, exit bool) {
	listeners := d.enter
	if exit {
		listeners = d.exit
	}
	for _, fn := range listeners[node.Type()] {
		fn(node)
	}
}
