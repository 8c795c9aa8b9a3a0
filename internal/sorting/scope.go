package sorting

import (
	"github.com/evanrichards/tree-lint-ts/internal/config"
	"github.com/evanrichards/tree-lint-ts/internal/invariant"
	"github.com/evanrichards/tree-lint-ts/internal/parser"
	"github.com/evanrichards/tree-lint-ts/internal/sorting/types"
)

// scopeFrame is a deep annotation that still applies to descendants
type scopeFrame struct {
	config config.SortConfig
	parent *scopeFrame
}

// Tracker follows enter and exit of containers during one walk of one file
// and decides which annotation governs each container. A deep annotation
// stays active for nested containers until its own container is exited; a
// closer annotation overrides it in the meantime.
type Tracker struct {
	annotations parser.AnnotationMap[config.SortConfig]
	enforcer    *Enforcer
	top         *scopeFrame
	depth       int

	// Enforced counts containers checked under some annotation
	Enforced int
	// Violations counts containers reported out of order
	Violations int
}

// NewTracker creates a tracker over a file's annotations
func NewTracker(annotations parser.AnnotationMap[config.SortConfig], enforcer *Enforcer) *Tracker {
	return &Tracker{
		annotations: annotations,
		enforcer:    enforcer,
	}
}

// Annotation returns the annotation written directly above the container:
// the one on a comment ending on the line before the container starts.
func (t *Tracker) Annotation(c types.Container) (config.SortConfig, bool) {
	line := int(c.Node.StartPoint().Row) + 1
	cfg, ok := t.annotations[line-1]
	return cfg, ok
}

// Enter is called when the walk enters a container
func (t *Tracker) Enter(c types.Container) {
	local, ok := t.Annotation(c)
	if ok && local.Deep() {
		t.top = &scopeFrame{config: local, parent: t.top}
		t.depth++
	}

	cfg, found := local, ok
	if !found && t.top != nil {
		cfg, found = t.top.config, true
	}
	if !found {
		return
	}

	t.Enforced++
	if t.enforcer.Enforce(c, cfg) {
		t.Violations++
	}
}

// Exit is called when the walk leaves a container
func (t *Tracker) Exit(c types.Container) {
	local, ok := t.Annotation(c)
	if !ok || !local.Deep() {
		return
	}
	invariant.Invariant(t.top != nil, "scope stack empty on exit of %s at line %d",
		c.Node.Type(), c.Node.StartPoint().Row+1)
	t.top = t.top.parent
	t.depth--
}

// Depth returns the number of active deep annotations
func (t *Tracker) Depth() int {
	return t.depth
}
