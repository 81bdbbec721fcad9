package guidemask

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// TreeNode describes one level of a guide hierarchy: a scope widget and the
// nested widgets its representative entry declares.
type TreeNode struct {
	Scope  *Widget
	Nested []*Widget
}

// GuideTree is a pre-order, flattened sequence of TreeNodes.
type GuideTree []TreeNode

// BuildTree walks root and every dynamic container reachable through the
// nested widgets of its entries. When a container has no realized entry, a
// transient probe entry is constructed from its class for introspection
// only; probes are never attached to a scene. A container without realized
// entries whose class already appears among its ancestors is listed but not
// descended into, so self-nesting classes yield a finite tree.
func BuildTree(root *Widget) GuideTree {
	var tree GuideTree
	visited := make(map[*Widget]bool)
	buildTree(&tree, root, visited, nil)
	return tree
}

func buildTree(tree *GuideTree, w *Widget, visited map[*Widget]bool, classes []*EntryClass) {
	if !Alive(w) || visited[w] {
		return
	}
	if len(classes) >= debugMaxTreeDepth {
		logger.Warn("guide tree depth exceeds threshold",
			zap.String("widget", w.Name), zap.Int("threshold", debugMaxTreeDepth))
		return
	}
	visited[w] = true

	idx := len(*tree)
	*tree = append(*tree, TreeNode{Scope: w})

	c, ok := w.container.(dynamicContainer)
	if !ok {
		return
	}
	rep := representativeEntry(c)
	if rep == nil {
		return
	}
	nested := NestedWidgets(rep)
	(*tree)[idx].Nested = nested

	class := c.EntryClass()
	if rep.Probe() && classOnChain(classes, class) {
		return
	}
	classes = append(classes[:len(classes):len(classes)], class)
	for _, n := range nested {
		if IsDynamicContainer(n) {
			buildTree(tree, n, visited, classes)
		}
	}
}

func classOnChain(classes []*EntryClass, class *EntryClass) bool {
	for _, c := range classes {
		if c == class {
			return true
		}
	}
	return false
}

// representativeEntry returns the first realized entry of c, or a probe
// instance built from its entry class when none is realized yet.
func representativeEntry(c dynamicContainer) *Widget {
	for _, e := range c.realizedEntries() {
		if Alive(e) {
			return e
		}
	}
	return c.EntryClass().construct(true)
}

// Scopes returns the scope widget of every node in order.
func (t GuideTree) Scopes() []*Widget {
	out := make([]*Widget, len(t))
	for i, n := range t {
		out[i] = n.Scope
	}
	return out
}

// Widgets returns every distinct scope and nested widget in tree order.
func (t GuideTree) Widgets() []*Widget {
	seen := make(map[*Widget]bool)
	var out []*Widget
	add := func(w *Widget) {
		if w != nil && !seen[w] {
			seen[w] = true
			out = append(out, w)
		}
	}
	for _, n := range t {
		add(n.Scope)
		for _, w := range n.Nested {
			add(w)
		}
	}
	return out
}

// String renders one line per level with the scope's entry class and the
// index of each nested widget.
func (t GuideTree) String() string {
	var b strings.Builder
	for i, n := range t {
		class := "None"
		if c := EntryClassOf(n.Scope); c != nil {
			class = c.Name
		}
		fmt.Fprintf(&b, "Level %d  %s  (Entry: %s)\n", i, n.Scope.Name, class)
		for j, w := range n.Nested {
			fmt.Fprintf(&b, "  [%d] %s (%s)\n", j, w.Name, w.Kind)
		}
	}
	return b.String()
}
