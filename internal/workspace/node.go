package workspace

import (
	"github.com/dshills/panelink/internal/pane"
)

// Area identifies a top-level region of the workspace.
type Area int

const (
	// AreaMain is the primary content region.
	AreaMain Area = iota
	// AreaLeft is the left side panel.
	AreaLeft
	// AreaRight is the right side panel.
	AreaRight
)

// String returns the area name.
func (a Area) String() string {
	switch a {
	case AreaMain:
		return "main"
	case AreaLeft:
		return "left"
	case AreaRight:
		return "right"
	default:
		return "unknown"
	}
}

// ParseArea parses an area name.
func ParseArea(s string) (Area, bool) {
	switch s {
	case "main":
		return AreaMain, true
	case "left":
		return AreaLeft, true
	case "right":
		return AreaRight, true
	}
	return AreaMain, false
}

// maxTreeDepth bounds recursive walks.
const maxTreeDepth = 64

// node is either a leaf pane or a split container.
type node struct {
	id          pane.ID
	parent      *node
	children    []*node
	orientation pane.Orientation
	leaf        bool

	// Leaf state
	doc   pane.Document
	badge string
}

func (n *node) isRoot() bool {
	return n.parent == nil
}

// indexInParent returns n's position among its siblings.
func (n *node) indexInParent() int {
	if n.parent == nil {
		return -1
	}
	for i, c := range n.parent.children {
		if c == n {
			return i
		}
	}
	return -1
}

// leaves appends the leaves under n in depth-first order.
func (n *node) leaves(out []*node) []*node {
	var walk func(*node, int)
	walk = func(cur *node, depth int) {
		if cur == nil || depth > maxTreeDepth {
			return
		}
		if cur.leaf {
			out = append(out, cur)
			return
		}
		for _, c := range cur.children {
			walk(c, depth+1)
		}
	}
	walk(n, 0)
	return out
}

// root returns the top of n's tree.
func (n *node) root() *node {
	cur := n
	for depth := 0; cur.parent != nil && depth < maxTreeDepth; depth++ {
		cur = cur.parent
	}
	return cur
}

// replaceChild swaps old for repl in n's children.
func (n *node) replaceChild(old, repl *node) {
	for i, c := range n.children {
		if c == old {
			n.children[i] = repl
			repl.parent = n
			return
		}
	}
}

// removeChild drops c from n's children.
func (n *node) removeChild(c *node) {
	for i, child := range n.children {
		if child == c {
			n.children = append(n.children[:i], n.children[i+1:]...)
			c.parent = nil
			return
		}
	}
}
