package workspace

import (
	"fmt"
	"io"
	"strings"

	"github.com/dshills/panelink/internal/pane"
)

// NodeSnapshot is a read-only copy of one tree node.
type NodeSnapshot struct {
	ID          pane.ID
	Leaf        bool
	Orientation pane.Orientation
	Document    pane.Document
	Badge       string
	Active      bool
	Children    []NodeSnapshot
}

// AreaSnapshot is a read-only copy of one area.
type AreaSnapshot struct {
	Area      Area
	Collapsed bool
	Root      NodeSnapshot
}

// Snapshot is a read-only copy of the whole workspace, used for drawing and
// for printing the layout.
type Snapshot struct {
	Areas  []AreaSnapshot
	Active pane.ID
}

// Snapshot copies the current tree.
func (w *Workspace) Snapshot() Snapshot {
	s := Snapshot{Active: w.active}
	for a, root := range w.areas {
		s.Areas = append(s.Areas, AreaSnapshot{
			Area:      Area(a),
			Collapsed: w.collapsed[a],
			Root:      w.snapshotNode(root, 0),
		})
	}
	return s
}

func (w *Workspace) snapshotNode(n *node, depth int) NodeSnapshot {
	ns := NodeSnapshot{
		ID:          n.id,
		Leaf:        n.leaf,
		Orientation: n.orientation,
		Document:    n.doc,
		Badge:       n.badge,
		Active:      n.leaf && n.id == w.active,
	}
	if depth >= maxTreeDepth {
		return ns
	}
	for _, c := range n.children {
		ns.Children = append(ns.Children, w.snapshotNode(c, depth+1))
	}
	return ns
}

// Area returns the snapshot of area a.
func (s Snapshot) Area(a Area) AreaSnapshot {
	for _, as := range s.Areas {
		if as.Area == a {
			return as
		}
	}
	return AreaSnapshot{Area: a}
}

// Dump writes an indented outline of the layout. Leaf lines show the
// document, a "[linked]" tag when badged and "*" for the active pane.
func (s Snapshot) Dump(out io.Writer) error {
	for _, as := range s.Areas {
		state := ""
		if as.Collapsed {
			state = " (collapsed)"
		}
		if _, err := fmt.Fprintf(out, "%s%s\n", as.Area, state); err != nil {
			return err
		}
		for _, c := range as.Root.Children {
			if err := dumpNode(out, c, 1); err != nil {
				return err
			}
		}
	}
	return nil
}

func dumpNode(out io.Writer, n NodeSnapshot, depth int) error {
	indent := strings.Repeat("  ", depth)
	if !n.Leaf {
		if _, err := fmt.Fprintf(out, "%s%s split\n", indent, n.Orientation); err != nil {
			return err
		}
		for _, c := range n.Children {
			if err := dumpNode(out, c, depth+1); err != nil {
				return err
			}
		}
		return nil
	}

	doc := n.Document.String()
	if doc == "" {
		doc = "(empty)"
	}
	var b strings.Builder
	b.WriteString(indent)
	if n.Active {
		b.WriteString("* ")
	} else {
		b.WriteString("- ")
	}
	b.WriteString(n.ID.Short())
	b.WriteString(" ")
	b.WriteString(doc)
	if n.Badge != "" {
		b.WriteString(" [linked]")
	}
	b.WriteString("\n")
	_, err := io.WriteString(out, b.String())
	return err
}
