// Package fieldtree holds the field tree of a single row.
//
// Nodes live in an arena owned by the Tree and are addressed by
// integer NodeID handles, so deeply nested and irregular documents
// never build chains of owning pointers. Each node is either a Scalar
// (optional text) or a Map (ordered, named children). The root node
// is always a Map.
package fieldtree

import (
	"fmt"
	"strings"

	"github.com/andaru/xmlrows/fieldpath"
)

// Kind is the variant of a field node
type Kind uint8

const (
	// Scalar is a leaf holding optional text
	Scalar Kind = iota
	// Map holds ordered named children
	Map
)

func (k Kind) String() string {
	switch k {
	case Scalar:
		return "scalar"
	case Map:
		return "map"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// NodeID addresses a node within one Tree
type NodeID int32

const (
	// None is the invalid NodeID
	None NodeID = -1
	// Root is the NodeID of every tree's root map
	Root NodeID = 0
)

type node struct {
	name string
	text string
	kind Kind
	null bool

	parent NodeID
	first  NodeID
	last   NodeID
	next   NodeID
}

// Tree is an arena of field nodes.
//
// The zero Tree is not usable; call New.
type Tree struct {
	nodes []node
}

// New returns a Tree holding only the (empty) root map
func New() *Tree {
	t := &Tree{}
	t.Reset()
	return t
}

// Reset drops every node but the root, keeping allocated capacity
func (t *Tree) Reset() {
	t.nodes = append(t.nodes[:0], node{kind: Map, parent: None, first: None, last: None, next: None})
}

// Len returns the number of nodes in the arena, including the root
// and any nodes detached by Nullify.
func (t *Tree) Len() int { return len(t.nodes) }

func (t *Tree) add(parent NodeID, n node) NodeID {
	n.parent, n.first, n.last, n.next = parent, None, None, None
	id := NodeID(len(t.nodes))
	t.nodes = append(t.nodes, n)
	p := &t.nodes[parent]
	if p.last == None {
		p.first = id
	} else {
		t.nodes[p.last].next = id
	}
	p.last = id
	return id
}

// AddMap appends an empty map named name under parent
func (t *Tree) AddMap(parent NodeID, name string) NodeID {
	return t.add(parent, node{name: name, kind: Map})
}

// AddScalar appends a non-null scalar named name under parent
func (t *Tree) AddScalar(parent NodeID, name, text string) NodeID {
	return t.add(parent, node{name: name, text: text, kind: Scalar})
}

// AddNull appends a null node of kind k named name under parent.
// Null maps may still receive (null) children to keep a uniform shape.
func (t *Tree) AddNull(parent NodeID, name string, k Kind) NodeID {
	return t.add(parent, node{name: name, kind: k, null: true})
}

// SetText replaces a scalar's value with non-null text
func (t *Tree) SetText(id NodeID, text string) {
	n := &t.nodes[id]
	n.kind, n.text, n.null = Scalar, text, false
}

// Nullify turns id into a null node of kind k, detaching its children
func (t *Tree) Nullify(id NodeID, k Kind) {
	n := &t.nodes[id]
	n.kind, n.text, n.null = k, "", true
	n.first, n.last = None, None
}

func (t *Tree) Name(id NodeID) string { return t.nodes[id].name }
func (t *Tree) Kind(id NodeID) Kind   { return t.nodes[id].kind }
func (t *Tree) IsNull(id NodeID) bool { return t.nodes[id].null }

// Text returns a scalar's text; ok is false if the node is null or a map
func (t *Tree) Text(id NodeID) (text string, ok bool) {
	n := &t.nodes[id]
	if n.null || n.kind != Scalar {
		return "", false
	}
	return n.text, true
}

func (t *Tree) Parent(id NodeID) NodeID      { return t.nodes[id].parent }
func (t *Tree) FirstChild(id NodeID) NodeID  { return t.nodes[id].first }
func (t *Tree) NextSibling(id NodeID) NodeID { return t.nodes[id].next }

// Children returns id's children in insertion order
func (t *Tree) Children(id NodeID) []NodeID {
	var out []NodeID
	for c := t.nodes[id].first; c != None; c = t.nodes[c].next {
		out = append(out, c)
	}
	return out
}

// Child returns the first child of parent named name
func (t *Tree) Child(parent NodeID, name string) (NodeID, bool) {
	for c := t.nodes[parent].first; c != None; c = t.nodes[c].next {
		if t.nodes[c].name == name {
			return c, true
		}
	}
	return None, false
}

// Lookup finds the node at path p below the root
func (t *Tree) Lookup(p fieldpath.Path) (NodeID, bool) {
	id := Root
	for _, name := range p {
		var ok bool
		if id, ok = t.Child(id, name); !ok {
			return None, false
		}
	}
	return id, true
}

// Value returns the text of the scalar at path p. ok is false if the
// path is absent, null or names a map.
func (t *Tree) Value(p fieldpath.Path) (text string, ok bool) {
	id, found := t.Lookup(p)
	if !found {
		return "", false
	}
	return t.Text(id)
}

// IsNullAt returns true if the node at p is present and null
func (t *Tree) IsNullAt(p fieldpath.Path) bool {
	id, ok := t.Lookup(p)
	return ok && t.nodes[id].null
}

// Names returns the names of the root's children, in order
func (t *Tree) Names() []string {
	var out []string
	for c := t.nodes[Root].first; c != None; c = t.nodes[c].next {
		out = append(out, t.nodes[c].name)
	}
	return out
}

// String renders the tree compactly, e.g. {a:"x" b:{c:null}}
func (t *Tree) String() string {
	var sb strings.Builder
	t.format(&sb, Root)
	return sb.String()
}

func (t *Tree) format(sb *strings.Builder, id NodeID) {
	n := &t.nodes[id]
	switch {
	case n.kind == Scalar && n.null:
		sb.WriteString("null")
	case n.kind == Scalar:
		fmt.Fprintf(sb, "%q", n.text)
	default:
		if n.null {
			sb.WriteString("null")
			if n.first == None {
				return
			}
		}
		sb.WriteByte('{')
		for c := n.first; c != None; c = t.nodes[c].next {
			if c != n.first {
				sb.WriteByte(' ')
			}
			sb.WriteString(t.nodes[c].name)
			sb.WriteByte(':')
			t.format(sb, c)
		}
		sb.WriteByte('}')
	}
}
