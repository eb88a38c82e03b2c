// Package unify merges the field trees of a stream of rows into one
// ordered, nullable schema and pads rows to that schema's shape.
package unify

import (
	"strings"

	"github.com/andaru/xmlrows/fieldpath"
	"github.com/andaru/xmlrows/fieldtree"
)

// Column is one field of a Schema. Map columns hold their fields in
// Children, in first-sighting order.
type Column struct {
	Name     string
	Kind     fieldtree.Kind
	Nullable bool
	Children []*Column

	index map[string]int
	// seen counts the rows of the current window holding a non-null
	// value for this column
	seen int64
	// defined is set once any row held a non-null value; until then
	// Kind is provisional
	defined bool
}

// Child returns the field of a map column named name
func (c *Column) Child(name string) (*Column, bool) {
	if i, ok := c.index[name]; ok {
		return c.Children[i], true
	}
	return nil, false
}

func (c *Column) add(name string, k fieldtree.Kind, nullable bool) *Column {
	if c.index == nil {
		c.index = make(map[string]int)
	}
	child := &Column{Name: name, Kind: k, Nullable: nullable}
	c.index[name] = len(c.Children)
	c.Children = append(c.Children, child)
	return child
}

func (c *Column) clone() *Column {
	out := &Column{Name: c.Name, Kind: c.Kind, Nullable: c.Nullable, defined: c.defined}
	for _, child := range c.Children {
		cc := child.clone()
		if out.index == nil {
			out.index = make(map[string]int, len(c.Children))
		}
		out.index[cc.Name] = len(out.Children)
		out.Children = append(out.Children, cc)
	}
	return out
}

func (c *Column) walk(path fieldpath.Path, fn func(fieldpath.Path, *Column)) {
	for _, child := range c.Children {
		p := path.Append(child.Name)
		fn(p, child)
		child.walk(p, fn)
	}
}

// Schema is the ordered column tree of a window of rows
type Schema struct {
	root Column
}

// NewSchema returns an empty schema
func NewSchema() *Schema { return &Schema{root: Column{Kind: fieldtree.Map}} }

// Columns returns the top level columns in first-sighting order
func (s *Schema) Columns() []*Column { return s.root.Children }

// Lookup returns the column at path p
func (s *Schema) Lookup(p fieldpath.Path) (*Column, bool) {
	if len(p) == 0 {
		return nil, false
	}
	c := &s.root
	for _, name := range p {
		var ok bool
		if c, ok = c.Child(name); !ok {
			return nil, false
		}
	}
	return c, true
}

// Paths returns the path of every column, parents before children
func (s *Schema) Paths() []fieldpath.Path {
	var out []fieldpath.Path
	s.root.walk(nil, func(p fieldpath.Path, _ *Column) { out = append(out, p) })
	return out
}

// Clone returns a deep copy of s
func (s *Schema) Clone() *Schema { return &Schema{root: *s.root.clone()} }

// String renders the schema compactly. Nullable columns are suffixed
// with "?", e.g. {attributes:map{id:scalar?} a:scalar?}
func (s *Schema) String() string {
	var sb strings.Builder
	format(&sb, &s.root)
	return sb.String()
}

func format(sb *strings.Builder, c *Column) {
	sb.WriteByte('{')
	for i, child := range c.Children {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(child.Name)
		sb.WriteByte(':')
		sb.WriteString(child.Kind.String())
		if child.Nullable {
			sb.WriteByte('?')
		}
		if child.Kind == fieldtree.Map {
			format(sb, child)
		}
	}
	sb.WriteByte('}')
}
