package unify

import (
	"fmt"

	"github.com/andaru/xmlrows/fieldpath"
	"github.com/andaru/xmlrows/fieldtree"
	"github.com/andaru/xmlrows/rowerr"
)

// Unifier accumulates the schema of a window of rows.
//
// Fold each sealed row in stream order, then Settle once per window to
// fix nullability and take a snapshot. Columns are never removed from
// the running schema; Reset starts a new, empty window.
type Unifier struct {
	schema *Schema
	// settled is set once a window has been settled without a Reset,
	// making every later new column nullable
	settled   bool
	conflicts int64
}

// New returns a Unifier with an empty schema
func New() *Unifier { return &Unifier{schema: NewSchema()} }

// Conflicts returns the number of schema conflicts seen since New
func (u *Unifier) Conflicts() int64 { return u.conflicts }

// Fold merges row t into the running schema. Fields whose variant
// disagrees with the schema are replaced in t by a null of the
// schema's variant and reported as schema conflicts. row is the
// 1-based row number used in those reports.
func (u *Unifier) Fold(t *fieldtree.Tree, row int64) []*rowerr.Error {
	var conflicts []*rowerr.Error
	u.fold(t, fieldtree.Root, &u.schema.root, nil, row, &conflicts)
	u.conflicts += int64(len(conflicts))
	return conflicts
}

func (u *Unifier) fold(t *fieldtree.Tree, id fieldtree.NodeID, col *Column, path fieldpath.Path, row int64, conflicts *[]*rowerr.Error) {
	for n := t.FirstChild(id); n != fieldtree.None; n = t.NextSibling(n) {
		name, kind := t.Name(n), t.Kind(n)
		child, ok := col.Child(name)
		if !ok {
			child = col.add(name, kind, u.settled)
		}
		if child.Kind != kind && !child.defined && !t.IsNull(n) {
			// only empty elements so far; the first value decides
			child.Kind, child.Children, child.index = kind, nil, nil
		}

		if child.Kind != kind {
			if !t.IsNull(n) {
				*conflicts = append(*conflicts, rowerr.SchemaConflict(path.Append(name).String(),
					rowerr.WithElement(name),
					rowerr.WithRow(row),
					rowerr.WithMessage(fmt.Sprintf("%s where %s expected", kind, child.Kind))))
			}
			// an empty element is null under either variant
			t.Nullify(n, child.Kind)
			continue
		}
		if t.IsNull(n) {
			continue
		}
		child.seen++
		child.defined = true
		if kind == fieldtree.Map {
			u.fold(t, n, child, path.Append(name), row, conflicts)
		}
	}
}

// Settle fixes the nullability of every column for a window of n
// rows and returns a snapshot of the schema. A column is required
// only if it is a map holding a value in all n rows; once nullable a
// column stays nullable.
func (u *Unifier) Settle(n int64) *Schema {
	u.schema.root.walk(nil, func(_ fieldpath.Path, c *Column) {
		if c.Kind != fieldtree.Map || c.seen < n {
			c.Nullable = true
		}
		c.seen = 0
	})
	u.settled = true
	return u.schema.Clone()
}

// Schema returns the running schema. It is modified by later calls to
// Fold and Settle; use Settle for a stable snapshot.
func (u *Unifier) Schema() *Schema { return u.schema }

// Reset discards the running schema, starting a new window
func (u *Unifier) Reset() {
	u.schema = NewSchema()
	u.settled = false
}
