package unify

import "github.com/andaru/xmlrows/fieldtree"

// Pad returns a copy of row t laid out in the column order of s, with
// a null for every column t lacks. Null maps are given null children,
// so every padded row of a schema has the same shape. Fields of t not
// in s are dropped. Padding a padded row yields an equal row.
func Pad(t *fieldtree.Tree, s *Schema) *fieldtree.Tree {
	out := fieldtree.New()
	pad(t, fieldtree.Root, out, fieldtree.Root, s.root.Children)
	return out
}

// pad copies the fields of src node id (None for an absent or null
// map) into dst node parent
func pad(src *fieldtree.Tree, id fieldtree.NodeID, dst *fieldtree.Tree, parent fieldtree.NodeID, cols []*Column) {
	for _, col := range cols {
		n := fieldtree.None
		if id != fieldtree.None {
			if c, ok := src.Child(id, col.Name); ok && src.Kind(c) == col.Kind {
				n = c
			}
		}

		if col.Kind == fieldtree.Scalar {
			if text, ok := textOf(src, n); ok {
				dst.AddScalar(parent, col.Name, text)
			} else {
				dst.AddNull(parent, col.Name, fieldtree.Scalar)
			}
			continue
		}

		var m fieldtree.NodeID
		if n == fieldtree.None || src.IsNull(n) {
			n = fieldtree.None
			m = dst.AddNull(parent, col.Name, fieldtree.Map)
		} else {
			m = dst.AddMap(parent, col.Name)
		}
		pad(src, n, dst, m, col.Children)
	}
}

func textOf(t *fieldtree.Tree, id fieldtree.NodeID) (string, bool) {
	if id == fieldtree.None {
		return "", false
	}
	return t.Text(id)
}
