package gate

import (
	"strings"

	"github.com/andaru/xmlrows/fieldpath"
)

// Wildcard selects every column
const Wildcard = "*"

// Projection is a set of requested column paths, or all columns.
//
// The nil *Projection selects all columns.
type Projection struct {
	paths []fieldpath.Path
}

// All returns the projection selecting every column
func All() *Projection { return nil }

// ParseProjection parses requested columns. An empty list, or one
// containing the wildcard, selects all columns.
func ParseProjection(columns []string) (*Projection, error) {
	p := &Projection{}
	for _, col := range columns {
		col = strings.TrimSpace(col)
		if col == Wildcard {
			return All(), nil
		}
		path, err := fieldpath.Parse(col)
		if err != nil {
			return nil, err
		}
		p.paths = append(p.paths, path)
	}
	if len(p.paths) == 0 {
		return All(), nil
	}
	return p, nil
}

// IsAll returns true if every column is selected
func (p *Projection) IsAll() bool { return p == nil }

// Paths returns the requested paths (nil when all are selected)
func (p *Projection) Paths() []fieldpath.Path {
	if p == nil {
		return nil
	}
	return p.paths
}

// Wants returns true if the field at path must be materialized: path
// is requested, is an ancestor of a requested path, or lies below one.
func (p *Projection) Wants(path fieldpath.Path) bool {
	if p == nil {
		return true
	}
	for _, want := range p.paths {
		if path.Related(want) {
			return true
		}
	}
	return false
}

func (p *Projection) String() string {
	if p == nil {
		return Wildcard
	}
	s := make([]string, len(p.paths))
	for i, path := range p.paths {
		s[i] = path.String()
	}
	return strings.Join(s, ",")
}
