// Package fieldpath provides the Path type naming a column of a row:
// the element names from the row element (exclusive) down to a field.
package fieldpath

import (
	"strings"
	"unicode"

	"github.com/andaru/xmlrows/rowerr"
)

// Separator joins path segments in the textual form of a Path
const Separator = "."

// Path is an ordered sequence of element names below the row element.
// The empty Path names the row itself.
type Path []string

// New returns a Path made of segs
func New(segs ...string) Path { return append(Path(nil), segs...) }

// Parse parses a dot separated path such as "level2.level3.field1".
//
// Segments must be non-empty and must not contain whitespace or the
// wildcard "*".
func Parse(s string) (Path, error) {
	if strings.TrimSpace(s) == "" {
		return nil, rowerr.Configuration(rowerr.WithPath(s), rowerr.WithMessage("empty path"))
	}
	segs := strings.Split(s, Separator)
	for _, seg := range segs {
		switch {
		case seg == "":
			return nil, rowerr.Configuration(rowerr.WithPath(s), rowerr.WithMessage("empty path segment"))
		case strings.Contains(seg, "*"):
			return nil, rowerr.Configuration(rowerr.WithPath(s), rowerr.WithMessage("wildcard inside path"))
		case strings.IndexFunc(seg, unicode.IsSpace) > -1:
			return nil, rowerr.Configuration(rowerr.WithPath(s), rowerr.WithMessage("whitespace in path segment"))
		}
	}
	return Path(segs), nil
}

// MustParse is like Parse but panics on error
func MustParse(s string) Path {
	p, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return p
}

func (p Path) String() string { return strings.Join(p, Separator) }

// Append returns a new Path with name added after the last segment.
// p is never modified.
func (p Path) Append(name string) Path {
	out := make(Path, len(p)+1)
	copy(out, p)
	out[len(p)] = name
	return out
}

// Last returns the final segment, or "" for the empty Path
func (p Path) Last() string {
	if len(p) == 0 {
		return ""
	}
	return p[len(p)-1]
}

// Parent returns p without its final segment
func (p Path) Parent() Path {
	if len(p) == 0 {
		return nil
	}
	return p[:len(p)-1]
}

// Equal returns true if p and q have the same segments
func (p Path) Equal(q Path) bool {
	if len(p) != len(q) {
		return false
	}
	for i := range p {
		if p[i] != q[i] {
			return false
		}
	}
	return true
}

// HasPrefix returns true if q is p or an ancestor of p
func (p Path) HasPrefix(q Path) bool { return len(q) <= len(p) && p[:len(q)].Equal(q) }

// Related returns true if either path is an ancestor of (or equal to) the other
func (p Path) Related(q Path) bool { return p.HasPrefix(q) || q.HasPrefix(p) }
