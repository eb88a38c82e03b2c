// Package rowbuild assembles the field tree of one row from the XML
// events between a row element's start and its matching end.
package rowbuild

import (
	"bytes"

	"github.com/andaru/xmlrows/classify"
	"github.com/andaru/xmlrows/fieldpath"
	"github.com/andaru/xmlrows/fieldtree"
	"github.com/andaru/xmlrows/rowerr"
	"github.com/andaru/xmlrows/xmlevent"
)

// frame is an open element of the row being built
type frame struct {
	name  string
	class classify.Class
	// path is the field path the element would produce; for flattened
	// elements it is just the element name
	path fieldpath.Path
	// node is the element's map, once materialized
	node     fieldtree.NodeID
	text     []byte
	children int
	wanted   bool
	// skip marks a repeated element whose whole subtree is ignored
	skip bool
	// seen holds the names of the element's children opened so far,
	// wanted or not
	seen map[string]struct{}
	// attrPrefix is the "_" joined element path used for attribute keys
	attrPrefix string
}

// Builder builds one row at a time.
//
// Call Begin on the row element's start event, then Open, Text and
// Close for every event inside it. Close returns true when the row
// element itself closes; Take then hands over the finished tree.
// A Builder is reused for every row of a stream.
type Builder struct {
	opts   Options
	tree   *fieldtree.Tree
	frames []frame
	attrs  fieldtree.NodeID
	row    int64

	dropped int64
}

// New returns a Builder configured by opts
func New(opts Options) *Builder { return &Builder{opts: opts, attrs: fieldtree.None} }

// Dropped returns the number of repeated fields and attributes ignored
// so far, over all rows
func (b *Builder) Dropped() int64 { return b.dropped }

// InRow returns true between Begin and the row element's Close
func (b *Builder) InRow() bool { return len(b.frames) > 0 }

var attributesPath = fieldpath.Path{AttributesField}

// Begin starts a new row for the row element start event ev. row is
// the 1-based row number, used in error reports.
func (b *Builder) Begin(ev xmlevent.Event, row int64) {
	b.tree = fieldtree.New()
	b.frames = b.frames[:0]
	b.row = row
	b.push(frame{name: ev.Name, class: classify.RowStart, node: fieldtree.Root, wanted: true})

	b.attrs = fieldtree.None
	if b.opts.Projection.Wants(attributesPath) {
		b.attrs = b.tree.AddMap(fieldtree.Root, AttributesField)
	}
	b.collect(&b.frames[0], ev.Attr)
}

// push appends f, reusing the text buffer of a previous frame at the
// same depth
func (b *Builder) push(f frame) {
	if n := len(b.frames); n < cap(b.frames) {
		b.frames = b.frames[:n+1]
		f.text = b.frames[n].text[:0]
		f.seen = b.frames[n].seen
		clear(f.seen)
		b.frames[n] = f
		return
	}
	b.frames = append(b.frames, f)
}

// Open handles the start event ev of an element inside the row, of
// class Structural or Flattened.
func (b *Builder) Open(ev xmlevent.Event, class classify.Class) {
	parent := &b.frames[len(b.frames)-1]
	parent.children++

	f := frame{name: ev.Name, class: class, node: fieldtree.None}
	if parent.attrPrefix == "" {
		f.attrPrefix = ev.Name
	} else {
		f.attrPrefix = parent.attrPrefix + "_" + ev.Name
	}

	switch {
	case parent.skip:
		f.skip = true
	case class == classify.Flattened:
		f.path = fieldpath.Path{ev.Name}
		f.wanted = b.opts.Projection.Wants(f.path)
	default:
		f.path = parent.path.Append(ev.Name)
		f.wanted = b.opts.Projection.Wants(f.path)
		// first occurrence wins, whether or not it was projected
		_, dup := parent.seen[ev.Name]
		if !dup && parent.node != fieldtree.None {
			_, dup = b.tree.Child(parent.node, ev.Name)
		}
		if dup {
			f.skip = true
			b.dropped++
			break
		}
		if parent.seen == nil {
			parent.seen = make(map[string]struct{})
		}
		parent.seen[ev.Name] = struct{}{}
	}

	b.push(f)
	b.collect(&b.frames[len(b.frames)-1], ev.Attr)
}

// Text handles character data of the innermost open element
func (b *Builder) Text(text []byte) {
	f := &b.frames[len(b.frames)-1]
	if f.skip || !f.wanted || f.children > 0 || f.class == classify.RowStart {
		return
	}
	f.text = append(f.text, text...)
}

// Close handles the end event of the innermost open element. It
// returns true if that element was the row element, sealing the row.
func (b *Builder) Close() (sealed bool, err error) {
	i := len(b.frames) - 1
	f := &b.frames[i]
	defer func() { b.frames = b.frames[:i] }()

	switch {
	case f.class == classify.RowStart:
		return true, nil
	case f.skip || !f.wanted || f.children > 0:
		// maps were materialized by their descendants, if at all;
		// an element with children never becomes a scalar
		return false, nil
	case f.class == classify.Flattened:
		return false, b.flatLeaf(f)
	}

	parent := b.ensureMap(i - 1)
	if text := bytes.TrimSpace(f.text); len(text) > 0 {
		b.tree.AddScalar(parent, f.name, string(text))
	} else {
		b.tree.AddNull(parent, f.name, fieldtree.Scalar)
	}
	return false, nil
}

// ensureMap materializes the map of frame i and its ancestors
func (b *Builder) ensureMap(i int) fieldtree.NodeID {
	if id := b.frames[i].node; id != fieldtree.None {
		return id
	}
	parent := b.ensureMap(i - 1)
	id := b.tree.AddMap(parent, b.frames[i].name)
	b.frames[i].node = id
	return id
}

// flatLeaf adds a flattened leaf directly under the row
func (b *Builder) flatLeaf(f *frame) error {
	if f.name == AttributesField && b.attrs != fieldtree.None {
		b.dropped++
		return nil
	}
	text := bytes.TrimSpace(f.text)
	existing, dup := b.tree.Child(fieldtree.Root, f.name)
	if !dup {
		if len(text) > 0 {
			b.tree.AddScalar(fieldtree.Root, f.name, string(text))
		} else {
			b.tree.AddNull(fieldtree.Root, f.name, fieldtree.Scalar)
		}
		return nil
	}

	switch b.opts.Collision {
	case CollisionError:
		return rowerr.DuplicateField(f.name, rowerr.WithRow(b.row),
			rowerr.WithMessage("flattened field seen twice in one row"))
	case CollisionLastWins:
		if b.tree.Kind(existing) == fieldtree.Scalar {
			if len(text) > 0 {
				b.tree.SetText(existing, string(text))
			} else {
				b.tree.Nullify(existing, fieldtree.Scalar)
			}
			return nil
		}
	}
	b.dropped++
	return nil
}

// Take returns the sealed row and detaches it from the Builder
func (b *Builder) Take() *fieldtree.Tree {
	t := b.tree
	b.tree = nil
	return t
}
