package rowbuild

import (
	"github.com/andaru/xmlrows/classify"
	"github.com/andaru/xmlrows/fieldpath"
	"github.com/andaru/xmlrows/fieldtree"
	"github.com/andaru/xmlrows/xmlevent"
)

// collect adds the attributes of the element of frame f to the row's
// attributes map, subject to the attribute scope and projection.
func (b *Builder) collect(f *frame, attrs []xmlevent.Attr) {
	if len(attrs) == 0 || b.attrs == fieldtree.None || f.skip {
		return
	}
	row := f.class == classify.RowStart
	if !row && b.opts.Attributes != AttributesAll {
		return
	}
	for _, a := range attrs {
		key := a.Name
		if !row {
			key = f.attrPrefix + "_" + a.Name
		}
		if !b.opts.Projection.Wants(fieldpath.Path{AttributesField, key}) {
			continue
		}
		if _, dup := b.tree.Child(b.attrs, key); dup {
			b.dropped++
			continue
		}
		b.tree.AddScalar(b.attrs, key, a.Value)
	}
}
