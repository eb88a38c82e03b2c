package fieldtree

import (
	"testing"

	"github.com/andaru/xmlrows/fieldpath"
	"github.com/stretchr/testify/assert"
)

func TestTree(t *testing.T) {
	check := assert.New(t)
	tr := New()
	attrs := tr.AddMap(Root, "attributes")
	tr.AddScalar(attrs, "id", "1")
	f1 := tr.AddMap(Root, "field1")
	tr.AddScalar(f1, "key1", "value1")
	tr.AddNull(f1, "key2", Scalar)
	tr.AddScalar(Root, "field2", "x")

	check.Equal([]string{"attributes", "field1", "field2"}, tr.Names())
	check.Equal(`{attributes:{id:"1"} field1:{key1:"value1" key2:null} field2:"x"}`, tr.String())

	v, ok := tr.Value(fieldpath.MustParse("field1.key1"))
	check.True(ok)
	check.Equal("value1", v)

	_, ok = tr.Value(fieldpath.MustParse("field1.key2"))
	check.False(ok)
	check.True(tr.IsNullAt(fieldpath.MustParse("field1.key2")))
	check.False(tr.IsNullAt(fieldpath.MustParse("field1.missing")))

	// maps have no text
	_, ok = tr.Value(fieldpath.MustParse("field1"))
	check.False(ok)

	id, ok := tr.Lookup(fieldpath.MustParse("field1"))
	if check.True(ok) {
		check.Equal(Map, tr.Kind(id))
		check.Equal("field1", tr.Name(id))
		check.Equal(Root, tr.Parent(id))
		check.Len(tr.Children(id), 2)
	}
}

func TestNullifyAndSetText(t *testing.T) {
	check := assert.New(t)
	tr := New()
	m := tr.AddMap(Root, "a")
	tr.AddScalar(m, "b", "1")
	s := tr.AddScalar(Root, "c", "old")

	tr.Nullify(m, Scalar)
	check.Equal(Scalar, tr.Kind(m))
	check.True(tr.IsNull(m))
	check.Nil(tr.Children(m))

	tr.SetText(s, "new")
	check.Equal(`{a:null c:"new"}`, tr.String())

	n := tr.Len()
	tr.Reset()
	check.Equal(1, tr.Len())
	check.Less(tr.Len(), n)
	check.Equal("{}", tr.String())
}

func TestChildFirstWins(t *testing.T) {
	check := assert.New(t)
	tr := New()
	first := tr.AddScalar(Root, "dup", "one")
	tr.AddScalar(Root, "dup", "two")
	id, ok := tr.Child(Root, "dup")
	check.True(ok)
	check.Equal(first, id)
}

func TestKindString(t *testing.T) {
	check := assert.New(t)
	check.Equal("scalar", Scalar.String())
	check.Equal("map", Map.String())
	check.Equal("Kind(7)", Kind(7).String())
}
