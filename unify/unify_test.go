package unify

import (
	"testing"

	"github.com/andaru/xmlrows/fieldpath"
	"github.com/andaru/xmlrows/fieldtree"
	"github.com/andaru/xmlrows/rowerr"
	"github.com/stretchr/testify/assert"
)

// row builds a tree from alternating names and values: a string adds
// a scalar, nil a null scalar and a []interface{} a nested map.
func row(fields ...interface{}) *fieldtree.Tree {
	t := fieldtree.New()
	addFields(t, fieldtree.Root, fields)
	return t
}

func addFields(t *fieldtree.Tree, parent fieldtree.NodeID, fields []interface{}) {
	for i := 0; i+1 < len(fields); i += 2 {
		name := fields[i].(string)
		switch v := fields[i+1].(type) {
		case nil:
			t.AddNull(parent, name, fieldtree.Scalar)
		case string:
			t.AddScalar(parent, name, v)
		case []interface{}:
			addFields(t, t.AddMap(parent, name), v)
		}
	}
}

type m = []interface{}

func TestUnifyAndPad(t *testing.T) {
	for _, tc := range []struct {
		name       string
		rows       []*fieldtree.Tree
		wantSchema string
		wantRows   []string
	}{
		{
			name: "flat rows with attributes",
			rows: []*fieldtree.Tree{
				row("attributes", m{"id", "1"}, "a", "x"),
				row("attributes", m{}, "a", nil, "b", "y"),
				row("attributes", m{"lang", "en"}, "b", "z"),
			},
			wantSchema: "{attributes:map{id:scalar? lang:scalar?} a:scalar? b:scalar?}",
			wantRows: []string{
				`{attributes:{id:"1" lang:null} a:"x" b:null}`,
				`{attributes:{id:null lang:null} a:null b:"y"}`,
				`{attributes:{id:null lang:"en"} a:null b:"z"}`,
			},
		},

		{
			name: "missing subtree is null along the whole path",
			rows: []*fieldtree.Tree{
				row("attributes", m{}, "l2", m{"l3", m{"l4", m{"l5", m{"leaf", "v"}}}}),
				row("attributes", m{}, "other", "x"),
			},
			wantSchema: "{attributes:map{} l2:map?{l3:map?{l4:map?{l5:map?{leaf:scalar?}}}} other:scalar?}",
			wantRows: []string{
				`{attributes:{} l2:{l3:{l4:{l5:{leaf:"v"}}}} other:null}`,
				`{attributes:{} l2:null{l3:null{l4:null{l5:null{leaf:null}}}} other:"x"}`,
			},
		},

		{
			name: "map present in every row is required",
			rows: []*fieldtree.Tree{
				row("m", m{"a", "1"}),
				row("m", m{"b", "2"}),
			},
			wantSchema: "{m:map{a:scalar? b:scalar?}}",
			wantRows: []string{
				`{m:{a:"1" b:null}}`,
				`{m:{a:null b:"2"}}`,
			},
		},

		{
			name: "empty element where a map was seen",
			rows: []*fieldtree.Tree{
				row("m", m{"a", "1"}),
				row("m", nil),
			},
			wantSchema: "{m:map?{a:scalar?}}",
			wantRows: []string{
				`{m:{a:"1"}}`,
				`{m:null{a:null}}`,
			},
		},

		{
			name: "empty element before a map was seen",
			rows: []*fieldtree.Tree{
				row("m", nil),
				row("m", m{"a", "1"}),
			},
			wantSchema: "{m:map?{a:scalar?}}",
			wantRows: []string{
				`{m:null{a:null}}`,
				`{m:{a:"1"}}`,
			},
		},

		{
			name: "empty elements before a scalar was seen",
			rows: []*fieldtree.Tree{
				row("a", nil),
				row("a", nil),
				row("a", "x"),
			},
			wantSchema: "{a:scalar?}",
			wantRows: []string{
				`{a:null}`,
				`{a:null}`,
				`{a:"x"}`,
			},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			check := assert.New(t)
			u := New()
			for i, r := range tc.rows {
				check.Empty(u.Fold(r, int64(i+1)))
			}
			s := u.Settle(int64(len(tc.rows)))
			check.Equal(tc.wantSchema, s.String())

			var got []string
			for _, r := range tc.rows {
				padded := Pad(r, s)
				got = append(got, padded.String())
				check.Equal(padded.String(), Pad(padded, s).String(), "padding is idempotent")
			}
			check.Equal(tc.wantRows, got)
		})
	}
}

func TestUnifyConflict(t *testing.T) {
	check := assert.New(t)
	u := New()
	check.Empty(u.Fold(row("a", "x", "m", m{"b", "1"}), 1))

	r2 := row("a", m{"b", "1"}, "m", "text")
	conflicts := u.Fold(r2, 2)
	if check.Len(conflicts, 2) {
		check.Equal("schema-conflict error path:a element:a row:2 map where scalar expected", conflicts[0].Error())
		check.Equal("schema-conflict error path:m element:m row:2 scalar where map expected", conflicts[1].Error())
		check.True(rowerr.Is(conflicts[1], rowerr.KindSchemaConflict))
	}
	check.Equal(int64(2), u.Conflicts())
	check.Equal(`{a:null m:null}`, r2.String())

	s := u.Settle(2)
	check.Equal("{a:scalar? m:map?{b:scalar?}}", s.String())
	check.Equal(`{a:null m:null{b:null}}`, Pad(r2, s).String())
}

func TestUnifyPinned(t *testing.T) {
	check := assert.New(t)
	u := New()

	u.Fold(row("attributes", m{}, "m", m{"a", "1"}), 1)
	check.Equal("{attributes:map{} m:map{a:scalar?}}", u.Settle(1).String())

	// columns first seen in a later window were absent before
	u.Fold(row("attributes", m{}, "m", m{"a", "2"}, "n", m{"b", "1"}), 2)
	check.Equal("{attributes:map{} m:map{a:scalar?} n:map?{b:scalar?}}", u.Settle(1).String())

	u.Fold(row("attributes", m{}), 3)
	check.Equal("{attributes:map{} m:map?{a:scalar?} n:map?{b:scalar?}}", u.Settle(1).String())

	// nullability is sticky
	u.Fold(row("attributes", m{}, "m", m{"a", "4"}), 4)
	check.Equal("{attributes:map{} m:map?{a:scalar?} n:map?{b:scalar?}}", u.Settle(1).String())

	u.Reset()
	check.Equal("{}", u.Schema().String())
	u.Fold(row("m", m{"a", "1"}), 5)
	check.Equal("{m:map{a:scalar?}}", u.Settle(1).String())
}

func TestSchemaAccessors(t *testing.T) {
	check := assert.New(t)
	u := New()
	u.Fold(row("attributes", m{"id", "1"}, "a", "x", "m", m{"b", "1", "e", m{}}), 1)
	s := u.Settle(1)

	check.Equal([]fieldpath.Path{
		{"attributes"}, {"attributes", "id"}, {"a"}, {"m"}, {"m", "b"}, {"m", "e"},
	}, s.Paths())

	c, ok := s.Lookup(fieldpath.MustParse("m.b"))
	if check.True(ok) {
		check.Equal("b", c.Name)
		check.Equal(fieldtree.Scalar, c.Kind)
		check.True(c.Nullable)
	}
	_, ok = s.Lookup(fieldpath.MustParse("m.x"))
	check.False(ok)
	_, ok = s.Lookup(nil)
	check.False(ok)

	// snapshots are not affected by later folds
	u.Fold(row("z", "1"), 2)
	check.Len(s.Columns(), 3)
	check.Len(u.Schema().Columns(), 4)
}
