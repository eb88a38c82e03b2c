package rowbuild

import (
	"io"
	"strings"
	"testing"

	"github.com/andaru/xmlrows/classify"
	"github.com/andaru/xmlrows/gate"
	"github.com/andaru/xmlrows/rowerr"
	"github.com/andaru/xmlrows/xmlevent"
	"github.com/stretchr/testify/assert"
)

// buildRows drives a Builder over input the way the reader does,
// returning each sealed row rendered with fieldtree.Tree.String.
func buildRows(input string, dataLevel, flattenLevel int, opts Options) ([]string, *Builder, error) {
	c, err := classify.New(dataLevel, flattenLevel)
	if err != nil {
		return nil, nil, err
	}
	src := xmlevent.NewDecoder(strings.NewReader(input))
	b := New(opts)
	var rows []string
	depth := 0
	for {
		ev, err := src.Next()
		if err == io.EOF {
			return rows, b, nil
		}
		if err != nil {
			return rows, b, err
		}
		switch ev.Kind {
		case xmlevent.StartElement:
			depth++
			switch class := c.Classify(depth); class {
			case classify.RowStart:
				b.Begin(ev, int64(len(rows)+1))
			case classify.Structural, classify.Flattened:
				b.Open(ev, class)
			}
		case xmlevent.Text:
			if b.InRow() {
				b.Text(ev.Text)
			}
		case xmlevent.EndElement:
			if b.InRow() {
				sealed, err := b.Close()
				if err != nil {
					return rows, b, err
				}
				if sealed {
					rows = append(rows, b.Take().String())
				}
			}
			depth--
		}
	}
}

func projection(cols ...string) *gate.Projection {
	p, err := gate.ParseProjection(cols)
	if err != nil {
		panic(err)
	}
	return p
}

func TestBuilder(t *testing.T) {
	for _, tc := range []struct {
		name         string
		input        string
		dataLevel    int
		flattenLevel int
		opts         Options
		want         []string
		wantDropped  int64
	}{
		{
			name: "flat scalars, blank and empty text are null",
			input: `<r>
  <row><a>1</a><b>  </b><c/></row>
  <row><a> padded </a></row>
</r>`,
			want: []string{
				`{attributes:{} a:"1" b:null c:null}`,
				`{attributes:{} a:"padded"}`,
			},
		},

		{
			name:  "nested maps",
			input: `<r><row><field1><key1>value1</key1><key2>value2</key2></field1></row></r>`,
			want:  []string{`{attributes:{} field1:{key1:"value1" key2:"value2"}}`},
		},

		{
			name:        "repeated names: first occurrence wins",
			input:       `<r><row><a>1</a><a>2</a><m><x>1</x></m><m><y>2</y></m></row></r>`,
			want:        []string{`{attributes:{} a:"1" m:{x:"1"}}`},
			wantDropped: 2,
		},

		{
			name:  "children win over text",
			input: `<r><row><a>text<b>1</b>more</a></row></r>`,
			want:  []string{`{attributes:{} a:{b:"1"}}`},
		},

		{
			name:  "row attributes keep raw names",
			input: `<r><row id="1" xml:lang="en"><a b="ignored">1</a></row><row/></r>`,
			want: []string{
				`{attributes:{id:"1" xml:lang:"en"} a:"1"}`,
				`{attributes:{}}`,
			},
		},

		{
			name:  "attributes of nested elements",
			input: `<books><book><title binding="paperback" subcategory="">T</title><a><b c="1"/></a></book></books>`,
			opts:  Options{Attributes: AttributesAll},
			want: []string{
				`{attributes:{title_binding:"paperback" title_subcategory:"" a_b_c:"1"} title:"T" a:{b:null}}`,
			},
		},

		{
			name:        "element named attributes collides with the reserved map",
			input:       `<r><row x="1"><attributes>y</attributes></row></r>`,
			want:        []string{`{attributes:{x:"1"}}`},
			wantDropped: 1,
		},

		{
			name:      "data level 1 makes the document element the row",
			input:     `<doc v="2"><a>1</a></doc>`,
			dataLevel: 1,
			want:      []string{`{attributes:{v:"2"} a:"1"}`},
		},

		{
			name:         "flattened leaves, first wins",
			input:        `<r><row><l2><f1>a</f1><l3><f2>b</f2><f1>c</f1></l3></l2></row></r>`,
			flattenLevel: 2,
			want:         []string{`{attributes:{} f1:"a" f2:"b"}`},
			wantDropped:  1,
		},

		{
			name:         "flattened leaves, last wins",
			input:        `<r><row><l2><f1>a</f1><l3><f2>b</f2><f1>c</f1><f2/></l3></l2></row></r>`,
			flattenLevel: 2,
			opts:         Options{Collision: CollisionLastWins},
			want:         []string{`{attributes:{} f1:"c" f2:null}`},
		},

		{
			name:         "flatten below one structural level",
			input:        `<r><row><a><b><c>1</c></b><d>2</d></a><e>3</e></row></r>`,
			flattenLevel: 3,
			want:         []string{`{attributes:{} c:"1" d:"2" e:"3"}`},
		},

		{
			name: "projection of one nested leaf",
			input: `<r><row a="1"><field1><key1>v1</key1></field1>
<field2><key3>k1</key3><nestedField1><nk1>n1</nk1><nk2>n2</nk2></nestedField1></field2></row></r>`,
			opts: Options{Projection: projection("field2.nestedField1.nk1")},
			want: []string{`{field2:{nestedField1:{nk1:"n1"}}}`},
		},

		{
			name:  "projection of attributes only",
			input: `<r><row id="7"><a>1</a></row></r>`,
			opts:  Options{Projection: projection("attributes")},
			want:  []string{`{attributes:{id:"7"}}`},
		},

		{
			name:         "projection of a flattened leaf",
			input:        `<r><row><l2><f1>a</f1><l3><f2>b</f2></l3></l2></row></r>`,
			flattenLevel: 2,
			opts:         Options{Projection: projection("f2")},
			want:         []string{`{f2:"b"}`},
		},

		{
			name:        "repeated map is skipped even when its first occurrence is not projected",
			input:       `<r><row><m><x>1</x></m><m><y>2</y></m></row></r>`,
			opts:        Options{Projection: projection("m.y")},
			want:        []string{`{}`},
			wantDropped: 1,
		},

		{
			name:         "flattened leaf named attributes is dropped",
			input:        `<r><row><a><attributes>x</attributes><b>1</b></a></row></r>`,
			flattenLevel: 2,
			opts:         Options{Collision: CollisionError},
			want:         []string{`{attributes:{} b:"1"}`},
			wantDropped:  1,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			check := assert.New(t)
			dataLevel := tc.dataLevel
			if dataLevel == 0 {
				dataLevel = 2
			}
			got, b, err := buildRows(tc.input, dataLevel, tc.flattenLevel, tc.opts)
			check.NoError(err)
			check.Equal(tc.want, got)
			if b != nil {
				check.Equal(tc.wantDropped, b.Dropped())
			}
		})
	}
}

func TestBuilderCollisionError(t *testing.T) {
	check := assert.New(t)
	input := `<r><row><f1>ok</f1></row><row><l2><f1>a</f1><l3><f1>c</f1></l3></l2></row></r>`
	got, _, err := buildRows(input, 2, 2, Options{Collision: CollisionError})
	check.Equal([]string{`{attributes:{} f1:"ok"}`}, got)
	if check.Error(err) {
		check.True(rowerr.Is(err, rowerr.KindDuplicateField))
		check.Equal("duplicate-field error element:f1 row:2 flattened field seen twice in one row", err.Error())
	}
}

func TestOptionText(t *testing.T) {
	check := assert.New(t)

	var s AttributeScope
	check.NoError(s.UnmarshalText([]byte("all")))
	check.Equal(AttributesAll, s)
	check.Error(s.UnmarshalText([]byte("some")))
	b, _ := AttributesRow.MarshalText()
	check.Equal("row", string(b))

	var c Collision
	check.NoError(c.UnmarshalText([]byte(" last ")))
	check.Equal(CollisionLastWins, c)
	check.NoError(c.UnmarshalText([]byte("error")))
	check.Equal(CollisionError, c)
	check.EqualError(c.UnmarshalText([]byte("middle")), `unknown collision policy "middle" (want first, last or error)`)
	check.Equal("Collision(5)", Collision(5).String())
}
