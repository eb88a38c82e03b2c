// Package rowjson encodes reader batches as JSON lines: one object per
// row, with fields in schema order, optionally preceded by a schema
// line per batch.
package rowjson

import (
	"io"

	"github.com/andaru/xmlrows/fieldtree"
	"github.com/andaru/xmlrows/reader"
	"github.com/andaru/xmlrows/unify"
	json "github.com/goccy/go-json"
	"github.com/pkg/errors"
)

// Row is a json.Marshaler for a row's field tree. Map fields keep
// their order; null fields encode as null.
type Row struct {
	Tree *fieldtree.Tree
}

func (r Row) MarshalJSON() ([]byte, error) { return appendNode(nil, r.Tree, fieldtree.Root) }

func appendNode(b []byte, t *fieldtree.Tree, id fieldtree.NodeID) ([]byte, error) {
	switch {
	case t.IsNull(id):
		return append(b, "null"...), nil
	case t.Kind(id) == fieldtree.Scalar:
		text, _ := t.Text(id)
		v, err := json.MarshalNoEscape(text)
		return append(b, v...), err
	}
	b = append(b, '{')
	for c := t.FirstChild(id); c != fieldtree.None; c = t.NextSibling(c) {
		if c != t.FirstChild(id) {
			b = append(b, ',')
		}
		k, err := json.MarshalNoEscape(t.Name(c))
		if err != nil {
			return nil, err
		}
		b = append(append(b, k...), ':')
		if b, err = appendNode(b, t, c); err != nil {
			return nil, err
		}
	}
	return append(b, '}'), nil
}

// Field describes one column of a schema
type Field struct {
	Name     string         `json:"name"`
	Type     fieldtree.Kind `json:"type"`
	Nullable bool           `json:"nullable"`
	Fields   []Field        `json:"fields,omitempty"`
}

// Fields returns the description of every column of s
func Fields(s *unify.Schema) []Field { return fields(s.Columns()) }

func fields(cols []*unify.Column) []Field {
	if len(cols) == 0 {
		return nil
	}
	out := make([]Field, len(cols))
	for i, c := range cols {
		out[i] = Field{Name: c.Name, Type: c.Kind, Nullable: c.Nullable, Fields: fields(c.Children)}
	}
	return out
}

type schemaLine struct {
	Schema []Field `json:"schema"`
}

// Encoder writes batches to an output stream
type Encoder struct {
	enc    *json.Encoder
	schema bool
}

// EncoderOption is a constructor option function for the Encoder type
type EncoderOption func(*Encoder)

// WithSchema sets whether each batch is preceded by a schema line
// {"schema":[...]} (default false)
func WithSchema(on bool) EncoderOption { return func(e *Encoder) { e.schema = on } }

// NewEncoder returns an Encoder writing to w
func NewEncoder(w io.Writer, opts ...EncoderOption) *Encoder {
	e := &Encoder{enc: json.NewEncoder(w)}
	e.enc.SetEscapeHTML(false)
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Encode writes batch b
func (e *Encoder) Encode(b *reader.Batch) error {
	if e.schema {
		if err := e.enc.Encode(schemaLine{Schema: Fields(b.Schema)}); err != nil {
			return errors.Wrap(err, "encode schema")
		}
	}
	for _, row := range b.Rows {
		if err := e.enc.Encode(Row{Tree: row}); err != nil {
			return errors.Wrap(err, "encode row")
		}
	}
	return nil
}
