package xmlevent

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"

	"github.com/andaru/xmlrows/rowerr"
	"github.com/pkg/errors"
	"golang.org/x/net/html/charset"
)

// Decoder is a Source reading XML from a byte stream.
//
// It uses the raw (namespace preserving) token stream of encoding/xml
// and checks start/end element matching itself, so that tag names are
// reported exactly as written while mismatched or unterminated
// elements are still reported as malformed input.
type Decoder struct {
	d    *xml.Decoder
	open []string
	text bytes.Buffer
	err  error
}

// DecoderOption is a constructor option function for the Decoder type.
type DecoderOption func(*Decoder)

// WithStrict sets the strict mode of the underlying encoding/xml
// decoder (default true). Non-strict mode accepts common HTML-isms
// such as unquoted attribute values and unknown entities.
func WithStrict(strict bool) DecoderOption { return func(d *Decoder) { d.d.Strict = strict } }

// NewDecoder returns a Decoder reading from r. Documents declaring a
// non UTF-8 encoding are transcoded.
func NewDecoder(r io.Reader, opts ...DecoderOption) *Decoder {
	d := &Decoder{d: xml.NewDecoder(r)}
	d.d.CharsetReader = charset.NewReaderLabel
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Depth returns the number of currently open elements
func (d *Decoder) Depth() int { return len(d.open) }

func (d *Decoder) line() int {
	line, _ := d.d.InputPos()
	return line
}

// Next returns the next event. Once an error has been returned, the
// same error is returned by every later call.
func (d *Decoder) Next() (Event, error) {
	if d.err != nil {
		return Event{}, d.err
	}
	ev, err := d.next()
	if err != nil {
		d.err = err
	}
	return ev, err
}

func (d *Decoder) next() (Event, error) {
	for {
		token, err := d.d.RawToken()
		if err != nil {
			if err != io.EOF {
				return Event{}, d.malformed(err)
			}
			if len(d.open) > 0 {
				return Event{}, rowerr.MalformedInput(
					rowerr.WithElement(d.open[len(d.open)-1]),
					rowerr.WithLine(d.line()),
					rowerr.WithMessage(fmt.Sprintf("element <%s> not closed", d.open[len(d.open)-1])),
					rowerr.WithCause(io.ErrUnexpectedEOF))
			}
			return Event{}, io.EOF
		}

		switch token := token.(type) {
		case xml.StartElement:
			name := RawName(token.Name)
			d.open = append(d.open, name)
			ev := Event{Kind: StartElement, Name: name, Line: d.line()}
			if len(token.Attr) > 0 {
				ev.Attr = make([]Attr, len(token.Attr))
				for i, a := range token.Attr {
					ev.Attr[i] = Attr{Name: RawName(a.Name), Value: a.Value}
				}
			}
			return ev, nil

		case xml.EndElement:
			name := RawName(token.Name)
			if len(d.open) == 0 {
				return Event{}, rowerr.MalformedInput(
					rowerr.WithElement(name),
					rowerr.WithLine(d.line()),
					rowerr.WithMessage(fmt.Sprintf("unexpected end element </%s>", name)))
			}
			if top := d.open[len(d.open)-1]; top != name {
				return Event{}, rowerr.MalformedInput(
					rowerr.WithElement(top),
					rowerr.WithLine(d.line()),
					rowerr.WithMessage(fmt.Sprintf("element <%s> closed by </%s>", top, name)))
			}
			d.open = d.open[:len(d.open)-1]
			return Event{Kind: EndElement, Name: name, Line: d.line()}, nil

		case xml.CharData:
			if len(d.open) == 0 {
				// whitespace around the document element
				continue
			}
			d.text.Reset()
			d.text.Write(token)
			return Event{Kind: Text, Text: d.text.Bytes(), Line: d.line()}, nil

		case xml.Comment, xml.ProcInst, xml.Directive:
			// ignore comments, processing instructions and directives

		default:
			// encoding/xml defines no other token types
		}
	}
}

func (d *Decoder) malformed(err error) error {
	var opts []rowerr.Option
	if se, ok := err.(*xml.SyntaxError); ok {
		opts = append(opts, rowerr.WithLine(se.Line), rowerr.WithMessage(se.Msg))
	} else {
		opts = append(opts, rowerr.WithLine(d.line()), rowerr.WithCause(err))
	}
	if len(d.open) > 0 {
		opts = append(opts, rowerr.WithElement(d.open[len(d.open)-1]))
	}
	return errors.WithStack(rowerr.MalformedInput(opts...))
}
