package xmlevent

import (
	"encoding/xml"
	"fmt"
)

// Kind is an XML event type
type Kind int

const (
	StartElement Kind = iota
	Text
	EndElement
)

func (k Kind) String() string {
	switch k {
	case StartElement:
		return "start-element"
	case Text:
		return "text"
	case EndElement:
		return "end-element"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Attr is an attribute of a start element
type Attr struct {
	Name  string
	Value string
}

// Event is a single XML event.
//
// Text is only valid until the next call to the Source's Next method
// for sources that reuse buffers; callers retaining it must copy.
type Event struct {
	Kind Kind
	Name string
	Attr []Attr
	Text []byte
	// Line is the input line the event ended on, or 0 if unknown.
	Line int
}

// Source is a pull-based XML event stream
type Source interface {
	// Next returns the next event, or io.EOF at the end of input
	Next() (Event, error)
}

// RawName returns the raw (unresolved) name n, as written in the
// document: "local" or "prefix:local".
func RawName(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return n.Space + ":" + n.Local
}
