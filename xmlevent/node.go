package xmlevent

import (
	"io"

	"github.com/antchfx/xmlquery"
)

// nodeSource walks an xmlquery tree depth first, emitting the events
// a Decoder would have produced for the same document.
type nodeSource struct {
	root *xmlquery.Node
	cur  *xmlquery.Node
	// up is set when cur's children have all been visited
	up bool
}

// FromNode returns a Source walking n and its descendants. n is
// usually a document node returned by xmlquery.Parse, but any element
// node may be used to read a subtree.
func FromNode(n *xmlquery.Node) Source { return &nodeSource{root: n, cur: n} }

func (s *nodeSource) Next() (Event, error) {
	for s.cur != nil {
		n := s.cur
		if s.up {
			s.advance(n)
			if n.Type == xmlquery.ElementNode {
				return Event{Kind: EndElement, Name: nodeName(n)}, nil
			}
			continue
		}

		switch n.Type {
		case xmlquery.DocumentNode, xmlquery.ElementNode:
			if n.FirstChild != nil {
				s.cur = n.FirstChild
			} else {
				s.up = true
			}
			if n.Type == xmlquery.ElementNode {
				return startEvent(n), nil
			}

		case xmlquery.TextNode, xmlquery.CharDataNode:
			s.advance(n)
			if n.Parent != nil && n.Parent.Type == xmlquery.ElementNode {
				return Event{Kind: Text, Text: []byte(n.Data)}, nil
			}

		default:
			// comments, declarations and the like
			s.advance(n)
		}
	}
	return Event{}, io.EOF
}

// advance moves past n, whose subtree has been fully visited
func (s *nodeSource) advance(n *xmlquery.Node) {
	switch {
	case n == s.root:
		s.cur = nil
	case n.NextSibling != nil:
		s.cur, s.up = n.NextSibling, false
	default:
		s.cur, s.up = n.Parent, true
	}
}

func nodeName(n *xmlquery.Node) string {
	if n.Prefix == "" {
		return n.Data
	}
	return n.Prefix + ":" + n.Data
}

func startEvent(n *xmlquery.Node) Event {
	ev := Event{Kind: StartElement, Name: nodeName(n)}
	if len(n.Attr) > 0 {
		ev.Attr = make([]Attr, len(n.Attr))
		for i, a := range n.Attr {
			ev.Attr[i] = Attr{Name: RawName(a.Name), Value: a.Value}
		}
	}
	return ev
}
