// Copyright 2018 Andrew Fort

// Package xmlevent provides pull-based XML event sources.
//
// A Source yields a finite, non-restartable sequence of events, one
// per call to Next:
//
//   StartElement
//       An element was opened. Name is the raw tag name, including any
//       namespace prefix ("xsi:type"); prefixes are never resolved to
//       namespace URIs. Attr holds the element's attributes in
//       document order, also under raw names.
//
//   Text
//       Character data (including CDATA sections) inside an element.
//       An element's text may arrive as several Text events.
//
//   EndElement
//       The most recently opened element was closed.
//
// Comments, processing instructions and directives are skipped.
// Next returns io.EOF once the input is exhausted; any other error
// is a *rowerr.Error of kind malformed-input.
//
// Two sources are provided. Decoder reads a byte stream with the
// encoding/xml tokenizer and never holds more than the current token.
// FromNode walks a tree already parsed by the xmlquery package, for
// callers that hold one anyway.
package xmlevent
