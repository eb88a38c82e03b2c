package rowerr

import (
	"bytes"
	"fmt"

	"github.com/pkg/errors"
)

// Kind represents the class of a reader error
type Kind int

const (
	// KindConfiguration is an invalid reader configuration, reported
	// before any input is read
	KindConfiguration Kind = iota
	// KindMalformedInput is unparsable XML; fatal for the rest of
	// the document
	KindMalformedInput
	// KindSchemaConflict is a field whose variant (scalar or map)
	// disagrees with earlier rows. It is recovered locally.
	KindSchemaConflict
	// KindDuplicateField is a flattened field name seen twice within
	// one row when the collision policy forbids it
	KindDuplicateField
)

func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindMalformedInput:
		return "malformed-input"
	case KindSchemaConflict:
		return "schema-conflict"
	case KindDuplicateField:
		return "duplicate-field"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

func (k *Kind) UnmarshalText(b []byte) error {
	b = bytes.TrimSpace(b)
	switch string(b) {
	case "configuration":
		*k = KindConfiguration
	case "malformed-input":
		*k = KindMalformedInput
	case "schema-conflict":
		*k = KindSchemaConflict
	case "duplicate-field":
		*k = KindDuplicateField
	default:
		return errors.New("unknown value")
	}
	return nil
}

func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Error is a reader error.
//
// Errors are returned as *Error from reader operations, either
// directly (fatal kinds) or collected on each batch (schema
// conflicts). They marshal to JSON for diagnostics output:
//
//	b, _ := json.Marshal(rowerr.SchemaConflict("a.b"))
type Error struct {
	Kind    Kind   `json:"kind"`
	Path    string `json:"path,omitempty"`
	Element string `json:"element,omitempty"`
	Line    int    `json:"line,omitempty"`
	Row     int64  `json:"row,omitempty"`
	Message string `json:"message,omitempty"`
	Err     error  `json:"-"`
}

func (e *Error) Error() string {
	s := e.Kind.String() + " error"
	if e.Path != "" {
		s += " path:" + e.Path
	}
	if e.Element != "" {
		s += " element:" + e.Element
	}
	if e.Row > 0 {
		s += fmt.Sprintf(" row:%d", e.Row)
	}
	if e.Line > 0 {
		s += fmt.Sprintf(" line:%d", e.Line)
	}
	if e.Message != "" {
		s += " " + e.Message
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

// Unwrap returns the underlying cause, if any
func (e *Error) Unwrap() error { return e.Err }

func newError(k Kind, opts []Option) *Error {
	e := &Error{Kind: k}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func Configuration(opts ...Option) *Error { return newError(KindConfiguration, opts) }

func MalformedInput(opts ...Option) *Error { return newError(KindMalformedInput, opts) }

func SchemaConflict(path string, opts ...Option) *Error {
	e := newError(KindSchemaConflict, opts)
	e.Path = path
	return e
}

func DuplicateField(name string, opts ...Option) *Error {
	e := newError(KindDuplicateField, opts)
	e.Element = name
	return e
}

// As returns the *Error found in err's chain, if any
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// Is returns true if err's chain holds an *Error of kind k
func Is(err error, k Kind) bool {
	e, ok := As(err)
	return ok && e.Kind == k
}
