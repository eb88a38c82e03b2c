package rowerr

// Option is an Error option function
type Option func(*Error)

func WithMessage(msg string) Option  { return func(e *Error) { e.Message = msg } }
func WithPath(path string) Option    { return func(e *Error) { e.Path = path } }
func WithElement(name string) Option { return func(e *Error) { e.Element = name } }
func WithLine(line int) Option       { return func(e *Error) { e.Line = line } }
func WithRow(row int64) Option       { return func(e *Error) { e.Row = row } }
func WithCause(err error) Option     { return func(e *Error) { e.Err = err } }
