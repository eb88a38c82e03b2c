package reader

import (
	"context"
	"io"

	"github.com/andaru/xmlrows/classify"
	"github.com/andaru/xmlrows/fieldtree"
	"github.com/andaru/xmlrows/gate"
	"github.com/andaru/xmlrows/rowbuild"
	"github.com/andaru/xmlrows/rowerr"
	"github.com/andaru/xmlrows/unify"
	"github.com/andaru/xmlrows/xmlevent"
	"go.uber.org/zap"
)

// Batch is a run of rows sharing one schema
type Batch struct {
	// Schema is the schema unified over the batch's window
	Schema *unify.Schema
	// Rows are padded to Schema, in document order
	Rows []*fieldtree.Tree
	// Conflicts are the schema conflicts recovered in Rows
	Conflicts []*rowerr.Error
}

// Len returns the number of rows in the batch
func (b *Batch) Len() int { return len(b.Rows) }

// Reader reads rows from an XML event source
type Reader struct {
	Config Config
	State  *State

	src        xmlevent.Source
	classifier *classify.Classifier
	builder    *rowbuild.Builder
	unifier    *unify.Unifier
	limit      *gate.Limit
	batchSize  int
	log        *zap.Logger

	depth int
	err   error
}

// Option is a Reader constructor option
type Option func(*options)

type options struct {
	log     *zap.Logger
	decoder []xmlevent.DecoderOption
}

// WithLogger sets the reader's logger (default: no logging)
func WithLogger(l *zap.Logger) Option { return func(o *options) { o.log = l } }

// WithDecoderOptions sets options of the XML decoder built by Open
func WithDecoderOptions(opts ...xmlevent.DecoderOption) Option {
	return func(o *options) { o.decoder = append(o.decoder, opts...) }
}

func newOptions(opts []Option) *options {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.log == nil {
		o.log = zap.NewNop()
	}
	return o
}

// New returns a Reader of the rows of src. Configuration errors are
// reported here, before any event is read.
func New(src xmlevent.Source, config Config, opts ...Option) (*Reader, error) {
	return newReader(src, config, newOptions(opts))
}

// Open returns a Reader of the XML document read from r
func Open(r io.Reader, config Config, opts ...Option) (*Reader, error) {
	o := newOptions(opts)
	return newReader(xmlevent.NewDecoder(r, o.decoder...), config, o)
}

func newReader(src xmlevent.Source, config Config, o *options) (*Reader, error) {
	c, err := config.compile()
	if err != nil {
		return nil, err
	}
	return &Reader{
		Config:     config,
		State:      &State{},
		src:        src,
		classifier: c.classifier,
		builder: rowbuild.New(rowbuild.Options{
			Projection: c.projection,
			Attributes: config.Attributes,
			Collision:  config.Collision,
		}),
		unifier:   unify.New(),
		limit:     gate.NewLimit(config.Limit),
		batchSize: c.batchSize,
		log:       o.log,
	}, nil
}

// Next returns the next batch of rows. It returns io.EOF once the
// document has been read or the row limit reached.
//
// A read failure ends the reader: rows sealed before it are returned
// as a last batch, then the error is returned by every later call.
// Cancellation of ctx is checked between rows; rows already sealed are
// returned and reading may resume with another context.
func (r *Reader) Next(ctx context.Context) (*Batch, error) {
	switch {
	case r.err != nil:
		return nil, r.err
	case r.State.Status == StatusDone, r.State.Status == StatusClosed:
		return nil, io.EOF
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.State.Status = StatusReading
	if !r.Config.PinSchema {
		r.unifier.Reset()
	}

	b := &Batch{Rows: make([]*fieldtree.Tree, 0, r.batchCap())}
	for len(b.Rows) < r.batchSize && ctx.Err() == nil {
		row, err := r.readRow()
		if err == io.EOF {
			r.State.Status = StatusDone
			break
		}
		if err != nil {
			r.fail(err)
			break
		}

		conflicts := r.unifier.Fold(row, r.State.Counters.Rows)
		for _, c := range conflicts {
			r.log.Warn("Schema conflict",
				zap.String("path", c.Path),
				zap.Int64("row", c.Row),
				zap.String("detail", c.Message))
		}
		b.Conflicts = append(b.Conflicts, conflicts...)
		r.State.Counters.Conflicts += int64(len(conflicts))
		b.Rows = append(b.Rows, row)

		if r.limit.Add() {
			r.log.Debug("Row limit reached", zap.Int64("limit", r.Config.Limit))
			r.State.Status = StatusDone
			break
		}
	}

	if len(b.Rows) == 0 {
		if r.err != nil {
			return nil, r.err
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return nil, io.EOF
	}

	b.Schema = r.unifier.Settle(int64(len(b.Rows)))
	for i, row := range b.Rows {
		b.Rows[i] = unify.Pad(row, b.Schema)
	}
	r.State.Counters.Batches++
	r.log.Debug("Batch read",
		zap.Int64("batch", r.State.Counters.Batches),
		zap.Int("rows", len(b.Rows)),
		zap.Int("columns", len(b.Schema.Paths())),
		zap.Int("conflicts", len(b.Conflicts)))
	return b, nil
}

// batchCap returns the most rows the next batch can hold
func (r *Reader) batchCap() int {
	if n := r.limit.Remaining(); n >= 0 && n < int64(r.batchSize) {
		return int(n)
	}
	return r.batchSize
}

func (r *Reader) fail(err error) {
	r.err = err
	r.State.Status = StatusError
	r.log.Error("Read failed", zap.Int64("rows", r.State.Counters.Rows), zap.Error(err))
}

// readRow pulls events until the next row is sealed
func (r *Reader) readRow() (*fieldtree.Tree, error) {
	for {
		ev, err := r.src.Next()
		if err == io.EOF && r.builder.InRow() {
			return nil, rowerr.MalformedInput(
				rowerr.WithRow(r.State.Counters.Rows+1),
				rowerr.WithMessage("document ended inside a row"),
				rowerr.WithCause(io.ErrUnexpectedEOF))
		}
		if err != nil {
			return nil, err
		}
		r.State.Counters.Events++

		switch ev.Kind {
		case xmlevent.StartElement:
			r.depth++
			switch class := r.classifier.Classify(r.depth); class {
			case classify.RowStart:
				r.builder.Begin(ev, r.State.Counters.Rows+1)
			case classify.Structural, classify.Flattened:
				r.builder.Open(ev, class)
			}

		case xmlevent.Text:
			if r.builder.InRow() {
				r.builder.Text(ev.Text)
			}

		case xmlevent.EndElement:
			r.depth--
			if !r.builder.InRow() {
				continue
			}
			sealed, err := r.builder.Close()
			if err != nil {
				return nil, err
			}
			if sealed {
				r.State.Counters.Rows++
				if n := r.builder.Dropped(); n > r.State.Counters.Duplicates {
					r.log.Debug("Repeated fields ignored",
						zap.Int64("row", r.State.Counters.Rows),
						zap.Int64("count", n-r.State.Counters.Duplicates))
					r.State.Counters.Duplicates = n
				}
				return r.builder.Take(), nil
			}
		}
	}
}

// Close closes the reader, and its source if it is an io.Closer
func (r *Reader) Close() error {
	if r.State.Status == StatusClosed {
		return nil
	}
	r.State.Status = StatusClosed
	if c, ok := r.src.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Schema returns the running schema. With Config.PinSchema it spans
// every batch read so far; otherwise only the latest batch.
func (r *Reader) Schema() *unify.Schema { return r.unifier.Schema() }
