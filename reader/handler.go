package reader

import (
	"context"
	"io"
)

// Handler is the Reader handler interface.
//
// See Run for usage.
type Handler interface {
	// OnBatch is called for each batch, in stream order
	OnBatch(*Reader, *Batch)
	// OnError is called once if the read fails. Batches returned
	// before the failure remain valid.
	OnError(*Reader, error)
	// OnClose is called last, after the reader is closed
	OnClose(*Reader)
}

// HandlerFunc is a Handler receiving only batches
type HandlerFunc func(*Reader, *Batch)

func (f HandlerFunc) OnBatch(r *Reader, b *Batch) { f(r, b) }
func (f HandlerFunc) OnError(*Reader, error)      {}
func (f HandlerFunc) OnClose(*Reader)             {}

// Run executes the Reader r, using Handler h, until the document is
// read, the row limit is reached, the read fails or ctx is done. It
// returns the read error, if any.
func Run(ctx context.Context, r *Reader, h Handler) error {
	var err error
	for {
		var b *Batch
		if b, err = r.Next(ctx); err != nil {
			break
		}
		h.OnBatch(r, b)
	}
	if err == io.EOF {
		err = nil
	}
	if err != nil {
		h.OnError(r, err)
	}
	if cerr := r.Close(); err == nil {
		err = cerr
	}
	h.OnClose(r)
	return err
}

// Run executes the reader using Handler h
func (r *Reader) Run(ctx context.Context, h Handler) error { return Run(ctx, r, h) }
