package reader

import (
	"fmt"

	"github.com/andaru/xmlrows/classify"
	"github.com/andaru/xmlrows/gate"
	"github.com/andaru/xmlrows/rowbuild"
	"github.com/andaru/xmlrows/rowerr"
	"github.com/pkg/errors"
)

const (
	// DefaultDataLevel places rows directly below the document element
	DefaultDataLevel = 2
	// DefaultBatchSize is the number of rows per batch when
	// Config.BatchSize is zero
	DefaultBatchSize = 4096
)

// Config contains Reader configuration
type Config struct {
	// DataLevel is the depth of row elements; the document element
	// has depth 1. With RowLevel set it is instead the depth from
	// which elements are flattened into the row.
	DataLevel int
	// RowLevel, when non-zero, is the depth of row elements. A
	// DataLevel deeper than RowLevel then flattens every element at
	// or below DataLevel, unless FlattenLevel is also set.
	RowLevel int
	// FlattenLevel is the deepest level whose elements are kept as
	// maps; deeper elements are flattened into the row. 0 disables
	// flattening.
	FlattenLevel int
	// Projection holds the requested column paths (e.g. "a.b"). Empty,
	// or holding "*", selects every column.
	Projection []string
	// Limit is the maximum number of rows read (0: unbounded)
	Limit int64
	// BatchSize is the maximum number of rows per batch (0: default)
	BatchSize int
	// Attributes selects whose attributes are collected
	Attributes rowbuild.AttributeScope
	// Collision is the policy for repeated flattened field names
	Collision rowbuild.Collision
	// PinSchema keeps one schema across all batches of the reader
	PinSchema bool
}

// DefaultConfig returns the default reader configuration
func DefaultConfig() Config {
	return Config{DataLevel: DefaultDataLevel, BatchSize: DefaultBatchSize}
}

// compiled is a validated Config
type compiled struct {
	classifier *classify.Classifier
	projection *gate.Projection
	batchSize  int
}

// levels returns the row depth and flatten cutoff of c
func (c Config) levels() (dataLevel, flattenLevel int, err error) {
	switch {
	case c.RowLevel == 0:
		return c.DataLevel, c.FlattenLevel, nil
	case c.RowLevel < 0:
		return 0, 0, rowerr.Configuration(rowerr.WithMessage(fmt.Sprintf("row level must be >= 0, got %d", c.RowLevel)))
	case c.DataLevel < c.RowLevel:
		return 0, 0, rowerr.Configuration(rowerr.WithMessage(
			fmt.Sprintf("data level %d is above row level %d", c.DataLevel, c.RowLevel)))
	}
	flattenLevel = c.FlattenLevel
	if flattenLevel == 0 && c.DataLevel > c.RowLevel {
		flattenLevel = c.DataLevel - 1
	}
	return c.RowLevel, flattenLevel, nil
}

func (c Config) compile() (*compiled, error) {
	out := &compiled{batchSize: c.BatchSize}
	dataLevel, flattenLevel, err := c.levels()
	if err != nil {
		return nil, err
	}
	if out.classifier, err = classify.New(dataLevel, flattenLevel); err != nil {
		return nil, err
	}
	if out.projection, err = gate.ParseProjection(c.Projection); err != nil {
		return nil, errors.Wrap(err, "projection")
	}
	switch {
	case c.Limit < 0:
		return nil, rowerr.Configuration(rowerr.WithMessage(fmt.Sprintf("limit must be >= 0, got %d", c.Limit)))
	case c.BatchSize < 0:
		return nil, rowerr.Configuration(rowerr.WithMessage(fmt.Sprintf("batch size must be >= 0, got %d", c.BatchSize)))
	case c.BatchSize == 0:
		out.batchSize = DefaultBatchSize
	}
	if c.Attributes != rowbuild.AttributesRow && c.Attributes != rowbuild.AttributesAll {
		return nil, rowerr.Configuration(rowerr.WithMessage("unknown attribute scope " + c.Attributes.String()))
	}
	if c.Collision < rowbuild.CollisionFirstWins || c.Collision > rowbuild.CollisionError {
		return nil, rowerr.Configuration(rowerr.WithMessage("unknown collision policy " + c.Collision.String()))
	}
	return out, nil
}
