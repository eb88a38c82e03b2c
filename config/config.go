// Package config loads reader configuration from YAML files.
//
// A configuration file holds one format block:
//
//	format:
//	  type: xml
//	  dataLevel: 2
//	  rowLevel: 0       # non-zero: row depth, dataLevel then flattens
//	  flattenLevel: 0
//	  projection: [groupID, field1.key1]
//	  limit: 100
//	  batchSize: 4096
//	  attributes: row   # or all
//	  collision: first  # or last, error
//	  pinSchema: false
//
// Omitted keys take the reader.DefaultConfig values. Unknown keys are
// errors.
package config

import (
	"io"
	"os"

	"github.com/andaru/xmlrows/reader"
	"github.com/andaru/xmlrows/rowbuild"
	"github.com/andaru/xmlrows/rowerr"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// FormatType is the only accepted format type
const FormatType = "xml"

// File is the top level of a configuration file
type File struct {
	Format Format `yaml:"format"`
}

// Format is the YAML form of reader.Config
type Format struct {
	Type         string                  `yaml:"type"`
	DataLevel    *int                    `yaml:"dataLevel"`
	RowLevel     int                     `yaml:"rowLevel"`
	FlattenLevel int                     `yaml:"flattenLevel"`
	Projection   []string                `yaml:"projection"`
	Limit        int64                   `yaml:"limit"`
	BatchSize    int                     `yaml:"batchSize"`
	Attributes   rowbuild.AttributeScope `yaml:"attributes"`
	Collision    rowbuild.Collision      `yaml:"collision"`
	PinSchema    bool                    `yaml:"pinSchema"`
}

// Config returns the reader configuration of f
func (f Format) Config() (reader.Config, error) {
	c := reader.DefaultConfig()
	if f.Type != "" && f.Type != FormatType {
		return c, rowerr.Configuration(rowerr.WithMessage("format type must be " + FormatType + ", got " + f.Type))
	}
	if f.DataLevel != nil {
		c.DataLevel = *f.DataLevel
	}
	if f.BatchSize != 0 {
		c.BatchSize = f.BatchSize
	}
	c.RowLevel = f.RowLevel
	c.FlattenLevel = f.FlattenLevel
	c.Projection = f.Projection
	c.Limit = f.Limit
	c.Attributes = f.Attributes
	c.Collision = f.Collision
	c.PinSchema = f.PinSchema
	return c, nil
}

// Parse reads a configuration file from r. An empty file yields the
// default configuration.
func Parse(r io.Reader) (reader.Config, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var f File
	if err := dec.Decode(&f); err != nil && err != io.EOF {
		return reader.Config{}, rowerr.Configuration(rowerr.WithMessage("parse config"), rowerr.WithCause(err))
	}
	return f.Format.Config()
}

// Load reads the configuration file at name
func Load(name string) (reader.Config, error) {
	f, err := os.Open(name)
	if err != nil {
		return reader.Config{}, errors.WithStack(err)
	}
	defer f.Close()
	c, err := Parse(f)
	return c, errors.Wrap(err, name)
}
