// Command xmlrows reads XML documents as rows and writes them to
// standard output as JSON lines.
//
//	xmlrows [flags] [FILE...]
//
// With no FILE, or when FILE is -, standard input is read. Files may
// be gzip, zstd or zip compressed.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/andaru/xmlrows/config"
	"github.com/andaru/xmlrows/input"
	"github.com/andaru/xmlrows/reader"
	"github.com/andaru/xmlrows/rowbuild"
	"github.com/andaru/xmlrows/rowerr"
	"github.com/andaru/xmlrows/rowjson"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("xmlrows", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		_, _ = fmt.Fprintln(stderr, "usage: xmlrows [flags] [FILE...]")
		fs.PrintDefaults()
	}

	defaults := reader.DefaultConfig()
	var (
		configPath string
		flags      reader.Config
		columns    string
		schema     bool
		verbose    bool
	)
	fs.StringVar(&configPath, "config", "", "YAML configuration file; flags given explicitly override it")
	fs.IntVar(&flags.DataLevel, "data-level", defaults.DataLevel, "depth of row elements (the document element has depth 1)")
	fs.IntVar(&flags.RowLevel, "row-level", 0, "depth of row elements when -data-level marks where flattening starts (0: rows at -data-level)")
	fs.IntVar(&flags.FlattenLevel, "flatten-level", 0, "flatten elements deeper than this depth into the row (0 disables)")
	fs.Int64Var(&flags.Limit, "limit", 0, "maximum number of rows (0 is unbounded)")
	fs.StringVar(&columns, "columns", "", "comma separated column paths, e.g. groupID,field1.key1 (default all)")
	fs.IntVar(&flags.BatchSize, "batch-size", defaults.BatchSize, "maximum rows per batch")
	fs.TextVar(&flags.Attributes, "attributes", rowbuild.AttributesRow, "collect attributes of the row element only (row) or of every element (all)")
	fs.TextVar(&flags.Collision, "collision", rowbuild.CollisionFirstWins, "repeated flattened field policy: first, last or error")
	fs.BoolVar(&flags.PinSchema, "pin-schema", false, "keep one schema across batches")
	fs.BoolVar(&schema, "schema", false, "write a schema line before each batch")
	fs.BoolVar(&verbose, "v", false, "verbose logging")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	log := newLogger(stderr, verbose)
	defer func() { _ = log.Sync() }()

	cfg := defaults
	if configPath != "" {
		var err error
		if cfg, err = config.Load(configPath); err != nil {
			_, _ = fmt.Fprintf(stderr, "config error: %s\n", err)
			return 2
		}
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "data-level":
			cfg.DataLevel = flags.DataLevel
		case "row-level":
			cfg.RowLevel = flags.RowLevel
		case "flatten-level":
			cfg.FlattenLevel = flags.FlattenLevel
		case "limit":
			cfg.Limit = flags.Limit
		case "columns":
			cfg.Projection = splitColumns(columns)
		case "batch-size":
			cfg.BatchSize = flags.BatchSize
		case "attributes":
			cfg.Attributes = flags.Attributes
		case "collision":
			cfg.Collision = flags.Collision
		case "pin-schema":
			cfg.PinSchema = flags.PinSchema
		}
	})

	files := fs.Args()
	if len(files) == 0 {
		files = []string{"-"}
	}
	out := bufio.NewWriter(stdout)
	defer out.Flush()
	enc := rowjson.NewEncoder(out, rowjson.WithSchema(schema))

	for _, name := range files {
		if err := readFile(ctx, name, stdin, cfg, enc, log); err != nil {
			_, _ = fmt.Fprintf(stderr, "%s: %s\n", name, err)
			if rowerr.Is(err, rowerr.KindConfiguration) {
				return 2
			}
			return 1
		}
	}
	if err := out.Flush(); err != nil {
		_, _ = fmt.Fprintf(stderr, "write: %s\n", err)
		return 1
	}
	return 0
}

func splitColumns(s string) []string {
	var out []string
	for _, col := range strings.Split(s, ",") {
		if col = strings.TrimSpace(col); col != "" {
			out = append(out, col)
		}
	}
	return out
}

func newLogger(w io.Writer, verbose bool) *zap.Logger {
	level, encoder := zap.WarnLevel, zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	if verbose {
		level, encoder = zap.DebugLevel, zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	}
	return zap.New(zapcore.NewCore(encoder, zapcore.AddSync(w), level))
}

func readFile(ctx context.Context, name string, stdin io.Reader, cfg reader.Config, enc *rowjson.Encoder, log *zap.Logger) error {
	var (
		f   *input.File
		err error
	)
	if name == "-" {
		f, err = input.NewReader("stdin", stdin)
	} else {
		f, err = input.Open(name)
	}
	if err != nil {
		return err
	}
	defer f.Close()

	log = log.With(zap.String("file", name))
	r, err := reader.Open(f, cfg, reader.WithLogger(log))
	if err != nil {
		return err
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	e := &emitter{enc: enc, file: f, log: log, cancel: cancel}
	err = reader.Run(ctx, r, e)
	if e.err != nil {
		return e.err
	}
	return err
}

// emitter is a reader.Handler writing batches to an Encoder. A write
// failure cancels the run.
type emitter struct {
	enc    *rowjson.Encoder
	file   *input.File
	log    *zap.Logger
	cancel context.CancelFunc
	err    error
}

func (e *emitter) OnBatch(_ *reader.Reader, b *reader.Batch) {
	if e.err != nil {
		return
	}
	if e.err = e.enc.Encode(b); e.err != nil {
		e.cancel()
	}
}

func (e *emitter) OnError(*reader.Reader, error) {}

func (e *emitter) OnClose(r *reader.Reader) {
	c := r.State.Counters
	e.log.Info("File read",
		zap.Stringer("codec", e.file.Codec),
		zap.Int64("bytes", e.file.BytesRead()),
		zap.Int64("rows", c.Rows),
		zap.Int64("batches", c.Batches),
		zap.Int64("conflicts", c.Conflicts),
		zap.Int64("duplicates", c.Duplicates))
}
