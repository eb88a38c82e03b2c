// Package input opens XML documents for reading, transparently
// decompressing gzip, zstd and zip encoded files.
package input

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zip"
	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"
)

// Codec is the encoding of an input file
type Codec int

const (
	// None is an unencoded document
	None Codec = iota
	Gzip
	Zstd
	// Zip is an archive; its first XML member is read
	Zip
)

func (c Codec) String() string {
	switch c {
	case None:
		return "none"
	case Gzip:
		return "gzip"
	case Zstd:
		return "zstd"
	case Zip:
		return "zip"
	default:
		return fmt.Sprintf("Codec(%d)", int(c))
	}
}

var magic = []struct {
	codec  Codec
	prefix []byte
}{
	{Gzip, []byte{0x1f, 0x8b}},
	{Zstd, []byte{0x28, 0xb5, 0x2f, 0xfd}},
	{Zip, []byte("PK\x03\x04")},
}

// Detect returns the codec of a file starting with head
func Detect(head []byte) Codec {
	for _, m := range magic {
		if bytes.HasPrefix(head, m.prefix) {
			return m.codec
		}
	}
	return None
}

// File is a decoded input document
type File struct {
	// Name is the file name given to Open or NewReader
	Name  string
	Codec Codec
	// Entry is the name of the zip archive member read
	Entry string

	r       io.Reader
	closers []io.Closer
	n       int64
}

// Open opens the file at name
func Open(name string) (*File, error) {
	osf, err := os.Open(name)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	st, err := osf.Stat()
	if err != nil {
		osf.Close()
		return nil, errors.WithStack(err)
	}
	f, err := newFile(name, osf, osf, st.Size())
	if err != nil {
		osf.Close()
		return nil, err
	}
	f.closers = append([]io.Closer{osf}, f.closers...)
	return f, nil
}

// NewReader returns a File decoding r, such as standard input. Zip
// archives read this way are buffered in memory.
func NewReader(name string, r io.Reader) (*File, error) { return newFile(name, r, nil, 0) }

func newFile(name string, r io.Reader, ra io.ReaderAt, size int64) (*File, error) {
	br := bufio.NewReader(r)
	head, _ := br.Peek(4)
	f := &File{Name: name, Codec: Detect(head)}

	switch f.Codec {
	case Gzip:
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, errors.Wrapf(err, "%s: gzip", name)
		}
		f.r = zr
		f.closers = append(f.closers, zr)

	case Zstd:
		zr, err := zstd.NewReader(br, zstd.WithDecoderConcurrency(1))
		if err != nil {
			return nil, errors.Wrapf(err, "%s: zstd", name)
		}
		f.r = zr
		f.closers = append(f.closers, zr.IOReadCloser())

	case Zip:
		if ra == nil {
			b, err := io.ReadAll(br)
			if err != nil {
				return nil, errors.Wrapf(err, "%s: zip", name)
			}
			ra, size = bytes.NewReader(b), int64(len(b))
		}
		zr, err := zip.NewReader(ra, size)
		if err != nil {
			return nil, errors.Wrapf(err, "%s: zip", name)
		}
		member := document(zr.File)
		if member == nil {
			return nil, errors.Errorf("%s: zip archive holds no document", name)
		}
		rc, err := member.Open()
		if err != nil {
			return nil, errors.Wrapf(err, "%s: zip member %s", name, member.Name)
		}
		f.Entry = member.Name
		f.r = rc
		f.closers = append(f.closers, rc)

	default:
		f.r = br
	}
	return f, nil
}

// document returns the first .xml member of an archive, or failing
// that its first regular file
func document(files []*zip.File) *zip.File {
	var first *zip.File
	for _, zf := range files {
		if zf.FileInfo().IsDir() {
			continue
		}
		if strings.EqualFold(path.Ext(zf.Name), ".xml") {
			return zf
		}
		if first == nil {
			first = zf
		}
	}
	return first
}

func (f *File) Read(p []byte) (int, error) {
	n, err := f.r.Read(p)
	f.n += int64(n)
	return n, err
}

// BytesRead returns the number of decoded bytes read so far
func (f *File) BytesRead() int64 { return f.n }

// Close releases the decoders and the underlying file, innermost first
func (f *File) Close() error {
	var first error
	for i := len(f.closers) - 1; i >= 0; i-- {
		if err := f.closers[i].Close(); err != nil && first == nil {
			first = err
		}
	}
	f.closers = nil
	return first
}
