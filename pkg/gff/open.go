package gff

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ulikunitz/xz"
)

var (
	gzipMagic = []byte{0x1f, 0x8b}
	xzMagic   = []byte{0xfd, '7', 'z', 'X', 'Z', 0x00}
)

type readCloser struct {
	io.Reader
	closers []io.Closer
}

func (r *readCloser) Close() error {
	var first error
	for _, c := range r.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Open opens path for reading, "-" being stdin. Gzip and xz input is
// detected from its leading bytes and decompressed.
func Open(path string) (io.ReadCloser, error) {
	var f *os.File
	if path == "-" {
		f = os.Stdin
	} else {
		var err error
		if f, err = os.Open(path); err != nil {
			return nil, err
		}
	}

	rc, err := NewReader(f)
	if err != nil {
		if f != os.Stdin {
			_ = f.Close()
		}
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if f != os.Stdin {
		r := rc.(*readCloser)
		r.closers = append(r.closers, f)
	}
	return rc, nil
}

// NewReader wraps r with the decompressor its leading bytes call for. The
// returned closer does not close r.
func NewReader(r io.Reader) (io.ReadCloser, error) {
	br := bufio.NewReader(r)
	head, _ := br.Peek(len(xzMagic))

	switch {
	case bytes.HasPrefix(head, gzipMagic):
		gz, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("err calling gzip.NewReader: %w", err)
		}
		return &readCloser{Reader: gz, closers: []io.Closer{gz}}, nil
	case bytes.HasPrefix(head, xzMagic):
		xr, err := xz.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("err calling xz.NewReader: %w", err)
		}
		return &readCloser{Reader: xr}, nil
	default:
		return &readCloser{Reader: br}, nil
	}
}

type writeCloser struct {
	io.Writer
	closers []io.Closer
}

func (w *writeCloser) Close() error {
	var first error
	for _, c := range w.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Create opens path for writing, "-" being stdout. A ".gz" or ".xz"
// extension selects the compressor.
func Create(path string) (io.WriteCloser, error) {
	if path == "-" {
		return &writeCloser{Writer: os.Stdout}, nil
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz":
		gz := gzip.NewWriter(f)
		return &writeCloser{Writer: gz, closers: []io.Closer{gz, f}}, nil
	case ".xz":
		xw, err := xz.NewWriter(f)
		if err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("err calling xz.NewWriter: %w", err)
		}
		return &writeCloser{Writer: xw, closers: []io.Closer{xw, f}}, nil
	default:
		return &writeCloser{Writer: f, closers: []io.Closer{f}}, nil
	}
}
