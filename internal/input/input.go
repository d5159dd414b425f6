package input

// Package input opens the line sources and the transcript sink used by the
// CLI. "-" stands for stdin/stdout and a .gz suffix is decompressed on the fly.

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"

	"github.com/klauspost/pgzip"
)

const bufSize = 1 << 20

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

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Open returns a buffered reader for path. "-" reads stdin; paths ending in
// .gz are gunzipped with pgzip.
func Open(path string) (io.ReadCloser, error) {
	var (
		f io.Reader
		c io.Closer
	)
	if path == "-" {
		f, c = os.Stdin, nopCloser{}
	} else {
		fh, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		f, c = fh, fh
	}
	br := bufio.NewReaderSize(f, bufSize)
	if !strings.HasSuffix(path, ".gz") {
		return &readCloser{Reader: br, closers: []io.Closer{c}}, nil
	}
	zr, err := pgzip.NewReader(br)
	if err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("gzip %s: %w", path, err)
	}
	return &readCloser{Reader: zr, closers: []io.Closer{zr, c}}, nil
}

// Exists reports whether path names a readable regular file. "-" always exists.
func Exists(path string) bool {
	if path == "-" {
		return true
	}
	fi, err := os.Stat(path)
	return err == nil && fi.Mode().IsRegular()
}

type stdoutCloser struct{ io.Writer }

func (stdoutCloser) Close() error { return nil }

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

// Create opens path for writing, truncating an existing file. "-" is stdout,
// which is never closed; paths ending in .gz are gzipped with pgzip.
func Create(path string) (io.WriteCloser, error) {
	if path == "-" {
		return stdoutCloser{os.Stdout}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(path, ".gz") {
		return f, nil
	}
	zw := pgzip.NewWriter(f)
	return &writeCloser{Writer: zw, closers: []io.Closer{zw, f}}, nil
}

// IsBrokenPipe reports whether err is a broken or closed pipe, as seen when
// the transcript is piped into `head`.
func IsBrokenPipe(err error) bool {
	return err != nil && (errors.Is(err, syscall.EPIPE) || errors.Is(err, io.ErrClosedPipe))
}
