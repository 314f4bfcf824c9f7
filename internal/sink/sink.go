package sink

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/maypok86/trafficgen/internal/event"
)

// ErrSinkWrite wraps every failure to write, flush or close a sink.
var ErrSinkWrite = errors.New("sink: write failed")

// Sink accepts formatted events one at a time.
type Sink interface {
	Write(e event.Access) error
	Close() error
}

// Lines writes events as newline-delimited records through a buffer.
type Lines struct {
	w      *bufio.Writer
	closer io.Closer
	buf    []byte
	lines  uint64
}

func NewLines(w io.Writer) *Lines {
	l := &Lines{
		w:   bufio.NewWriterSize(w, 1<<20),
		buf: make([]byte, 0, 256),
	}
	if c, ok := w.(io.Closer); ok {
		l.closer = c
	}
	return l
}

// Create opens path for writing, truncating any existing file.
func Create(path string) (*Lines, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("%w: create %s: %w", ErrSinkWrite, path, err)
	}
	return NewLines(f), nil
}

func (l *Lines) Write(e event.Access) error {
	l.buf = e.AppendLine(l.buf[:0])
	if _, err := l.w.Write(l.buf); err != nil {
		return fmt.Errorf("%w: line %d: %w", ErrSinkWrite, l.lines+1, err)
	}
	l.lines++
	return nil
}

// Lines returns the number of records written.
func (l *Lines) Lines() uint64 {
	return l.lines
}

// Close flushes buffered records and closes the underlying writer if it is an io.Closer.
func (l *Lines) Close() error {
	flushErr := l.w.Flush()
	var closeErr error
	if l.closer != nil {
		closeErr = l.closer.Close()
	}
	if err := errors.Join(flushErr, closeErr); err != nil {
		return fmt.Errorf("%w: %w", ErrSinkWrite, err)
	}
	return nil
}
