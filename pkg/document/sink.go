package document

import (
	"bufio"
	"errors"
	"io"
	"slices"
	"strings"
)

// LineSink receives report lines one at a time. Lines never contain the
// trailing newline. Close flushes buffered output and releases the
// destination; a sink must not be used after Close.
type LineSink interface {
	WriteLine(line string) error
	Close() error
}

// WriterSink writes newline-terminated lines to an io.Writer through a
// buffer.
type WriterSink struct {
	w *bufio.Writer
	c io.Closer
}

// NewWriterSink returns a sink writing to w. Close flushes but does not
// close w, which makes it suitable for os.Stdout and HTTP responses.
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: bufio.NewWriter(w)}
}

// NewFileSink returns a sink writing to wc. Close flushes and then closes wc.
func NewFileSink(wc io.WriteCloser) *WriterSink {
	return &WriterSink{w: bufio.NewWriter(wc), c: wc}
}

// WriteLine implements LineSink.
func (s *WriterSink) WriteLine(line string) error {
	if _, err := s.w.WriteString(line); err != nil {
		return err
	}
	return s.w.WriteByte('\n')
}

// Close implements LineSink. The underlying closer is closed even when the
// final flush fails.
func (s *WriterSink) Close() error {
	err := s.w.Flush()
	if s.c != nil {
		err = errors.Join(err, s.c.Close())
	}
	return err
}

// Lines is a LineSink that keeps every line in memory.
type Lines struct {
	lines []string
}

// WriteLine implements LineSink.
func (l *Lines) WriteLine(line string) error {
	l.lines = append(l.lines, line)
	return nil
}

// Close implements LineSink.
func (l *Lines) Close() error { return nil }

// Strings returns a copy of the collected lines.
func (l *Lines) Strings() []string { return slices.Clone(l.lines) }

// Len returns the number of collected lines.
func (l *Lines) Len() int { return len(l.lines) }

// String returns the lines joined as a newline-terminated text report.
func (l *Lines) String() string {
	if len(l.lines) == 0 {
		return ""
	}
	return strings.Join(l.lines, "\n") + "\n"
}

// teeSink duplicates lines into several sinks.
type teeSink []LineSink

// Tee returns a sink that writes every line to all sinks in order. WriteLine
// stops at the first failing sink; Close closes every sink and joins the
// errors.
func Tee(sinks ...LineSink) LineSink { return teeSink(sinks) }

func (t teeSink) WriteLine(line string) error {
	for _, s := range t {
		if err := s.WriteLine(line); err != nil {
			return err
		}
	}
	return nil
}

func (t teeSink) Close() error {
	var errs []error
	for _, s := range t {
		errs = append(errs, s.Close())
	}
	return errors.Join(errs...)
}

// Replay writes lines to sink in order.
func Replay(sink LineSink, lines []string) error {
	for _, line := range lines {
		if err := sink.WriteLine(line); err != nil {
			return err
		}
	}
	return nil
}
