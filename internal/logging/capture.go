package logging

import (
	"io"
	"os"
	"sync"

	"github.com/aelassas/servy-sub001/internal/definition"
)

// Capture owns the stdout/stderr sinks for one supervised process,
// honoring the service definition's SharesLogSink invariant: when
// StdoutPath equals StderrPath, both streams drain into the same rotating
// writer instead of two independent file handles racing each other.
type Capture struct {
	mu     sync.Mutex
	stdout io.WriteCloser
	stderr io.WriteCloser
	closed bool
}

// NewCapture builds a Capture from a service definition. A path left
// empty falls back to the supervisor's own stdout/stderr, matching the
// teacher's console fallback.
func NewCapture(d *definition.ServiceDefinition) (*Capture, error) {
	c := &Capture{}

	if d.SharesLogSink() {
		shared, err := openSink(d.StdoutPath, d.EffectiveRotationSize(), os.Stdout)
		if err != nil {
			return nil, err
		}
		c.stdout = shared
		c.stderr = shared
		return c, nil
	}

	stdout, err := openSink(d.StdoutPath, d.EffectiveRotationSize(), os.Stdout)
	if err != nil {
		return nil, err
	}
	c.stdout = stdout

	stderr, err := openSink(d.StderrPath, d.EffectiveRotationSize(), os.Stderr)
	if err != nil {
		c.stdout.Close()
		return nil, err
	}
	c.stderr = stderr
	return c, nil
}

func openSink(path string, rotationSize int64, fallback io.Writer) (io.WriteCloser, error) {
	if path == "" {
		return &nopCloser{fallback}, nil
	}
	return NewWriter(path, rotationSize)
}

// Stdout returns the stdout sink.
func (c *Capture) Stdout() io.Writer {
	return c.stdout
}

// Stderr returns the stderr sink.
func (c *Capture) Stderr() io.Writer {
	return c.stderr
}

// Close closes both output streams. When stdout and stderr share a sink
// it is closed exactly once. Idempotent.
func (c *Capture) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true

	if c.stdout == c.stderr {
		return c.stdout.Close()
	}

	var firstErr error
	if err := c.stdout.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := c.stderr.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

// nopCloser wraps an io.Writer and provides a no-op Close.
type nopCloser struct {
	io.Writer
}

func (n *nopCloser) Close() error {
	return nil
}

// LineWriter writes lines with optional prefix.
type LineWriter struct {
	writer io.Writer
	prefix string
	buf    []byte
}

// NewLineWriter creates a writer that prefixes each line.
func NewLineWriter(w io.Writer, prefix string) *LineWriter {
	return &LineWriter{
		writer: w,
		prefix: prefix,
	}
}

// Write implements io.Writer with line buffering.
func (lw *LineWriter) Write(p []byte) (n int, err error) {
	lw.buf = append(lw.buf, p...)

	for {
		idx := -1
		for i, b := range lw.buf {
			if b == '\n' {
				idx = i
				break
			}
		}

		if idx < 0 {
			break
		}

		line := lw.buf[:idx+1]
		lw.buf = lw.buf[idx+1:]

		if lw.prefix != "" {
			if _, err := lw.writer.Write([]byte(lw.prefix)); err != nil {
				return 0, err
			}
		}
		if _, err := lw.writer.Write(line); err != nil {
			return 0, err
		}
	}

	return len(p), nil
}

// Flush writes any remaining buffered data.
func (lw *LineWriter) Flush() error {
	if len(lw.buf) > 0 {
		if lw.prefix != "" {
			if _, err := lw.writer.Write([]byte(lw.prefix)); err != nil {
				return err
			}
		}
		if _, err := lw.writer.Write(lw.buf); err != nil {
			return err
		}
		if _, err := lw.writer.Write([]byte{'\n'}); err != nil {
			return err
		}
		lw.buf = nil
	}
	return nil
}
