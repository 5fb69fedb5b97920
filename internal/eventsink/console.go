package eventsink

import (
	"fmt"
	"io"
	"sync"
)

// ConsoleWriter writes events as single lines to an io.Writer, typically
// os.Stderr. Close is a no-op: the console is owned by the process, not
// by this writer.
type ConsoleWriter struct {
	mu  sync.Mutex
	out io.Writer
}

// NewConsoleWriter wraps out as an event Writer.
func NewConsoleWriter(out io.Writer) *ConsoleWriter {
	return &ConsoleWriter{out: out}
}

func (w *ConsoleWriter) Write(event Event) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	_, err := fmt.Fprintf(w.out, "%s %-5s %s: %s%s\n",
		event.Timestamp.UTC().Format("2006-01-02T15:04:05.000Z"),
		event.Level,
		event.EventType,
		event.Message,
		formatMetadata(event.Metadata),
	)
	return err
}

func (w *ConsoleWriter) Close() error {
	return nil
}

func formatMetadata(meta map[string]any) string {
	if len(meta) == 0 {
		return ""
	}
	s := ""
	for k, v := range meta {
		s += fmt.Sprintf(" %s=%v", k, v)
	}
	return s
}
