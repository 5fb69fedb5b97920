package eventsink

import (
	"fmt"

	"github.com/aelassas/servy-sub001/internal/logging"
)

// FileWriter persists events to a rotating log file, reusing the same
// Rotating Log Writer the Child Container uses for captured child output.
type FileWriter struct {
	writer *logging.Writer
}

// NewFileWriter opens path as a rotating event log. maxSize of zero
// disables rotation.
func NewFileWriter(path string, maxSize int64) (*FileWriter, error) {
	w, err := logging.NewWriter(path, maxSize)
	if err != nil {
		return nil, fmt.Errorf("eventsink: open file writer: %w", err)
	}
	return &FileWriter{writer: w}, nil
}

func (w *FileWriter) Write(event Event) error {
	return w.writer.WriteLine(fmt.Sprintf("%s %-5s %s: %s%s",
		logging.FormatTimestamp(event.Timestamp.UTC(), logging.FormatISO8601),
		event.Level,
		event.EventType,
		event.Message,
		formatMetadata(event.Metadata),
	))
}

func (w *FileWriter) Close() error {
	return w.writer.Close()
}
