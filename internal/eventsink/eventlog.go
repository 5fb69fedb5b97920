//go:build windows

package eventsink

import (
	"fmt"

	"golang.org/x/sys/windows/svc/eventlog"
)

// EventLogWriter forwards events to the Windows Event Log under the given
// source name. The source must already be registered (see InstallSource);
// a missing registration degrades Report calls to no-ops from the OS's
// perspective but never panics.
type EventLogWriter struct {
	log *eventlog.Log
}

// NewEventLogWriter opens (or reuses) the Application log under source.
func NewEventLogWriter(source string) (*EventLogWriter, error) {
	l, err := eventlog.Open(source)
	if err != nil {
		return nil, fmt.Errorf("eventsink: open event log source %q: %w", source, err)
	}
	return &EventLogWriter{log: l}, nil
}

// InstallSource registers source with the Application event log, using
// EventCreate.exe as the message-file provider. Call once at service
// install time, not on every start.
func InstallSource(source string) error {
	return eventlog.InstallAsEventCreate(source, eventlog.Info|eventlog.Warning|eventlog.Error)
}

// RemoveSource undoes InstallSource.
func RemoveSource(source string) error {
	return eventlog.Remove(source)
}

func (w *EventLogWriter) Write(event Event) error {
	msg := fmt.Sprintf("%s: %s%s", event.EventType, event.Message, formatMetadata(event.Metadata))

	switch event.Level {
	case LevelDebug, LevelInfo:
		return w.log.Info(1, msg)
	case LevelWarn:
		return w.log.Warning(2, msg)
	default:
		return w.log.Error(3, msg)
	}
}

func (w *EventLogWriter) Close() error {
	return w.log.Close()
}
