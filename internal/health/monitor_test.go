package health

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aelassas/servy-sub001/internal/definition"
	"github.com/aelassas/servy-sub001/internal/eventsink"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingDispatcher struct {
	restartProcessCalls int32
	restartServiceCalls int32
	restartComputerCall int32
	err                 error
}

func (d *recordingDispatcher) RestartProcess() error {
	atomic.AddInt32(&d.restartProcessCalls, 1)
	return d.err
}

func (d *recordingDispatcher) RestartService() error {
	atomic.AddInt32(&d.restartServiceCalls, 1)
	return d.err
}

func (d *recordingDispatcher) RestartComputer() error {
	atomic.AddInt32(&d.restartComputerCall, 1)
	return d.err
}

type recordingLogger struct {
	events []eventsink.Event
}

func (l *recordingLogger) Log(e eventsink.Event) { l.events = append(l.events, e) }
func (l *recordingLogger) Debug(eventType, message string, meta map[string]any) {
	l.Log(eventsink.NewEvent(eventsink.LevelDebug, eventType, message).WithMetadata(meta))
}
func (l *recordingLogger) Info(eventType, message string, meta map[string]any) {
	l.Log(eventsink.NewEvent(eventsink.LevelInfo, eventType, message).WithMetadata(meta))
}
func (l *recordingLogger) Warn(eventType, message string, meta map[string]any) {
	l.Log(eventsink.NewEvent(eventsink.LevelWarn, eventType, message).WithMetadata(meta))
}
func (l *recordingLogger) Error(eventType, message string, meta map[string]any) {
	l.Log(eventsink.NewEvent(eventsink.LevelError, eventType, message).WithMetadata(meta))
}
func (l *recordingLogger) Fatal(eventType, message string, meta map[string]any) {
	l.Log(eventsink.NewEvent(eventsink.LevelFatal, eventType, message).WithMetadata(meta))
}
func (l *recordingLogger) Close() error { return nil }

func (l *recordingLogger) hasEventType(eventType string) bool {
	for _, e := range l.events {
		if e.EventType == eventType {
			return true
		}
	}
	return false
}

func newTestDefinition() *definition.ServiceDefinition {
	return &definition.ServiceDefinition{
		ServiceName:        "svc",
		HeartbeatInterval:  time.Hour,
		MaxFailedChecks:    3,
		MaxRestartAttempts: 2,
		RecoveryAction:     definition.RecoveryRestartProcess,
	}
}

func TestTickAliveResetsCounters(t *testing.T) {
	logger := &recordingLogger{}
	dispatcher := &recordingDispatcher{}
	alive := true
	m := New(newTestDefinition(), func() bool { return alive }, dispatcher, logger)
	m.failedChecks = 2
	m.restartAttempts = 1

	m.tick()

	assert.Zero(t, m.failedChecks)
	assert.Zero(t, m.restartAttempts)
	assert.True(t, logger.hasEventType("health_recovered"))
}

func TestTickAliveWithoutPriorFailuresStaysQuiet(t *testing.T) {
	logger := &recordingLogger{}
	dispatcher := &recordingDispatcher{}
	m := New(newTestDefinition(), func() bool { return true }, dispatcher, logger)

	m.tick()

	assert.Empty(t, logger.events)
}

func TestTickBelowThresholdDoesNotDispatch(t *testing.T) {
	logger := &recordingLogger{}
	dispatcher := &recordingDispatcher{}
	m := New(newTestDefinition(), func() bool { return false }, dispatcher, logger)

	m.tick()
	m.tick()

	assert.EqualValues(t, 2, m.failedChecks)
	assert.Zero(t, dispatcher.restartProcessCalls)
}

func TestTickAtThresholdDispatchesAndResets(t *testing.T) {
	logger := &recordingLogger{}
	dispatcher := &recordingDispatcher{}
	m := New(newTestDefinition(), func() bool { return false }, dispatcher, logger)

	m.tick()
	m.tick()
	m.tick()

	assert.EqualValues(t, 1, dispatcher.restartProcessCalls)
	assert.EqualValues(t, 1, m.restartAttempts)
	assert.Zero(t, m.failedChecks)
	assert.False(t, m.recovering)
	assert.True(t, logger.hasEventType("health_recovery_dispatched"))
}

func TestTickBudgetExhaustedLogsFatalAndStopsReacting(t *testing.T) {
	logger := &recordingLogger{}
	dispatcher := &recordingDispatcher{}
	m := New(newTestDefinition(), func() bool { return false }, dispatcher, logger)
	m.restartAttempts = 2 // already at MaxRestartAttempts

	for i := 0; i < 3; i++ {
		m.tick()
	}

	assert.Zero(t, dispatcher.restartProcessCalls)
	assert.True(t, logger.hasEventType("health_budget_exhausted"))
	assert.False(t, m.recovering)
}

func TestTickSkipsWhileRecovering(t *testing.T) {
	logger := &recordingLogger{}
	dispatcher := &recordingDispatcher{}
	m := New(newTestDefinition(), func() bool { return false }, dispatcher, logger)
	m.recovering = true

	m.tick()

	assert.Zero(t, m.failedChecks)
	assert.Zero(t, dispatcher.restartProcessCalls)
}

func TestTickDisposedIsNoop(t *testing.T) {
	logger := &recordingLogger{}
	dispatcher := &recordingDispatcher{}
	m := New(newTestDefinition(), func() bool { return false }, dispatcher, logger)
	m.disposed = true

	m.tick()

	assert.Zero(t, m.failedChecks)
	assert.Empty(t, logger.events)
}

func TestDispatchLogsErrorOnFailure(t *testing.T) {
	logger := &recordingLogger{}
	dispatcher := &recordingDispatcher{err: errors.New("boom")}
	m := New(newTestDefinition(), func() bool { return false }, dispatcher, logger)

	m.tick()
	m.tick()
	m.tick()

	assert.True(t, logger.hasEventType("health_recovery_failed"))
	assert.False(t, logger.hasEventType("health_recovery_dispatched"))
}

func TestDispatchSelectsConfiguredAction(t *testing.T) {
	logger := &recordingLogger{}
	dispatcher := &recordingDispatcher{}
	d := newTestDefinition()
	d.RecoveryAction = definition.RecoveryRestartService
	m := New(d, func() bool { return false }, dispatcher, logger)

	m.tick()
	m.tick()
	m.tick()

	assert.EqualValues(t, 1, dispatcher.restartServiceCalls)
	assert.Zero(t, dispatcher.restartProcessCalls)
}

func TestStartAndStopDriveTicksAndAreIdempotent(t *testing.T) {
	logger := &recordingLogger{}
	dispatcher := &recordingDispatcher{}
	d := newTestDefinition()
	d.HeartbeatInterval = 10 * time.Millisecond
	d.MaxFailedChecks = 1

	var calls int32
	m := New(d, func() bool { atomic.AddInt32(&calls, 1); return true }, dispatcher, logger)

	m.Start()
	require.Eventually(t, func() bool {
		return atomic.LoadInt32(&calls) > 0
	}, time.Second, 5*time.Millisecond)

	m.Stop()
	m.Stop() // idempotent
}
