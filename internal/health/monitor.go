// Package health implements the Health Monitor (spec.md §4.7): a
// single-mutex-per-tick liveness checker that counts consecutive failed
// heartbeats and dispatches the configured recovery action once the
// failure threshold is crossed.
package health

import (
	"sync"
	"time"

	"github.com/aelassas/servy-sub001/internal/definition"
	"github.com/aelassas/servy-sub001/internal/eventsink"
)

// Dispatcher carries out the three recovery actions the monitor can
// select. Implementations are supplied by the Lifecycle Controller,
// which alone owns the Child Container, the restart helper, and the
// shutdown command.
type Dispatcher interface {
	// RestartProcess terminates (if still attached) and re-launches the
	// target in place.
	RestartProcess() error
	// RestartService spawns the restart helper and asks the OS to stop
	// the current service.
	RestartService() error
	// RestartComputer invokes the OS reboot command.
	RestartComputer() error
}

// Monitor owns the HeartbeatState described in spec.md §3 and drives it
// from a single ticker goroutine.
type Monitor struct {
	interval           time.Duration
	maxFailedChecks    uint32
	maxRestartAttempts uint32
	action             definition.RecoveryAction
	isAlive            func() bool
	dispatcher         Dispatcher
	logger             eventsink.Logger

	mu              sync.Mutex
	failedChecks    uint32
	restartAttempts uint32
	recovering      bool
	disposed        bool

	ticker *time.Ticker
	stopCh chan struct{}
	doneCh chan struct{}
}

// New creates a Monitor. isAlive reports whether the target is currently
// running; it is called once per tick.
func New(d *definition.ServiceDefinition, isAlive func() bool, dispatcher Dispatcher, logger eventsink.Logger) *Monitor {
	return &Monitor{
		interval:           d.HeartbeatInterval,
		maxFailedChecks:    d.MaxFailedChecks,
		maxRestartAttempts: d.MaxRestartAttempts,
		action:             d.RecoveryAction,
		isAlive:            isAlive,
		dispatcher:         dispatcher,
		logger:             logger,
	}
}

// Start begins the periodic tick loop. Callers should only invoke Start
// when definition.HealthMonitorEnabled() holds; Start does not re-check
// the gating conditions itself.
func (m *Monitor) Start() {
	m.mu.Lock()
	if m.ticker != nil {
		m.mu.Unlock()
		return
	}
	m.ticker = time.NewTicker(m.interval)
	m.stopCh = make(chan struct{})
	m.doneCh = make(chan struct{})
	ticker := m.ticker
	stopCh := m.stopCh
	doneCh := m.doneCh
	m.mu.Unlock()

	go func() {
		defer close(doneCh)
		for {
			select {
			case <-stopCh:
				return
			case <-ticker.C:
				m.tick()
			}
		}
	}()
}

// Stop disposes the monitor. Idempotent; a tick observed mid-flight is
// allowed to finish, matching spec.md §4.8's teardown order ("stop C7
// timer" happens before the rest of teardown, but does not abort an
// in-progress tick).
func (m *Monitor) Stop() {
	m.mu.Lock()
	if m.disposed {
		m.mu.Unlock()
		return
	}
	m.disposed = true
	ticker := m.ticker
	stopCh := m.stopCh
	doneCh := m.doneCh
	m.mu.Unlock()

	if ticker == nil {
		return
	}
	ticker.Stop()
	close(stopCh)
	<-doneCh
}

// tick runs the full spec.md §4.7 algorithm under a single lock held for
// the entire body, including recovery dispatch. Because the ticker loop
// is single-goroutine, a tick that blocks inside dispatch naturally lets
// the ticker drop ticks that arrive in the meantime; the recovering flag
// additionally documents and enforces "only one recovery runs at a time"
// for any future caller that ticks this monitor concurrently.
func (m *Monitor) tick() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.disposed {
		return
	}
	if m.recovering {
		return
	}

	if m.isAlive() {
		if m.failedChecks > 0 {
			m.logger.Info("health_recovered", "target is alive again", map[string]any{
				"failed_checks": m.failedChecks,
			})
			m.failedChecks = 0
			m.restartAttempts = 0
		}
		return
	}

	m.failedChecks++
	if m.failedChecks < m.maxFailedChecks {
		return
	}

	if m.restartAttempts >= m.maxRestartAttempts {
		m.logger.Fatal("health_budget_exhausted", ErrRecoveryExhausted.Error(), map[string]any{
			"restart_attempts": m.restartAttempts,
		})
		m.recovering = false
		return
	}

	m.restartAttempts++
	m.recovering = true
	m.failedChecks = 0

	m.dispatch()

	m.recovering = false
}

func (m *Monitor) dispatch() {
	var err error
	switch m.action {
	case definition.RecoveryNone:
		return
	case definition.RecoveryRestartProcess:
		err = m.dispatcher.RestartProcess()
	case definition.RecoveryRestartService:
		err = m.dispatcher.RestartService()
	case definition.RecoveryRestartComputer:
		err = m.dispatcher.RestartComputer()
	}

	if err != nil {
		m.logger.Error("health_recovery_failed", "recovery action failed", map[string]any{
			"action": m.action.String(),
			"error":  err.Error(),
		})
		return
	}
	m.logger.Warn("health_recovery_dispatched", "recovery action dispatched", map[string]any{
		"action": m.action.String(),
	})
}
