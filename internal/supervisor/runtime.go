// Package supervisor implements the Lifecycle Controller (spec.md §4.8):
// the OnStart/OnStop entry points invoked by the service manager, and the
// Runtime aggregate that owns every other component for the lifetime of
// one service instance.
package supervisor

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/aelassas/servy-sub001/internal/definition"
	"github.com/aelassas/servy-sub001/internal/eventsink"
	"github.com/aelassas/servy-sub001/internal/health"
	"github.com/aelassas/servy-sub001/internal/logging"
	"github.com/aelassas/servy-sub001/internal/prelaunch"
	"github.com/aelassas/servy-sub001/internal/process"
	"github.com/aelassas/servy-sub001/internal/vault"
	"github.com/aelassas/servy-sub001/internal/winkernel"
)

// childStopTimeout is the fixed per-process graceful-then-forced shutdown
// budget from spec.md §5.
const childStopTimeout = definition.DefaultChildStopTimeout

// Runtime is the single-service aggregate OnStart constructs and OnStop
// tears down. It is created once per service process and is not reused
// across a full stop/start cycle.
type Runtime struct {
	Kernel *winkernel.Kernel
	Logger eventsink.Logger

	mu         sync.Mutex
	definition *definition.ServiceDefinition
	capture    *logging.Capture
	child      *process.Process
	monitor    *health.Monitor
	disposed   bool
}

// New creates a Runtime. kernel and logger must outlive the Runtime.
func New(kernel *winkernel.Kernel, logger eventsink.Logger) *Runtime {
	return &Runtime{Kernel: kernel, Logger: logger}
}

// OnStart runs the six-step sequence from spec.md §4.8. Any failure in
// steps 3 through 6 is logged at error level and returned so the caller
// (cmd/servysvc's svc.Handler) can signal the service manager to stop.
func (r *Runtime) OnStart(ctx context.Context, args []string) error {
	d, err := definition.Decode(args)
	if err != nil {
		r.Logger.Error("decode_failed", err.Error(), nil)
		return err
	}
	d.WorkingDirectory = resolveWorkingDirectory(d)

	capture, err := logging.NewCapture(d)
	if err != nil {
		r.Logger.Error("open_log_sinks_failed", err.Error(), nil)
		return err
	}

	if d.PreLaunch != nil {
		result := prelaunch.Run(ctx, d.PreLaunch)
		if result.Warning != nil {
			r.Logger.Warn("prelaunch_warning", result.Warning.Error(), nil)
		}
		if !result.Succeeded {
			r.Logger.Error("prelaunch_failed", result.LastErr.Error(), map[string]any{
				"attempts": result.Attempts,
			})
			_ = capture.Close()
			return result.LastErr
		}
	}

	credential, err := r.resolveCredential(d)
	if err != nil {
		r.Logger.Error("resolve_credential_failed", err.Error(), nil)
		_ = capture.Close()
		return err
	}

	child := process.New(d, r.Kernel, capture)
	child.Credential = credential
	child.OnWarning = func(op string, err error) {
		r.Logger.Warn("child_warning", err.Error(), map[string]any{"op": op})
	}

	if err := child.Start(ctx); err != nil {
		r.Logger.Error("start_child_failed", err.Error(), nil)
		_ = capture.Close()
		return err
	}

	r.mu.Lock()
	r.definition = d
	r.capture = capture
	r.child = child
	r.disposed = false
	r.mu.Unlock()

	if d.HealthMonitorEnabled() {
		monitor := health.New(d, func() bool {
			return child.State() == process.StateRunning
		}, r, r.Logger)
		monitor.Start()

		r.mu.Lock()
		r.monitor = monitor
		r.mu.Unlock()
	}

	r.Logger.Info("service_started", "target started", map[string]any{
		"service_name": d.ServiceName,
		"pid":          child.PID(),
	})
	return nil
}

// resolveCredential decrypts d.Password through the Credential Vault when
// the target runs under an explicit account. RunAsLocalSystem targets and
// targets with no password configured never touch the vault.
func (r *Runtime) resolveCredential(d *definition.ServiceDefinition) (string, error) {
	if d.RunAsLocalSystem || d.Password == "" {
		return "", nil
	}

	keys, err := vault.LoadOrCreateKeys(r.Kernel.KeyStore)
	if err != nil {
		return "", fmt.Errorf("supervisor: load vault keys: %w", err)
	}

	plaintext, warning, err := vault.New(keys).Decrypt(d.Password)
	if err != nil {
		return "", fmt.Errorf("supervisor: decrypt credential: %w", err)
	}
	if warning != nil {
		r.Logger.Warn("credential_passthrough", warning.Error(), nil)
	}
	return plaintext, nil
}

// OnStop runs the teardown order fixed by spec.md §4.8: stop the health
// monitor timer, detach the stream drains from the child, flush and close
// the log sinks, request a graceful child shutdown escalating to a forced
// kill, release the containment group, then mark the runtime disposed.
// Idempotent; every step still runs even if an earlier one failed, and the
// first error observed is what OnStop returns.
func (r *Runtime) OnStop() error {
	r.mu.Lock()
	if r.disposed {
		r.mu.Unlock()
		return nil
	}
	monitor := r.monitor
	capture := r.capture
	child := r.child
	r.mu.Unlock()

	var firstErr error
	record := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	if monitor != nil {
		monitor.Stop()
	}

	// Detaching the stream drains from the child is realized by closing
	// the log sinks before asking the child to stop: any in-flight write
	// from a drain goroutine that loses the race fails as
	// logging.ErrStreamIO, reported through OnWarning rather than
	// propagated here.
	if capture != nil {
		if err := capture.Close(); err != nil {
			record(fmt.Errorf("close log sinks: %w", err))
		}
	}

	if child != nil {
		if err := child.Stop(childStopTimeout); err != nil {
			record(fmt.Errorf("stop child: %w", err))
		}
	}

	r.mu.Lock()
	r.disposed = true
	r.mu.Unlock()

	if firstErr != nil {
		r.Logger.Error("teardown_failed", firstErr.Error(), nil)
		return fmt.Errorf("%w: %w", ErrTeardown, firstErr)
	}

	r.Logger.Info("service_stopped", "teardown complete", nil)
	return nil
}

// RestartProcess implements health.Dispatcher by terminating and
// relaunching the child in place. Stopping the child releases its
// containment group, so the relaunch runs in a freshly created one.
func (r *Runtime) RestartProcess() error {
	r.mu.Lock()
	child := r.child
	r.mu.Unlock()
	if child == nil {
		return errors.New("supervisor: no child to restart")
	}

	if err := child.Stop(childStopTimeout); err != nil {
		return fmt.Errorf("supervisor: stop before restart: %w", err)
	}
	return child.Start(context.Background())
}

// RestartService implements health.Dispatcher by shelling out to the
// restart helper through the platform service controller.
func (r *Runtime) RestartService() error {
	r.mu.Lock()
	name := ""
	if r.definition != nil {
		name = r.definition.ServiceName
	}
	r.mu.Unlock()
	return r.Kernel.ServiceControl.RestartService(name)
}

// RestartComputer implements health.Dispatcher by asking the OS to reboot.
func (r *Runtime) RestartComputer() error {
	return r.Kernel.ComputerControl.RestartComputer()
}

var _ health.Dispatcher = (*Runtime)(nil)
