// Package prelaunch implements the Pre-Launch Runner (spec.md §4.6): an
// auxiliary process run to completion, with retry and an optional
// tolerance for failure, before the main target is started.
package prelaunch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/aelassas/servy-sub001/internal/definition"
	"github.com/aelassas/servy-sub001/internal/logging"
	"github.com/aelassas/servy-sub001/internal/pathutil"
)

// ErrPreLaunchFailed wraps the last attempt's failure when every attempt
// was exhausted and IgnoreFailure did not tolerate it.
var ErrPreLaunchFailed = errors.New("prelaunch: all attempts failed")

// Result reports the outcome of Run.
type Result struct {
	// Succeeded is true when some attempt exited with code 0, or when no
	// attempt succeeded but IgnoreFailure tolerated it.
	Succeeded bool
	// Warning is non-nil when Succeeded is true only because
	// IgnoreFailure absorbed the last failure.
	Warning error
	// Attempts is the number of attempts actually made.
	Attempts int
	// LastErr is the failure from the final attempt, if any.
	LastErr error
}

// Run executes pl per the spec.md §4.6 algorithm: up to
// 1+pl.RetryAttempts attempts, each bounded by pl.Timeout, stopping at
// the first exit code 0.
func Run(ctx context.Context, pl *definition.PreLaunch) Result {
	var lastErr error

	for attempt := 0; attempt <= int(pl.RetryAttempts); attempt++ {
		err := runOnce(ctx, pl)
		if err == nil {
			return Result{Succeeded: true, Attempts: attempt + 1}
		}
		lastErr = fmt.Errorf("pre-launch attempt %d: %w", attempt+1, err)
	}

	if pl.IgnoreFailure {
		return Result{
			Succeeded: true,
			Warning:   fmt.Errorf("pre-launch: all attempts failed, ignoring: %w", lastErr),
			Attempts:  int(pl.RetryAttempts) + 1,
			LastErr:   lastErr,
		}
	}

	return Result{
		Succeeded: false,
		Attempts:  int(pl.RetryAttempts) + 1,
		LastErr:   fmt.Errorf("%w: %v", ErrPreLaunchFailed, lastErr),
	}
}

// runOnce starts the auxiliary process, drains its streams into its own
// log sinks if configured, and waits up to pl.Timeout. No containment
// group is involved: the Lifecycle Controller owns only the main target's
// group.
func runOnce(parent context.Context, pl *definition.PreLaunch) error {
	timeout := pl.Timeout
	if timeout <= 0 {
		timeout = definition.DefaultPreLaunchTimeout
	}

	ctx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, pl.ExecutablePath, splitArgs(pl.ExecutableArgs)...)
	cmd.Dir = pl.WorkingDirectory
	cmd.Env = environmentFor(pl.Environment)
	configureWindowless(cmd)

	var sinks *logging.Capture
	if pl.StdoutPath != "" || pl.StderrPath != "" {
		d := &definition.ServiceDefinition{StdoutPath: pl.StdoutPath, StderrPath: pl.StderrPath}
		var err error
		sinks, err = logging.NewCapture(d)
		if err != nil {
			return fmt.Errorf("open pre-launch sinks: %w", err)
		}
		defer sinks.Close()
		cmd.Stdout = sinks.Stdout()
		cmd.Stderr = sinks.Stderr()
	} else {
		var stdout, stderr bytes.Buffer
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr
	}

	if err := cmd.Run(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return fmt.Errorf("timed out after %s", timeout)
		}
		return err
	}
	return nil
}

// environmentFor layers pairs over the auxiliary process's inherited
// environment, the same way process.go's buildEnvironment does for the
// main target, so a pre_launch environment override can't wipe out PATH,
// SystemRoot, or TEMP.
func environmentFor(pairs []definition.EnvPair) []string {
	base := os.Environ()
	index := make(map[string]int, len(base))
	for i, kv := range base {
		if eq := strings.IndexByte(kv, '='); eq >= 0 {
			index[kv[:eq]] = i
		}
	}

	for _, pair := range pairs {
		value := pair.Value
		if expanded, err := pathutil.ExpandEnv(pair.Value); err == nil {
			value = expanded
		}
		entry := pair.Key + "=" + value
		if i, ok := index[pair.Key]; ok {
			base[i] = entry
		} else {
			index[pair.Key] = len(base)
			base = append(base, entry)
		}
	}

	return base
}
