package ports

import "os/exec"

// PriorityController applies a Windows process priority class to a running
// child process. A failure to apply priority is a warning, never fatal:
// spec.md §4.5 requires the child to keep running at default priority.
type PriorityController interface {
	SetPriority(pid uint32, priority int) error
}

// ProcessControl groups the OS-level knobs the Child Container needs beyond
// os/exec itself: priority class and graceful shutdown.
type ProcessControl interface {
	PriorityController

	// RequestGracefulStop asks every top-level window owned by pid to
	// close, the Windows analogue of sending SIGTERM. hasWindow reports
	// whether any top-level window was found at all: a windowless target
	// has nothing to ask, so the caller should skip straight to Terminate
	// rather than waiting out the graceful-stop timeout for nothing.
	RequestGracefulStop(pid uint32) (hasWindow bool, err error)

	// Terminate forcibly kills the process backing cmd. The containment
	// group is left alone; it is released separately.
	Terminate(cmd *exec.Cmd) error
}
