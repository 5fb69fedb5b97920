//go:build windows

package process

import (
	"os/exec"
	"syscall"
)

// createNoWindow matches the CREATE_NO_WINDOW flag documented for
// CreateProcess: the child gets no console window of its own, which
// matters because the supervisor itself typically runs without one.
const createNoWindow = 0x08000000

// configureWindowless sets the creation flags spec.md §4.5 requires for
// the launch: no console window is allocated for the child.
func configureWindowless(cmd *exec.Cmd) {
	if cmd.SysProcAttr == nil {
		cmd.SysProcAttr = &syscall.SysProcAttr{}
	}
	cmd.SysProcAttr.CreationFlags |= createNoWindow
}
