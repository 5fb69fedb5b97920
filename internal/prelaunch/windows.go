//go:build windows

package prelaunch

import (
	"os/exec"
	"syscall"
)

const createNoWindow = 0x08000000

// configureWindowless mirrors internal/process's flag for the auxiliary
// process launch.
func configureWindowless(cmd *exec.Cmd) {
	if cmd.SysProcAttr == nil {
		cmd.SysProcAttr = &syscall.SysProcAttr{}
	}
	cmd.SysProcAttr.CreationFlags |= createNoWindow
}
