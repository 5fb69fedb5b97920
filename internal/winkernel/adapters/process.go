//go:build windows

package adapters

import (
	"os/exec"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/aelassas/servy-sub001/internal/winkernel/ports"
)

// windowsProcessControl implements ports.ProcessControl using
// SetPriorityClass, EnumWindows/PostMessage for graceful shutdown, and
// TerminateProcess as the forceful fallback.
type windowsProcessControl struct{}

// NewProcessControl creates a new ProcessControl.
func NewProcessControl() *windowsProcessControl {
	return &windowsProcessControl{}
}

// priorityClasses maps the definition.Priority ordinal to the
// Win32 *_PRIORITY_CLASS constant. Kept here rather than in internal/
// definition so that package stays free of windows.h concerns.
var priorityClasses = map[int]uint32{
	0: windows.NORMAL_PRIORITY_CLASS,
	1: windows.IDLE_PRIORITY_CLASS,
	2: windows.BELOW_NORMAL_PRIORITY_CLASS,
	3: windows.ABOVE_NORMAL_PRIORITY_CLASS,
	4: windows.HIGH_PRIORITY_CLASS,
	5: windows.REALTIME_PRIORITY_CLASS,
}

func (p *windowsProcessControl) SetPriority(pid uint32, priority int) error {
	class, ok := priorityClasses[priority]
	if !ok {
		class = windows.NORMAL_PRIORITY_CLASS
	}

	handle, err := windows.OpenProcess(windows.PROCESS_SET_INFORMATION, false, pid)
	if err != nil {
		return ports.WrapError("open process for priority", err)
	}
	defer windows.CloseHandle(handle)

	if err := windows.SetPriorityClass(handle, class); err != nil {
		return ports.WrapError("set priority class", err)
	}
	return nil
}

// RequestGracefulStop posts WM_CLOSE to every top-level window owned by
// pid, the Windows analogue of sending SIGTERM to a process group, and
// reports whether it found any window to post to.
func (p *windowsProcessControl) RequestGracefulStop(pid uint32) (bool, error) {
	var lastErr error
	var found bool
	cb := syscall.NewCallback(func(hwnd syscall.Handle, lparam uintptr) uintptr {
		var windowPID uint32
		_, _, _ = procGetWindowThreadProcessID.Call(uintptr(hwnd), uintptr(unsafe.Pointer(&windowPID)))
		if windowPID == uint32(lparam) {
			found = true
			_, _, _ = procPostMessage.Call(uintptr(hwnd), wmClose, 0, 0)
		}
		return 1
	})
	ret, _, callErr := procEnumWindows.Call(cb, uintptr(pid))
	if ret == 0 {
		lastErr = callErr
	}
	if lastErr != nil && lastErr != syscall.Errno(0) {
		return found, ports.WrapError("enum windows", lastErr)
	}
	return found, nil
}

// Terminate forcibly kills the process backing cmd.
func (p *windowsProcessControl) Terminate(cmd *exec.Cmd) error {
	if cmd.Process == nil {
		return nil
	}
	if err := cmd.Process.Kill(); err != nil {
		return ports.WrapError("terminate process", err)
	}
	return nil
}
