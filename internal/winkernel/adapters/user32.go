//go:build windows

package adapters

import "syscall"

// Windows x/sys does not expose EnumWindows/PostMessage (they belong to
// user32, outside the kernel32/ntdll surface x/sys/windows wraps), so they
// are bound directly the way the rest of the ecosystem does it for
// user32-only calls.
var (
	user32                       = syscall.NewLazyDLL("user32.dll")
	procEnumWindows              = user32.NewProc("EnumWindows")
	procGetWindowThreadProcessID = user32.NewProc("GetWindowThreadProcessId")
	procPostMessage              = user32.NewProc("PostMessageW")
)

const wmClose = 0x0010
