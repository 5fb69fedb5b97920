//go:build windows

package adapters

import (
	"sync"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/aelassas/servy-sub001/internal/winkernel/ports"
)

// jobContainmentGroup wraps a Windows Job Object configured with
// JOB_OBJECT_LIMIT_KILL_ON_JOB_CLOSE: closing the handle terminates every
// process still assigned to it. Grounded on the containment shape of
// hcsshim's internal/jobobject.JobObject, reduced to the single limit the
// Child Container needs.
type jobContainmentGroup struct {
	mu     sync.Mutex
	handle windows.Handle
}

// NewContainmentGroup creates a fresh, unnamed, kill-on-close Job Object.
func NewContainmentGroup() (ports.ContainmentGroup, error) {
	handle, err := windows.CreateJobObject(nil, nil)
	if err != nil {
		return nil, ports.WrapError("create job object", err)
	}

	var info windows.JOBOBJECT_EXTENDED_LIMIT_INFORMATION
	info.BasicLimitInformation.LimitFlags = windows.JOB_OBJECT_LIMIT_KILL_ON_JOB_CLOSE
	if _, err := windows.SetInformationJobObject(
		handle,
		windows.JobObjectExtendedLimitInformation,
		uintptr(unsafe.Pointer(&info)),
		uint32(unsafe.Sizeof(info)),
	); err != nil {
		windows.CloseHandle(handle)
		return nil, ports.WrapError("set job object limits", err)
	}

	return &jobContainmentGroup{handle: handle}, nil
}

func (j *jobContainmentGroup) Assign(pid uint32) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.handle == 0 {
		return ports.WrapError("assign", ports.ErrNotSupported)
	}

	proc, err := windows.OpenProcess(windows.PROCESS_ALL_ACCESS, false, pid)
	if err != nil {
		return ports.WrapError("open process for assignment", err)
	}
	defer windows.CloseHandle(proc)

	if err := windows.AssignProcessToJobObject(j.handle, proc); err != nil {
		return ports.WrapError("assign process to job object", err)
	}
	return nil
}

func (j *jobContainmentGroup) Release() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.handle == 0 {
		return nil
	}
	err := windows.CloseHandle(j.handle)
	j.handle = 0
	if err != nil {
		return ports.WrapError("release job object", err)
	}
	return nil
}
