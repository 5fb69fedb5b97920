//go:build windows

package adapters

import (
	"os"
	"os/exec"
	"path/filepath"

	"github.com/aelassas/servy-sub001/internal/winkernel/ports"
)

// shellServiceController dispatches RestartService by invoking the
// standalone servyrestart helper binary, installed alongside the service
// executable. Windows exposes no single-call "restart this service"
// primitive through golang.org/x/sys/windows/svc/mgr, so the dispatch
// always shells out rather than driving SCM in-process (spec.md §9 open
// question 3).
type shellServiceController struct {
	helperPath string
}

// NewServiceController locates servyrestart.exe next to the running
// executable.
func NewServiceController() *shellServiceController {
	exe, err := os.Executable()
	if err != nil {
		return &shellServiceController{helperPath: "servyrestart.exe"}
	}
	return &shellServiceController{helperPath: filepath.Join(filepath.Dir(exe), "servyrestart.exe")}
}

func (c *shellServiceController) RestartService(name string) error {
	cmd := exec.Command(c.helperPath, name)
	if err := cmd.Run(); err != nil {
		return ports.WrapError("restart service via helper", err)
	}
	return nil
}

// shellComputerController dispatches RestartComputer via shutdown.exe, the
// standard Windows utility for a reboot request.
type shellComputerController struct{}

// NewComputerController creates a ComputerController.
func NewComputerController() *shellComputerController {
	return &shellComputerController{}
}

// RestartComputer forces the reboot (/f) so that an application declining
// to close can't hang a health-triggered restart indefinitely.
func (c *shellComputerController) RestartComputer() error {
	cmd := exec.Command("shutdown.exe", "/r", "/f", "/t", "0")
	if err := cmd.Run(); err != nil {
		return ports.WrapError("restart computer", err)
	}
	return nil
}
