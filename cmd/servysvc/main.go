// Package main is the SCM entry point: a thin svc.Handler that decodes the
// service arguments into a definition.ServiceDefinition via
// supervisor.Runtime.OnStart, and tears it down again via OnStop when the
// service manager asks the service to stop.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"golang.org/x/sys/windows/svc"
	"golang.org/x/sys/windows/svc/debug"
	"golang.org/x/sys/windows/svc/mgr"

	"github.com/aelassas/servy-sub001/internal/eventsink"
	"github.com/aelassas/servy-sub001/internal/supervisor"
	"github.com/aelassas/servy-sub001/internal/winkernel"
)

// serviceName identifies this binary to the Service Control Manager. The
// supervised target's own name lives in the decoded ServiceDefinition and
// has no bearing on this constant.
const serviceName = "servysvc"

const eventLogSource = "servy-sub001"

func main() {
	install := flag.Bool("install", false, "register this executable as a Windows service")
	uninstall := flag.Bool("uninstall", false, "remove the Windows service registration")
	displayName := flag.String("display-name", "Servy Sub001 Supervisor", "service display name, used with -install")
	flag.Parse()

	switch {
	case *install:
		if err := registerService(*displayName, flag.Args()); err != nil {
			fmt.Fprintf(os.Stderr, "install failed: %v\n", err)
			os.Exit(1)
		}
		return
	case *uninstall:
		if err := unregisterService(); err != nil {
			fmt.Fprintf(os.Stderr, "uninstall failed: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	logger := buildLogger()
	defer logger.Close()

	kernel := winkernel.New()
	runtime := supervisor.New(kernel, logger)

	return launchService(runtime)
}

func buildLogger() eventsink.Logger {
	writers := []eventsink.Writer{eventsink.NewConsoleWriter(os.Stderr)}

	if evtWriter, err := eventsink.NewEventLogWriter(eventLogSource); err == nil {
		writers = append(writers, evtWriter)
	}

	return eventsink.New(eventsink.LevelInfo, writers...)
}

type handler struct {
	runtime *supervisor.Runtime
	fromsvc chan error
	done    chan struct{}
}

// launchService dispatches to the interactive debug harness or the real
// SCM loop depending on how the process was started, exactly like the
// teacher's ncproxy service glue. Either harness invokes Execute with the
// process's own argument vector, which is where the Lifecycle Controller's
// decode step (spec.md §4.3) gets its input.
func launchService(runtime *supervisor.Runtime) error {
	h := &handler{runtime: runtime, fromsvc: make(chan error), done: make(chan struct{})}

	interactive, err := svc.IsAnInteractiveSession()
	if err != nil {
		return err
	}

	go func() {
		if interactive {
			err = debug.Run(serviceName, h)
		} else {
			err = svc.Run(serviceName, h)
		}
		h.fromsvc <- err
	}()

	if startErr := <-h.fromsvc; startErr != nil {
		return startErr
	}
	<-h.done
	return nil
}

func (h *handler) Execute(args []string, r <-chan svc.ChangeRequest, s chan<- svc.Status) (bool, uint32) {
	s <- svc.Status{State: svc.StartPending}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := h.runtime.OnStart(ctx, args); err != nil {
		h.fromsvc <- nil
		s <- svc.Status{State: svc.Stopped}
		close(h.done)
		return false, 1
	}
	h.fromsvc <- nil

	s <- svc.Status{State: svc.Running, Accepts: svc.AcceptStop | svc.AcceptShutdown}

loop:
	for c := range r {
		switch c.Cmd {
		case svc.Interrogate:
			s <- c.CurrentStatus
		case svc.Stop, svc.Shutdown:
			s <- svc.Status{State: svc.StopPending}
			break loop
		}
	}

	if err := h.runtime.OnStop(); err != nil {
		s <- svc.Status{State: svc.Stopped}
		close(h.done)
		return false, 1
	}

	s <- svc.Status{State: svc.Stopped}
	close(h.done)
	return false, 0
}

// registerService installs this executable with the SCM. extraArgs become
// the positional argument vector decode reads on every subsequent start,
// i.e. the service definition itself.
func registerService(displayName string, extraArgs []string) error {
	exe, err := os.Executable()
	if err != nil {
		return err
	}

	m, err := mgr.Connect()
	if err != nil {
		return err
	}
	defer m.Disconnect()

	cfg := mgr.Config{
		StartType:   mgr.StartAutomatic,
		DisplayName: displayName,
	}

	s, err := m.CreateService(serviceName, exe, cfg, extraArgs...)
	if err != nil {
		return err
	}
	defer s.Close()
	return nil
}

func unregisterService() error {
	m, err := mgr.Connect()
	if err != nil {
		return err
	}
	defer m.Disconnect()

	s, err := m.OpenService(serviceName)
	if err != nil {
		return err
	}
	defer s.Close()
	return s.Delete()
}
