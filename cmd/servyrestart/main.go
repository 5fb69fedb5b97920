// Package main implements the restart helper collaborator (spec.md §6):
// a one-shot binary that stops and restarts a named Windows service,
// invoked by the Health Monitor's RestartService recovery action because
// golang.org/x/sys/windows/svc exposes no single-call restart primitive.
package main

import (
	"fmt"
	"os"
	"time"

	"golang.org/x/sys/windows/svc"
	"golang.org/x/sys/windows/svc/mgr"
)

const pollInterval = 200 * time.Millisecond

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: servyrestart.exe <service-name>")
		os.Exit(1)
	}

	if err := restart(os.Args[1]); err != nil {
		fmt.Fprintf(os.Stderr, "servyrestart: %v\n", err)
		os.Exit(1)
	}
}

func restart(name string) error {
	m, err := mgr.Connect()
	if err != nil {
		return fmt.Errorf("connect to service manager: %w", err)
	}
	defer m.Disconnect()

	s, err := m.OpenService(name)
	if err != nil {
		return fmt.Errorf("open service %q: %w", name, err)
	}
	defer s.Close()

	status, err := s.Query()
	if err != nil {
		return fmt.Errorf("query service %q: %w", name, err)
	}

	if status.State != svc.Stopped {
		status, err = s.Control(svc.Stop)
		if err != nil {
			return fmt.Errorf("stop service %q: %w", name, err)
		}
		if err := waitForState(s, svc.Stopped); err != nil {
			return err
		}
	}

	if err := s.Start(); err != nil {
		return fmt.Errorf("start service %q: %w", name, err)
	}
	return nil
}

func waitForState(s *mgr.Service, want svc.State) error {
	deadline := time.Now().Add(30 * time.Second)
	for time.Now().Before(deadline) {
		status, err := s.Query()
		if err != nil {
			return fmt.Errorf("query service state: %w", err)
		}
		if status.State == want {
			return nil
		}
		time.Sleep(pollInterval)
	}
	return fmt.Errorf("timed out waiting for state %v", want)
}
