// Package winkernel provides Windows OS abstraction for the supervisor:
// process containment groups, credential resolution, the machine-bound key
// store, and service/computer restart dispatch.
package winkernel

import (
	"github.com/aelassas/servy-sub001/internal/winkernel/adapters"
	"github.com/aelassas/servy-sub001/internal/winkernel/ports"
)

// Kernel aggregates every platform-specific interface the supervisor needs.
type Kernel struct {
	// Credentials resolves and applies the run-as identity for a child.
	Credentials ports.CredentialManager
	// Process handles priority class and graceful/forceful shutdown.
	Process ports.ProcessControl
	// KeyStore persists the credential vault's machine-bound key.
	KeyStore ports.KeyStore
	// ServiceControl dispatches RestartService.
	ServiceControl ports.ServiceController
	// ComputerControl dispatches RestartComputer.
	ComputerControl ports.ComputerController
}

// New creates a Kernel backed by the real Windows adapters.
func New() *Kernel {
	return &Kernel{
		Credentials:     adapters.NewCredentialManager(),
		Process:         adapters.NewProcessControl(),
		KeyStore:        adapters.NewKeyStore(),
		ServiceControl:  adapters.NewServiceController(),
		ComputerControl: adapters.NewComputerController(),
	}
}

// NewContainmentGroup creates a fresh Job Object-backed containment group.
// It is a function, not a Kernel field, because the Child Container
// creates a new instance whenever its previous group has been released,
// rather than sharing one singleton.
var NewContainmentGroup = adapters.NewContainmentGroup
