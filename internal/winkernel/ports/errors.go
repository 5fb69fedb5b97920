// Package ports defines the interfaces for Windows OS abstraction used by
// the supervisor: process containment, credential resolution, the
// machine-bound key store, service control dispatch, and the window-close
// capability used for graceful child shutdown.
package ports

import (
	"errors"
	"fmt"
)

// Sentinel errors for kernel operations.
var (
	ErrProcessNotFound  = errors.New("process not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrUserNotFound     = errors.New("user not found")
	ErrNotSupported     = errors.New("operation not supported on this platform")
)

// KernelError wraps OS-specific errors with the operation that produced them.
type KernelError struct {
	Op  string
	Err error
}

func (e *KernelError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return e.Op
}

func (e *KernelError) Unwrap() error {
	return e.Err
}

// WrapError wraps err with operation context, passing nil through unchanged.
func WrapError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &KernelError{Op: op, Err: err}
}
