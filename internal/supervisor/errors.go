package supervisor

import "errors"

// ErrTeardown wraps a failure encountered while tearing the service down.
// OnStop still runs every remaining teardown step and returns the first
// error it observed, wrapped with this sentinel.
var ErrTeardown = errors.New("supervisor: teardown failed")
