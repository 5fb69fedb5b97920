package health

import "errors"

// ErrRecoveryExhausted is wrapped around the final log entry emitted when
// the restart budget is exhausted. The monitor does not return this error
// to any caller today; it exists so a future caller (e.g. the Lifecycle
// Controller surfacing a terminal condition to the SCM) has a stable
// sentinel to match on.
var ErrRecoveryExhausted = errors.New("health: restart budget exhausted")
