package definition

import "errors"

// ErrConfiguration is the wrapping sentinel for every decode-time failure
// below: malformed argument vector, empty executable path, bad
// environment syntax. It is the spec.md §7 ConfigurationError kind; it
// fails service start and never triggers recovery.
var ErrConfiguration = errors.New("definition: invalid configuration")

// Sentinel errors surfaced by the decoder and the environment/dependency
// codecs. Each is wrapped in ErrConfiguration at the point Decode returns
// it, so callers can match either the specific cause or the general kind.
var (
	ErrEmptyExecutablePath     = errors.New("definition: executable_path is empty")
	ErrEmptyEnvironmentKey     = errors.New("definition: environment key is empty")
	ErrMalformedEnvironment    = errors.New("definition: malformed environment segment")
	ErrDuplicateEnvironmentKey = errors.New("definition: duplicate environment key")
)
