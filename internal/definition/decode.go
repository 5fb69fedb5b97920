package definition

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Positional indices of the argument vector described in spec.md §4.3. The
// spec's table stops naming slots after the pre-launch sub-vector; the
// remaining data-model fields (dependencies, run-as-local-system,
// user/password) are appended in the order below — see DESIGN.md for this
// Open Question resolution. service_name is always the last element.
const (
	posInvoker = iota
	posExecutablePath
	posExecutableArgs
	posWorkingDirectory
	posPriority
	posStdoutPath
	posStderrPath
	posRotationSizeBytes
	posHeartbeatIntervalSeconds
	posMaxFailedChecks
	posRecoveryAction
	posMaxRestartAttempts
	posEnvironment
	posPreExecutablePath
	posPreExecutableArgs
	posPreWorkingDirectory
	posPreStdoutPath
	posPreStderrPath
	posPreEnvironment
	posPreTimeoutSeconds
	posPreRetryAttempts
	posPreIgnoreFailure
	posDependencies
	posRunAsLocalSystem
	posUserAccount
	posPassword
	minArgCount // everything at or after this index is service_name
)

// emptySentinel is the two-character reserved token an empty positional
// argument is represented as (spec.md §6).
const emptySentinel = `""`

// Decode parses the service control manager's argument vector into a
// ServiceDefinition. It never panics; on an empty or missing executable
// path it returns a nil definition and ErrEmptyExecutablePath, the one
// failure mode spec.md §4.3 calls out explicitly as fatal to decoding (the
// caller / Lifecycle Controller stops the service in response). A
// malformed main environment string also returns a nil definition, with
// the environment error. The executable path is not otherwise validated.
func Decode(args []string) (*ServiceDefinition, error) {
	toks := make([]string, len(args))
	for i, a := range args {
		toks[i] = trimToken(a)
	}

	execPath := at(toks, posExecutablePath)
	if execPath == "" {
		return nil, fmt.Errorf("%w: %w", ErrConfiguration, ErrEmptyExecutablePath)
	}

	d := &ServiceDefinition{
		ExecutablePath:     execPath,
		ExecutableArgs:     at(toks, posExecutableArgs),
		WorkingDirectory:   at(toks, posWorkingDirectory),
		Priority:           parsePriority(at(toks, posPriority)),
		StdoutPath:         at(toks, posStdoutPath),
		StderrPath:         at(toks, posStderrPath),
		RotationSizeBytes:  parseInt64Default(at(toks, posRotationSizeBytes), DefaultRotationSizeBytes),
		HeartbeatInterval:  parseSecondsDefault(at(toks, posHeartbeatIntervalSeconds), DefaultHeartbeatInterval),
		MaxFailedChecks:    parseUint32Default(at(toks, posMaxFailedChecks), DefaultMaxFailedChecks),
		RecoveryAction:     parseRecoveryAction(at(toks, posRecoveryAction)),
		MaxRestartAttempts: parseUint32Default(at(toks, posMaxRestartAttempts), DefaultMaxRestartAttempts),
		Dependencies:       ParseDependencies(at(toks, posDependencies)),
		RunAsLocalSystem:   parseBoolDefault(at(toks, posRunAsLocalSystem), true),
		UserAccount:        at(toks, posUserAccount),
		Password:           at(toks, posPassword),
	}

	env, err := ParseEnvironment(at(toks, posEnvironment))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}
	d.Environment = env

	if pre := decodePreLaunch(toks); pre != nil {
		d.PreLaunch = pre
	}

	if len(toks) > minArgCount {
		d.ServiceName = toks[len(toks)-1]
	}

	return d, nil
}

func decodePreLaunch(toks []string) *PreLaunch {
	execPath := at(toks, posPreExecutablePath)
	if execPath == "" {
		return nil
	}

	env, err := ParseEnvironment(at(toks, posPreEnvironment))
	if err != nil {
		env = nil
	}

	return &PreLaunch{
		ExecutablePath:   execPath,
		ExecutableArgs:   at(toks, posPreExecutableArgs),
		WorkingDirectory: at(toks, posPreWorkingDirectory),
		Environment:      env,
		StdoutPath:       at(toks, posPreStdoutPath),
		StderrPath:       at(toks, posPreStderrPath),
		Timeout:          parseSecondsDefault(at(toks, posPreTimeoutSeconds), DefaultPreLaunchTimeout),
		RetryAttempts:    parseUint32Default(at(toks, posPreRetryAttempts), 0),
		IgnoreFailure:    parseBoolDefault(at(toks, posPreIgnoreFailure), false),
	}
}

// at returns the trimmed token at position i, or "" if the vector is too
// short — "missing trailing positions take their documented defaults".
func at(toks []string, i int) string {
	if i < 0 || i >= len(toks) {
		return ""
	}
	return toks[i]
}

// trimToken trims surrounding whitespace and a single paired layer of
// outer quotes, and collapses the reserved empty sentinel to "".
func trimToken(s string) string {
	s = strings.TrimSpace(s)
	if s == emptySentinel {
		return ""
	}
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	return s
}

func parsePriority(s string) Priority {
	switch strings.ToLower(s) {
	case "idle":
		return PriorityIdle
	case "belownormal":
		return PriorityBelowNormal
	case "abovenormal":
		return PriorityAboveNormal
	case "high":
		return PriorityHigh
	case "realtime":
		return PriorityRealTime
	default:
		return PriorityNormal
	}
}

func parseRecoveryAction(s string) RecoveryAction {
	switch strings.ToLower(s) {
	case "restartprocess":
		return RecoveryRestartProcess
	case "restartservice":
		return RecoveryRestartService
	case "restartcomputer":
		return RecoveryRestartComputer
	default:
		return RecoveryNone
	}
}

func parseInt64Default(s string, def int64) int64 {
	if s == "" {
		return def
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil || v < 0 {
		return def
	}
	return v
}

func parseUint32Default(s string, def uint32) uint32 {
	if s == "" {
		return def
	}
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return def
	}
	return uint32(v)
}

func parseSecondsDefault(s string, def time.Duration) time.Duration {
	if s == "" {
		return def
	}
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return def
	}
	return time.Duration(v) * time.Second
}

func parseBoolDefault(s string, def bool) bool {
	if s == "" {
		return def
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return def
	}
	return v
}
