// Package definition provides the service definition data model and its
// codec to and from the Windows Service Control Manager argument vector.
package definition

import "time"

// Priority is the Windows process priority class requested for the target.
type Priority int

const (
	PriorityNormal Priority = iota
	PriorityIdle
	PriorityBelowNormal
	PriorityAboveNormal
	PriorityHigh
	PriorityRealTime
)

// String returns the canonical, case-insensitive-parseable name of the priority.
func (p Priority) String() string {
	switch p {
	case PriorityIdle:
		return "Idle"
	case PriorityBelowNormal:
		return "BelowNormal"
	case PriorityAboveNormal:
		return "AboveNormal"
	case PriorityHigh:
		return "High"
	case PriorityRealTime:
		return "RealTime"
	default:
		return "Normal"
	}
}

// RecoveryAction identifies the response dispatched by the health monitor
// when the configured number of failed heartbeats is reached.
type RecoveryAction int

const (
	RecoveryNone RecoveryAction = iota
	RecoveryRestartProcess
	RecoveryRestartService
	RecoveryRestartComputer
)

// String returns the canonical, case-insensitive-parseable name of the action.
func (a RecoveryAction) String() string {
	switch a {
	case RecoveryRestartProcess:
		return "RestartProcess"
	case RecoveryRestartService:
		return "RestartService"
	case RecoveryRestartComputer:
		return "RestartComputer"
	default:
		return "None"
	}
}

// Default values applied by Decode when a positional argument is absent or
// fails to parse. See spec.md §4.3.
const (
	DefaultRotationSizeBytes   int64         = 10 * 1024 * 1024
	MinRotationSizeBytes       int64         = 1 * 1024 * 1024
	DefaultHeartbeatInterval   time.Duration = 30 * time.Second
	DefaultMaxFailedChecks     uint32        = 3
	DefaultMaxRestartAttempts  uint32        = 3
	DefaultPreLaunchTimeout    time.Duration = 30 * time.Second
	DefaultChildStopTimeout    time.Duration = 5 * time.Second
	MinDependentStopTimeout    time.Duration = 30 * time.Second
)

// EnvPair is an ordered key/value environment entry. Order is preserved so
// that later pairs win on key collision during child environment assembly,
// matching the "service-defined pairs win" rule in spec.md §4.5.
type EnvPair struct {
	Key   string
	Value string
}

// PreLaunch mirrors the optional auxiliary-process sub-record described in
// spec.md §3 and §4.6.
type PreLaunch struct {
	ExecutablePath   string
	ExecutableArgs   string
	WorkingDirectory string
	Environment      []EnvPair
	StdoutPath       string
	StderrPath       string
	Timeout          time.Duration
	RetryAttempts    uint32
	IgnoreFailure    bool
}

// ServiceDefinition is the immutable, decoded representation of one
// supervised service instance. See spec.md §3.
type ServiceDefinition struct {
	ServiceName        string
	ExecutablePath     string
	ExecutableArgs     string
	WorkingDirectory   string
	Priority           Priority
	StdoutPath         string
	StderrPath         string
	RotationSizeBytes  int64
	HeartbeatInterval  time.Duration
	MaxFailedChecks    uint32
	RecoveryAction     RecoveryAction
	MaxRestartAttempts uint32
	Environment        []EnvPair
	Dependencies       []string
	RunAsLocalSystem   bool
	UserAccount        string
	Password           string
	PreLaunch          *PreLaunch
}

// HealthMonitorEnabled reports whether the three gating conditions from
// spec.md §3's invariants all hold, i.e. whether the health monitor should
// be created at all.
func (d *ServiceDefinition) HealthMonitorEnabled() bool {
	return d.RecoveryAction != RecoveryNone &&
		d.HeartbeatInterval > 0 &&
		d.MaxFailedChecks > 0
}

// EffectiveRotationSize applies the "0 disables, else effective minimum
// 1 MiB" rule from spec.md §3.
func (d *ServiceDefinition) EffectiveRotationSize() int64 {
	if d.RotationSizeBytes <= 0 {
		return 0
	}
	if d.RotationSizeBytes < MinRotationSizeBytes {
		return MinRotationSizeBytes
	}
	return d.RotationSizeBytes
}

// SharesLogSink reports whether stdout and stderr are configured to the
// same physical path, per the shared-writer invariant in spec.md §3.
func (d *ServiceDefinition) SharesLogSink() bool {
	return d.StdoutPath != "" && d.StdoutPath == d.StderrPath
}
