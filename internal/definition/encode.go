package definition

import (
	"strconv"
)

// Encode is the inverse of Decode: it produces the argument vector that,
// fed back through Decode, reconstructs an equivalent ServiceDefinition
// (spec.md §8's round-trip property). Position posInvoker carries no
// ServiceDefinition field and is emitted empty.
func Encode(d *ServiceDefinition) []string {
	toks := make([]string, minArgCount+1)
	for i := range toks {
		toks[i] = emptySentinel
	}

	toks[posExecutablePath] = tok(d.ExecutablePath)
	toks[posExecutableArgs] = tok(d.ExecutableArgs)
	toks[posWorkingDirectory] = tok(d.WorkingDirectory)
	toks[posPriority] = d.Priority.String()
	toks[posStdoutPath] = tok(d.StdoutPath)
	toks[posStderrPath] = tok(d.StderrPath)
	toks[posRotationSizeBytes] = strconv.FormatInt(d.RotationSizeBytes, 10)
	toks[posHeartbeatIntervalSeconds] = strconv.FormatInt(int64(d.HeartbeatInterval/1_000_000_000), 10)
	toks[posMaxFailedChecks] = strconv.FormatUint(uint64(d.MaxFailedChecks), 10)
	toks[posRecoveryAction] = d.RecoveryAction.String()
	toks[posMaxRestartAttempts] = strconv.FormatUint(uint64(d.MaxRestartAttempts), 10)
	toks[posEnvironment] = tok(FormatEnvironment(d.Environment))
	toks[posDependencies] = tok(FormatDependencies(d.Dependencies))
	toks[posRunAsLocalSystem] = strconv.FormatBool(d.RunAsLocalSystem)
	toks[posUserAccount] = tok(d.UserAccount)
	toks[posPassword] = tok(d.Password)

	if d.PreLaunch != nil {
		p := d.PreLaunch
		toks[posPreExecutablePath] = tok(p.ExecutablePath)
		toks[posPreExecutableArgs] = tok(p.ExecutableArgs)
		toks[posPreWorkingDirectory] = tok(p.WorkingDirectory)
		toks[posPreStdoutPath] = tok(p.StdoutPath)
		toks[posPreStderrPath] = tok(p.StderrPath)
		toks[posPreEnvironment] = tok(FormatEnvironment(p.Environment))
		toks[posPreTimeoutSeconds] = strconv.FormatInt(int64(p.Timeout/1_000_000_000), 10)
		toks[posPreRetryAttempts] = strconv.FormatUint(uint64(p.RetryAttempts), 10)
		toks[posPreIgnoreFailure] = strconv.FormatBool(p.IgnoreFailure)
	}

	toks[len(toks)-1] = tok(d.ServiceName)

	return toks
}

// tok emits the reserved empty sentinel for an empty string so Decode can
// tell "present but empty" apart from a too-short vector.
func tok(s string) string {
	if s == "" {
		return emptySentinel
	}
	return s
}
