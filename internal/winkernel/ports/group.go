package ports

import "os/exec"

// ContainmentGroup is a kill-on-close containment boundary for a child
// process tree, backed by a Windows Job Object. Assigning a process to the
// group and then releasing the group terminates every process still
// running inside it.
type ContainmentGroup interface {
	// Assign binds pid to the group. Must be called before the process has
	// a chance to spawn children that should escape containment.
	Assign(pid uint32) error

	// Release tears the group down, killing any process still assigned to
	// it. Idempotent.
	Release() error
}

// CredentialManager resolves and applies the run-as identity for a child
// process.
type CredentialManager interface {
	// ResolveToken exchanges a domain\user and password for a logon token,
	// used when RunAsLocalSystem is false.
	ResolveToken(account, password string) (Token, error)

	// ApplyToken configures cmd to launch under token.
	ApplyToken(cmd *exec.Cmd, token Token) error
}

// Token is an opaque handle to a resolved Windows logon token.
type Token interface {
	Close() error
}
