//go:build windows

package adapters

import (
	"os/exec"
	"strings"
	"syscall"

	"golang.org/x/sys/windows"

	"github.com/aelassas/servy-sub001/internal/winkernel/ports"
)

// windowsCredentialManager resolves a run-as account via LogonUser and
// applies the resulting token to a child process's SysProcAttr.
type windowsCredentialManager struct{}

// NewCredentialManager creates a new CredentialManager.
func NewCredentialManager() *windowsCredentialManager {
	return &windowsCredentialManager{}
}

// logonToken wraps a Windows token handle.
type logonToken struct {
	handle windows.Token
}

func (t *logonToken) Close() error {
	return windows.CloseHandle(windows.Handle(t.handle))
}

// ResolveToken exchanges account\password for a logon token.
// account may be "DOMAIN\user" or a bare username, in which case "." is
// used as the domain (the local machine), matching LogonUser convention.
func (m *windowsCredentialManager) ResolveToken(account, password string) (ports.Token, error) {
	domain := "."
	user := account
	if idx := strings.IndexByte(account, '\\'); idx >= 0 {
		domain = account[:idx]
		user = account[idx+1:]
	}

	userPtr, err := syscall.UTF16PtrFromString(user)
	if err != nil {
		return nil, ports.WrapError("encode username", err)
	}
	domainPtr, err := syscall.UTF16PtrFromString(domain)
	if err != nil {
		return nil, ports.WrapError("encode domain", err)
	}
	passPtr, err := syscall.UTF16PtrFromString(password)
	if err != nil {
		return nil, ports.WrapError("encode password", err)
	}

	var handle windows.Token
	err = windows.LogonUser(
		userPtr,
		domainPtr,
		passPtr,
		windows.LOGON32_LOGON_SERVICE,
		windows.LOGON32_PROVIDER_DEFAULT,
		&handle,
	)
	if err != nil {
		return nil, ports.WrapError("logon user", err)
	}

	return &logonToken{handle: handle}, nil
}

// ApplyToken configures cmd to run under token's identity.
func (m *windowsCredentialManager) ApplyToken(cmd *exec.Cmd, token ports.Token) error {
	lt, ok := token.(*logonToken)
	if !ok {
		return ports.WrapError("apply token", ports.ErrNotSupported)
	}
	if cmd.SysProcAttr == nil {
		cmd.SysProcAttr = &syscall.SysProcAttr{}
	}
	cmd.SysProcAttr.Token = syscall.Token(lt.handle)
	return nil
}
