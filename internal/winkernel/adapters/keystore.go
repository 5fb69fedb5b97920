//go:build windows

package adapters

import (
	"os"
	"path/filepath"

	"golang.org/x/sys/windows"

	"github.com/aelassas/servy-sub001/internal/winkernel/ports"
)

// fileKeyStore persists the vault's machine-bound key under
// %ProgramData%\servy-sub001\vault.keys, hardening the ACL to
// Administrators and SYSTEM on first write.
type fileKeyStore struct {
	path string
}

// NewKeyStore creates a KeyStore rooted at %ProgramData%\servy-sub001.
func NewKeyStore() *fileKeyStore {
	root := os.Getenv("ProgramData")
	if root == "" {
		root = `C:\ProgramData`
	}
	return &fileKeyStore{path: filepath.Join(root, "servy-sub001", "vault.keys")}
}

func (s *fileKeyStore) Load() ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, ports.WrapError("load vault key", err)
	}
	return data, nil
}

func (s *fileKeyStore) Save(key []byte) error {
	_, existedBefore := os.Stat(s.path)
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return ports.WrapError("create vault key directory", err)
	}
	if err := os.WriteFile(s.path, key, 0o600); err != nil {
		return ports.WrapError("save vault key", err)
	}
	if existedBefore != nil {
		if err := hardenACL(s.path); err != nil {
			return ports.WrapError("harden vault key ACL", err)
		}
	}
	return nil
}

// hardenACL restricts the key file to Administrators and SYSTEM via the
// Windows security descriptor APIs, the Windows-native equivalent of the
// 0600 permission bits a Unix KeyStore would rely on.
func hardenACL(path string) error {
	sd, err := windows.SecurityDescriptorFromString("O:BAG:BAD:PAI(A;;FA;;;SY)(A;;FA;;;BA)")
	if err != nil {
		return err
	}
	dacl, _, err := sd.DACL()
	if err != nil {
		return err
	}
	return windows.SetNamedSecurityInfo(
		path,
		windows.SE_FILE_OBJECT,
		windows.DACL_SECURITY_INFORMATION|windows.PROTECTED_DACL_SECURITY_INFORMATION,
		nil, nil, dacl, nil,
	)
}
