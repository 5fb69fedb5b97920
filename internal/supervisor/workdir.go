package supervisor

import (
	"os"
	"path/filepath"

	"github.com/aelassas/servy-sub001/internal/definition"
	"github.com/aelassas/servy-sub001/internal/pathutil"
)

// systemDirectory returns the Windows System32 directory, the terminal
// fallback in the chain below. Overridable in tests.
var systemDirectory = func() string {
	root := os.Getenv("SystemRoot")
	if root == "" {
		root = `C:\Windows`
	}
	return filepath.Join(root, "System32")
}

// resolveWorkingDirectory applies the spec.md §3 fallback chain: the
// declared working directory if valid, else the directory containing the
// target executable, else System32.
func resolveWorkingDirectory(d *definition.ServiceDefinition) string {
	if d.WorkingDirectory != "" && pathutil.ValidateExists(d.WorkingDirectory, pathutil.KindDirectory) == nil {
		return d.WorkingDirectory
	}

	execDir := filepath.Dir(d.ExecutablePath)
	if pathutil.ValidateExists(execDir, pathutil.KindDirectory) == nil {
		return execDir
	}

	return systemDirectory()
}
