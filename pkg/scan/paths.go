package scan

import (
	"fmt"
	"os"
	"path/filepath"
)

// ExecutableDir returns the directory holding the running binary, with symlinks resolved.
func ExecutableDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("failed to locate executable: %w", err)
	}
	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return "", fmt.Errorf("failed to resolve executable path: %w", err)
	}
	return filepath.Dir(exe), nil
}

// ResolveRelative returns p joined to dir when p is relative and exists under dir.
// Anything else is returned unchanged, so paths relative to the working directory keep working.
func ResolveRelative(dir, p string) string {
	if dir == "" || p == "" || filepath.IsAbs(p) {
		return p
	}
	candidate := filepath.Join(dir, p)
	if _, err := os.Stat(candidate); err != nil {
		return p
	}
	return candidate
}
