//go:build !windows

package env

import (
	"errors"
	"os"
)

// ErrUnsupported is returned for operations that only exist on Windows
var ErrUnsupported = errors.New("only supported on Windows")

// PersistJavaHome writes JAVA_HOME system-wide. On Unix there is no single
// machine-wide environment store, so callers fall back to per-run env.
func PersistJavaHome(javaPath string) error {
	return ErrUnsupported
}

// SystemJavaHome returns the machine-wide JAVA_HOME, which Unix doesn't have
func SystemJavaHome() (string, error) {
	return "", ErrUnsupported
}

// IsAdmin checks if the current process runs as root
func IsAdmin() bool {
	return os.Geteuid() == 0
}
