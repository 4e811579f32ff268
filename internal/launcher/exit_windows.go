//go:build windows

package launcher

import "os"

// exitStatus maps a finished process state to its exit code
func exitStatus(state *os.ProcessState) int {
	return state.ExitCode()
}
