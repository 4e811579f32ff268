//go:build !windows

package launcher

import (
	"os"
	"syscall"
)

// exitStatus maps a finished process state to a shell-style exit code,
// 128+signal when the child died on a signal
func exitStatus(state *os.ProcessState) int {
	if ws, ok := state.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return 128 + int(ws.Signal())
	}
	return state.ExitCode()
}
