//go:build windows

package player

import (
	"os/exec"
	"syscall"
	"time"

	"github.com/Microsoft/go-winio"
)

const probeTimeout = 200 * time.Millisecond

func sysProcAttr() *syscall.SysProcAttr {
	// Windows manages process groups differently.
	return nil
}

func killProcess(cmd *exec.Cmd) error {
	if cmd == nil || cmd.Process == nil {
		return nil
	}
	return cmd.Process.Kill()
}

func defaultSocket(name string) string {
	return `\\.\pipe\` + name
}

// probeSocket reports whether the named pipe accepts connections.
func probeSocket(path string) bool {
	timeout := probeTimeout
	conn, err := winio.DialPipe(path, &timeout)
	if err != nil {
		return false
	}
	_ = conn.Close()
	return true
}

// Named pipes vanish with their server.
func removeSocket(string) error {
	return nil
}
