//go:build !windows

package player

import (
	"net"
	"os/exec"
	"path/filepath"
	"syscall"
	"time"

	"github.com/anisan-cli/mpvipc/filesystem"
	"github.com/anisan-cli/mpvipc/where"
)

const probeTimeout = 200 * time.Millisecond

func sysProcAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{
		Setpgid: true,
	}
}

func killProcess(cmd *exec.Cmd) error {
	if cmd == nil || cmd.Process == nil {
		return nil
	}
	// Kill the entire process group
	_ = syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	return cmd.Process.Kill()
}

func defaultSocket(name string) string {
	return filepath.Join(where.Runtime(), name+".sock")
}

// probeSocket reports whether something accepts connections on the socket.
func probeSocket(path string) bool {
	if exists, err := filesystem.API().Exists(path); err != nil || !exists {
		return false
	}
	conn, err := net.DialTimeout("unix", path, probeTimeout)
	if err != nil {
		return false
	}
	_ = conn.Close()
	return true
}

func removeSocket(path string) error {
	return filesystem.RemoveIfExists(path)
}
