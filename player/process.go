// Package player launches and supervises the player process whose IPC socket a session connects to.
package player

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/anisan-cli/mpvipc/constant"
	"github.com/anisan-cli/mpvipc/log"
	"github.com/anisan-cli/mpvipc/util"
	"github.com/samber/lo"
)

const (
	defaultExecutable     = "mpv"
	defaultStartupTimeout = 10 * time.Second
	defaultPollInterval   = 300 * time.Millisecond
	exitGrace             = 3 * time.Second
)

// ErrStartup is wrapped by every StartError.
var ErrStartup = errors.New("player did not become ready")

// StartError reports a player that never opened its IPC socket.
// ExitCode is -1 when the process was still running at the deadline.
type StartError struct {
	ExitCode int
	Err      error
}

func (e *StartError) Error() string {
	if e.ExitCode >= 0 {
		return fmt.Sprintf("%v (exit code %d): %v", ErrStartup, e.ExitCode, e.Err)
	}
	return fmt.Sprintf("%v: %v", ErrStartup, e.Err)
}

func (e *StartError) Unwrap() []error {
	return []error{ErrStartup, e.Err}
}

// Options describes how to launch the player.
type Options struct {
	// Executable is the player binary, "mpv" when empty.
	Executable string

	// Socket is the IPC socket or pipe path. A unique one is generated when empty.
	Socket string

	// Args are startup options rendered as --key=value, or --key for an empty value.
	Args map[string]string

	// Targets are files or URLs to open.
	Targets []string

	// StartupTimeout bounds how long Start polls for the socket. Defaults to 10s.
	StartupTimeout time.Duration

	// PollInterval is the delay between socket probes. Defaults to 300ms.
	PollInterval time.Duration
}

// Process is a launched player.
type Process struct {
	opts   Options
	socket string

	mu     sync.Mutex
	cmd    *exec.Cmd
	exited chan struct{}
	exit   error
}

// New prepares a Process. Nothing is started until Start.
func New(opts Options) *Process {
	if opts.Executable == "" {
		opts.Executable = defaultExecutable
	}
	if opts.StartupTimeout <= 0 {
		opts.StartupTimeout = defaultStartupTimeout
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = defaultPollInterval
	}

	socket := opts.Socket
	if socket == "" {
		socket = defaultSocket(fmt.Sprintf("%s-%s", constant.App, util.RandomHex(4)))
	}

	return &Process{
		opts:   opts,
		socket: socket,
		exited: make(chan struct{}),
	}
}

// Socket returns the IPC endpoint the player listens on.
func (p *Process) Socket() string {
	return p.socket
}

// Exited is closed when the process has exited.
func (p *Process) Exited() <-chan struct{} {
	return p.exited
}

// Args returns the full command line passed to the executable.
func (p *Process) Args() ([]string, error) {
	return BuildArgs(p.socket, p.opts.Args, p.opts.Targets)
}

// BuildArgs renders the startup options in a stable order. The IPC server option is
// always first and --idle=yes is added unless the caller chose an idle mode.
func BuildArgs(socket string, options map[string]string, targets []string) ([]string, error) {
	args := []string{"--input-ipc-server=" + socket}

	keys := lo.Keys(options)
	sort.Strings(keys)

	for _, k := range keys {
		name := strings.TrimLeft(k, "-")
		if name == "" || name == "input-ipc-server" {
			continue
		}
		if v := options[k]; v != "" {
			args = append(args, fmt.Sprintf("--%s=%s", name, v))
		} else {
			args = append(args, "--"+name)
		}
	}

	if _, ok := options["idle"]; !ok {
		args = append(args, "--idle=yes")
	}

	if len(targets) > 0 {
		args = append(args, "--")
		for _, t := range targets {
			safe, err := sanitizeMediaTarget(t)
			if err != nil {
				return nil, fmt.Errorf("invalid media target: %w", err)
			}
			args = append(args, safe)
		}
	}

	return args, nil
}

// ParseArgs turns key=value pairs, as stored in the configuration, into an options map.
func ParseArgs(pairs []string) map[string]string {
	out := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		k, v, _ := strings.Cut(strings.TrimSpace(pair), "=")
		k = strings.TrimLeft(k, "-")
		if k == "" {
			continue
		}
		out[k] = v
	}
	return out
}

// Start launches the player and waits until its IPC socket accepts connections.
// A process whose socket never appears is killed.
func (p *Process) Start(ctx context.Context) error {
	args, err := p.Args()
	if err != nil {
		return err
	}

	p.mu.Lock()
	if p.cmd != nil {
		p.mu.Unlock()
		return errors.New("player already started")
	}

	cmd := exec.Command(p.opts.Executable, args...)
	// Detach from parent process group so terminal signals do not reach the player.
	cmd.SysProcAttr = sysProcAttr()
	cmd.Stdout = nil
	cmd.Stderr = nil
	cmd.Stdin = nil

	if err := cmd.Start(); err != nil {
		p.mu.Unlock()
		return fmt.Errorf("start %s: %w", p.opts.Executable, err)
	}
	p.cmd = cmd
	p.mu.Unlock()

	log.Infof("started %s (pid %d) on %s", p.opts.Executable, cmd.Process.Pid, p.socket)

	// Reap the process to prevent zombies.
	go func() {
		err := cmd.Wait()
		p.mu.Lock()
		p.exit = err
		p.mu.Unlock()
		close(p.exited)
	}()

	if err := p.waitForSocket(ctx); err != nil {
		select {
		case <-p.exited:
		default:
			log.Warnf("killing %s: socket never became ready", p.opts.Executable)
			_ = killProcess(cmd)
		}
		return err
	}

	return nil
}

// waitForSocket polls until the IPC socket is accepting connections.
func (p *Process) waitForSocket(ctx context.Context) error {
	deadline := time.NewTimer(p.opts.StartupTimeout)
	defer deadline.Stop()
	ticker := time.NewTicker(p.opts.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-p.exited:
			return &StartError{ExitCode: p.exitCode(), Err: errors.New("exited before the socket was ready")}
		case <-ctx.Done():
			return &StartError{ExitCode: -1, Err: ctx.Err()}
		case <-deadline.C:
			return &StartError{ExitCode: -1, Err: fmt.Errorf("socket %s not ready after %s", p.socket, p.opts.StartupTimeout)}
		case <-ticker.C:
			if probeSocket(p.socket) {
				return nil
			}
		}
	}
}

func (p *Process) exitCode() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	var exitErr *exec.ExitError
	switch {
	case p.exit == nil && p.cmd != nil && p.cmd.ProcessState != nil:
		return p.cmd.ProcessState.ExitCode()
	case errors.As(p.exit, &exitErr):
		return exitErr.ExitCode()
	default:
		return -1
	}
}

// Stop terminates the process and removes its socket file.
// Callers that want a clean shutdown send "quit" over IPC first.
func (p *Process) Stop() error {
	p.mu.Lock()
	cmd := p.cmd
	p.mu.Unlock()

	if cmd == nil {
		return nil
	}

	select {
	case <-p.exited:
	case <-time.After(exitGrace):
		if err := killProcess(cmd); err != nil {
			log.Warnf("kill %s: %v", p.opts.Executable, err)
		}
		<-p.exited
	}

	return removeSocket(p.socket)
}
