//go:build !windows

package ipc

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"net"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/anisan-cli/mpvipc/player"
	. "github.com/smartystreets/goconvey/convey"
)

// fakePlayerEnv makes the test binary act as a player when it is re-executed by Launch.
const fakePlayerEnv = "MPVIPC_TEST_FAKE_PLAYER"

func TestMain(m *testing.M) {
	if os.Getenv(fakePlayerEnv) == "1" {
		os.Exit(runFakePlayer(os.Args[1:]))
	}
	os.Exit(m.Run())
}

// runFakePlayer serves the IPC socket named by --input-ipc-server until it is told to quit.
// The socket file is left behind on exit, the way a killed player leaves it.
func runFakePlayer(args []string) int {
	var socket string
	for _, arg := range args {
		if v, ok := strings.CutPrefix(arg, "--input-ipc-server="); ok {
			socket = v
		}
	}
	if socket == "" {
		return 2
	}

	l, err := net.Listen("unix", socket)
	if err != nil {
		return 2
	}
	l.(*net.UnixListener).SetUnlinkOnClose(false)

	for {
		conn, err := l.Accept()
		if err != nil {
			return 2
		}
		go serveFakePlayer(conn)
	}
}

func serveFakePlayer(conn net.Conn) {
	defer conn.Close()

	enc := json.NewEncoder(conn)
	reply := func(id int64, status string, data any) {
		_ = enc.Encode(map[string]any{"request_id": id, "error": status, "data": data})
	}

	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		var req struct {
			Command   []any `json:"command"`
			RequestID int64 `json:"request_id"`
		}
		if err := json.Unmarshal(scanner.Bytes(), &req); err != nil || len(req.Command) == 0 {
			continue
		}

		switch req.Command[0] {
		case "ping":
			reply(req.RequestID, "success", "pong")
		case "reject":
			reply(req.RequestID, "invalid parameter", nil)
		case "quit":
			reply(req.RequestID, "success", nil)
			os.Exit(0)
		case "crash":
			os.Exit(3)
		default:
			reply(req.RequestID, "success", nil)
		}
	}
}

// gone polls until path no longer exists.
func gone(path string) bool {
	deadline := time.Now().Add(testWait)
	for time.Now().Before(deadline) {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return true
		}
		time.Sleep(20 * time.Millisecond)
	}
	return false
}

func TestLaunch(t *testing.T) {
	executable, err := os.Executable()
	if err != nil {
		t.Skipf("test binary path: %v", err)
	}
	t.Setenv(fakePlayerEnv, "1")

	Convey("Given a launched player", t, func() {
		// unix socket paths are short, so stay out of t.TempDir
		dir, err := os.MkdirTemp("", "mpvipc")
		So(err, ShouldBeNil)
		Reset(func() { _ = os.RemoveAll(dir) })
		socket := filepath.Join(dir, "player.sock")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		Reset(cancel)

		s, err := Launch(ctx, player.Options{
			Executable:     executable,
			Socket:         socket,
			StartupTimeout: 5 * time.Second,
			PollInterval:   20 * time.Millisecond,
		})
		So(err, ShouldBeNil)
		Reset(s.Terminate)

		So(s.State(), ShouldEqual, StateReady)
		So(s.Address(), ShouldEqual, socket)

		var quits atomic.Int32
		quit := make(chan struct{}, 2)
		s.OnQuit(func() {
			quits.Add(1)
			quit <- struct{}{}
		})

		Convey("Commands round-trip through the socket", func() {
			v, err := s.Command(ctx, "ping")
			So(err, ShouldBeNil)
			So(v.Raw(), ShouldEqual, "pong")

			_, err = s.Command(ctx, "reject")
			So(IsCommandError(err), ShouldBeTrue)
			So(s.State(), ShouldEqual, StateReady)
		})

		Convey("Terminate quits the player and removes its socket", func() {
			s.Terminate()

			_, ok := receive(quit)
			So(ok, ShouldBeTrue)
			So(s.State(), ShouldEqual, StateDisconnected)

			_, ok = receive(s.proc.Exited())
			So(ok, ShouldBeTrue)

			_, err := os.Stat(socket)
			So(os.IsNotExist(err), ShouldBeTrue)

			s.Terminate()
			_, ok = receive(quit)
			So(ok, ShouldBeFalse)
			So(quits.Load(), ShouldEqual, 1)
		})

		Convey("A player that dies ends the session", func() {
			_, err := s.Command(ctx, "crash")
			So(errors.Is(err, ErrConnectionClosed), ShouldBeTrue)

			_, ok := receive(s.Done())
			So(ok, ShouldBeTrue)
			_, ok = receive(s.proc.Exited())
			So(ok, ShouldBeTrue)
			_, ok = receive(quit)
			So(ok, ShouldBeTrue)

			So(gone(socket), ShouldBeTrue)
			So(quits.Load(), ShouldEqual, 1)
		})
	})
}
