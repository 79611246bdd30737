package ipc

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestOnKey(t *testing.T) {
	Convey("Given a session binding the space key", t, func() {
		s, player, _, err := newTestSession()
		So(err, ShouldBeNil)
		Reset(func() {
			s.Terminate()
			_ = player.conn.Close()
		})

		var presses atomic.Int32
		type res struct {
			name string
			err  error
		}
		got := make(chan res, 1)
		go func() {
			name, err := s.OnKey(context.Background(), "SPACE", func() { presses.Add(1) })
			got <- res{name, err}
		}()

		id, cmd, err := player.expect("keybind")
		So(err, ShouldBeNil)
		So(cmd[1], ShouldEqual, "SPACE")
		target, _ := cmd[2].(string)
		So(target, ShouldStartWith, "script-message custom-bind mpvipc-")
		binding := strings.TrimPrefix(target, "script-message custom-bind ")

		press := func(args ...any) {
			So(player.event("client-message", map[string]any{"args": args}), ShouldBeNil)
			So(flush(s, player), ShouldBeTrue)
		}

		Convey("When keybind is accepted", func() {
			So(player.succeed(id, nil), ShouldBeNil)
			r, ok := receive(got)
			So(ok, ShouldBeTrue)
			So(r.err, ShouldBeNil)
			So(r.name, ShouldEqual, binding)

			Convey("a matching client-message fires the callback", func() {
				press("custom-bind", binding)
				press("custom-bind", binding)
				So(presses.Load(), ShouldEqual, 2)
			})

			Convey("other client messages are ignored", func() {
				press("custom-bind", "someone-else")
				press("custom-bind", binding, "extra")
				press("other", binding)
				press()
				So(presses.Load(), ShouldEqual, 0)
			})
		})

		Convey("When keybind is rejected, an input section is used instead", func() {
			So(player.reply(id, "invalid command", nil), ShouldBeNil)

			define, err := player.serve("define-section", nil)
			So(err, ShouldBeNil)
			So(define[1], ShouldEqual, binding)
			So(define[2], ShouldEqual, "SPACE script-message custom-bind "+binding)
			So(define[3], ShouldEqual, "force")

			enable, err := player.serve("enable-section", nil)
			So(err, ShouldBeNil)
			So(enable[1], ShouldEqual, binding)

			r, ok := receive(got)
			So(ok, ShouldBeTrue)
			So(r.err, ShouldBeNil)

			press("custom-bind", binding)
			So(presses.Load(), ShouldEqual, 1)
		})

		Convey("When the fallback fails too, the binding is dropped", func() {
			So(player.reply(id, "invalid command", nil), ShouldBeNil)
			defineID, _, err := player.expect("define-section")
			So(err, ShouldBeNil)
			So(player.reply(defineID, "invalid parameter", nil), ShouldBeNil)

			r, ok := receive(got)
			So(ok, ShouldBeTrue)
			So(IsCommandError(r.err), ShouldBeTrue)

			press("custom-bind", binding)
			So(presses.Load(), ShouldEqual, 0)
		})

		Convey("A dropped connection does not trigger the fallback", func() {
			So(player.conn.Close(), ShouldBeNil)
			r, ok := receive(got)
			So(ok, ShouldBeTrue)
			So(errors.Is(r.err, ErrConnectionClosed), ShouldBeTrue)
			So(IsCommandError(r.err), ShouldBeFalse)
		})
	})
}
