package ipc

import (
	"errors"
	"sync"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

type recordingListener struct {
	mu    sync.Mutex
	calls int
}

func (l *recordingListener) HandleEvent(Event) error {
	l.mu.Lock()
	l.calls++
	l.mu.Unlock()
	return nil
}

func (l *recordingListener) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.calls
}

// taggedListener is comparable by type, but its hook may hold a func.
type taggedListener struct {
	tag  string
	hook any
}

func (l taggedListener) HandleEvent(Event) error {
	if f, ok := l.hook.(func()); ok {
		f()
	}
	return nil
}

func TestRouter(t *testing.T) {
	Convey("Given a router", t, func() {
		queue := newCallbackQueue()
		r := newRouter(queue)
		Reset(queue.stop)

		var mu sync.Mutex
		var order []string
		record := func(tag string) ListenerFunc {
			return func(Event) error {
				mu.Lock()
				order = append(order, tag)
				mu.Unlock()
				return nil
			}
		}
		drain := func() []string {
			done := make(chan struct{})
			queue.push(func() { close(done) })
			_, ok := receive(done)
			So(ok, ShouldBeTrue)
			mu.Lock()
			defer mu.Unlock()
			return append([]string(nil), order...)
		}

		Convey("Listeners run in registration order with the full message", func() {
			var got Event
			r.on("seek", record("first"))
			r.on("seek", record("second"))
			r.on("seek", ListenerFunc(func(e Event) error {
				got = e
				return nil
			}))

			r.dispatch("seek", Message{"event": "seek", "extra": 1.0})
			So(drain(), ShouldResemble, []string{"first", "second"})
			So(got.Name, ShouldEqual, "seek")
			So(got.Message["extra"], ShouldEqual, 1.0)
		})

		Convey("Dispatch without listeners is a no-op", func() {
			r.dispatch("idle", Message{"event": "idle"})
			So(drain(), ShouldBeEmpty)
		})

		Convey("Unsubscribe removes exactly that listener and is idempotent", func() {
			r.on("pause", record("keep"))
			off := r.on("pause", record("drop"))

			off()
			off()
			So(r.count("pause"), ShouldEqual, 1)

			r.dispatch("pause", Message{"event": "pause"})
			So(drain(), ShouldResemble, []string{"keep"})
		})

		Convey("Registering the same comparable listener twice is a no-op", func() {
			l := &recordingListener{}
			off1 := r.on("end-file", l)
			off2 := r.on("end-file", l)
			So(r.count("end-file"), ShouldEqual, 1)

			r.dispatch("end-file", Message{"event": "end-file"})
			drain()
			So(l.count(), ShouldEqual, 1)

			off2()
			So(r.count("end-file"), ShouldEqual, 0)
			off1()
		})

		Convey("A struct listener holding a func is registered twice without panicking", func() {
			var calls int
			hook := func() { calls++ }
			l := taggedListener{tag: "hooked", hook: hook}

			So(func() {
				r.on("pause", l)
				r.on("pause", l)
			}, ShouldNotPanic)
			So(r.count("pause"), ShouldEqual, 2)

			r.dispatch("pause", Message{"event": "pause"})
			drain()
			So(calls, ShouldEqual, 2)
		})

		Convey("Equal struct listeners with comparable fields are deduplicated", func() {
			r.on("pause", taggedListener{tag: "plain", hook: 1})
			r.on("pause", taggedListener{tag: "plain", hook: 1})
			So(r.count("pause"), ShouldEqual, 1)
		})

		Convey("Function listeners are always distinct registrations", func() {
			f := record("f")
			r.on("idle", f)
			r.on("idle", f)
			So(r.count("idle"), ShouldEqual, 2)
		})

		Convey("A failing or panicking listener does not stop the others", func() {
			r.on("shutdown", ListenerFunc(func(Event) error { panic("boom") }))
			r.on("shutdown", ListenerFunc(func(Event) error { return errors.New("nope") }))
			r.on("shutdown", record("survivor"))

			r.dispatch("shutdown", Message{"event": "shutdown"})
			So(drain(), ShouldResemble, []string{"survivor"})
		})

		Convey("Wildcard listeners see every event after the named ones", func() {
			r.on(AnyEvent, record("any"))
			r.on("file-loaded", record("named"))

			r.dispatch("file-loaded", Message{"event": "file-loaded"})
			r.dispatch("idle", Message{"event": "idle"})
			So(drain(), ShouldResemble, []string{"named", "any", "any"})
		})
	})
}

func TestCallbackQueue(t *testing.T) {
	Convey("A stopped queue still runs what was pushed before stop", t, func() {
		q := newCallbackQueue()
		ran := make(chan int, 3)
		block := make(chan struct{})
		q.push(func() { <-block; ran <- 1 })
		q.push(func() { ran <- 2 })
		q.stop()
		q.stop()
		close(block)

		first, ok := receive(ran)
		So(ok, ShouldBeTrue)
		So(first, ShouldEqual, 1)
		second, ok := receive(ran)
		So(ok, ShouldBeTrue)
		So(second, ShouldEqual, 2)
	})
}
