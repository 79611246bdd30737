package ipc

import (
	"reflect"
	"sync"

	"github.com/anisan-cli/mpvipc/log"
)

// AnyEvent registers a listener for every event regardless of its name.
const AnyEvent = "*"

// Event is an inbound message that is not a response to a command.
type Event struct {
	Name    string
	Message Message
}

// Get returns an event-specific field.
func (e Event) Get(field string) Value {
	return e.Message.Get(field)
}

// Listener receives events. A returned error is logged; it never reaches other listeners.
type Listener interface {
	HandleEvent(Event) error
}

// ListenerFunc adapts a plain function to Listener.
type ListenerFunc func(Event) error

func (f ListenerFunc) HandleEvent(e Event) error {
	return f(e)
}

type registration struct {
	listener Listener
}

// router fans events out to listeners by name, in registration order.
// Listener invocations are handed to the callback queue, so dispatch returns
// as soon as the listener set has been snapshotted.
type router struct {
	queue *callbackQueue

	mu        sync.Mutex
	listeners map[string][]*registration
}

func newRouter(queue *callbackQueue) *router {
	return &router{
		queue:     queue,
		listeners: make(map[string][]*registration),
	}
}

// on registers l for events called name and returns its unsubscribe function.
// Registering the same comparable listener twice for one name is a no-op that returns
// the original registration's unsubscribe.
func (r *router) on(name string, l Listener) (unsubscribe func()) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, reg := range r.listeners[name] {
		if sameListener(reg.listener, l) {
			return r.unsubscriber(name, reg)
		}
	}

	reg := &registration{listener: l}
	r.listeners[name] = append(r.listeners[name], reg)
	return r.unsubscriber(name, reg)
}

func (r *router) unsubscriber(name string, reg *registration) func() {
	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()

		regs := r.listeners[name]
		for i, candidate := range regs {
			if candidate != reg {
				continue
			}
			next := make([]*registration, 0, len(regs)-1)
			next = append(next, regs[:i]...)
			next = append(next, regs[i+1:]...)
			if len(next) == 0 {
				delete(r.listeners, name)
			} else {
				r.listeners[name] = next
			}
			return
		}
	}
}

// dispatch schedules every listener currently registered for name, then the wildcard listeners.
func (r *router) dispatch(name string, msg Message) {
	r.mu.Lock()
	regs := make([]*registration, 0, len(r.listeners[name])+len(r.listeners[AnyEvent]))
	regs = append(regs, r.listeners[name]...)
	if name != AnyEvent {
		regs = append(regs, r.listeners[AnyEvent]...)
	}
	r.mu.Unlock()

	if len(regs) == 0 {
		return
	}

	ev := Event{Name: name, Message: msg}
	for _, reg := range regs {
		l := reg.listener
		r.queue.push(func() { invoke(l, ev) })
	}
}

func (r *router) count(name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.listeners[name])
}

// invoke runs one listener, containing any panic it raises.
func invoke(l Listener, ev Event) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Errorf("listener for %q panicked: %v", ev.Name, rec)
		}
	}()

	if err := l.HandleEvent(ev); err != nil {
		log.Warnf("listener for %q failed: %v", ev.Name, err)
	}
}

// sameListener reports whether a and b are equal comparable listeners.
// Comparability is checked on the dynamic values: a struct type may be comparable
// while an interface field inside it holds a func, and == would panic on that.
func sameListener(a, b Listener) bool {
	if a == nil || b == nil {
		return false
	}
	if reflect.TypeOf(a) != reflect.TypeOf(b) {
		return false
	}
	if !reflect.ValueOf(a).Comparable() || !reflect.ValueOf(b).Comparable() {
		return false
	}
	return a == b
}
