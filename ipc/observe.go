package ipc

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/anisan-cli/mpvipc/log"
	"github.com/spf13/cast"
)

// PropertyCallback receives the new value of an observed property.
type PropertyCallback func(name string, value Value)

// observerTable maps locally assigned observer ids to callbacks.
// The ids live in their own namespace, separate from request ids.
type observerTable struct {
	nextID atomic.Int64

	mu   sync.Mutex
	byID map[int64]PropertyCallback
}

func newObserverTable() *observerTable {
	return &observerTable{byID: make(map[int64]PropertyCallback)}
}

func (t *observerTable) add(cb PropertyCallback) int64 {
	id := t.nextID.Add(1)
	t.mu.Lock()
	t.byID[id] = cb
	t.mu.Unlock()
	return id
}

func (t *observerTable) get(id int64) (PropertyCallback, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	cb, ok := t.byID[id]
	return cb, ok
}

func (t *observerTable) remove(id int64) {
	t.mu.Lock()
	delete(t.byID, id)
	t.mu.Unlock()
}

func (t *observerTable) len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.byID)
}

// ObserveProperty asks the player to report changes of name and calls cb with every
// notification. The callback is registered before the command is sent so the initial
// notification is never missed; it is dropped again if the player refuses.
func (s *Session) ObserveProperty(ctx context.Context, name string, cb PropertyCallback) (int64, error) {
	id := s.observers.add(cb)
	if _, err := s.Command(ctx, "observe_property", id, name); err != nil {
		s.observers.remove(id)
		return 0, fmt.Errorf("observe %s: %w", name, err)
	}
	return id, nil
}

// UnobserveProperty stops the observer with the given id.
//
// The local callback is removed once the command has completed, whatever its outcome,
// and removal is not retried; a failed unobserve_property may leave the player sending
// notifications that are then ignored.
func (s *Session) UnobserveProperty(ctx context.Context, id int64) error {
	_, err := s.Command(ctx, "unobserve_property", id)
	s.observers.remove(id)
	if err != nil {
		return fmt.Errorf("unobserve %d: %w", id, err)
	}
	return nil
}

// WaitForProperty blocks until the second change notification for name and returns its value.
// The first notification mirrors the value at subscription time and is skipped.
// The observer is removed before WaitForProperty returns.
func (s *Session) WaitForProperty(ctx context.Context, name string) (Value, error) {
	var seen atomic.Int32
	changed := make(chan Value, 1)

	id, err := s.ObserveProperty(ctx, name, func(_ string, v Value) {
		if seen.Add(1) == 2 {
			changed <- v
		}
	})
	if err != nil {
		return Value{}, err
	}

	select {
	case v := <-changed:
		if err := s.UnobserveProperty(ctx, id); err != nil {
			log.Warnf("wait for %s: %v", name, err)
		}
		return v, nil
	case <-ctx.Done():
		s.observers.remove(id)
		go func() {
			// the caller's context is gone; let the player forget the observer too
			_, _ = s.Command(context.Background(), "unobserve_property", id)
		}()
		return Value{}, ctx.Err()
	case <-s.done:
		return Value{}, ErrConnectionClosed
	}
}

// handlePropertyChange demultiplexes property-change events by observer id.
func (s *Session) handlePropertyChange(ev Event) error {
	raw, ok := ev.Message["id"]
	if !ok {
		return nil
	}
	id, err := cast.ToInt64E(raw)
	if err != nil {
		return fmt.Errorf("property-change with bad id %v: %w", raw, err)
	}

	cb, ok := s.observers.get(id)
	if !ok {
		return nil
	}
	name, _ := ev.Get("name").AsString()
	cb(name, ev.Get("data"))
	return nil
}
