package ipc

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"sync"
	"time"
)

const testWait = 2 * time.Second

// manualClock fires timers only when advanced.
type manualClock struct {
	mu     sync.Mutex
	now    time.Duration
	timers []*manualTimer
}

type manualTimer struct {
	clock   *manualClock
	at      time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (c *manualClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &manualTimer{clock: c, at: c.now + d, f: f}
	c.timers = append(c.timers, t)
	return t
}

func (t *manualTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	active := !t.stopped && !t.fired
	t.stopped = true
	return active
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now += d
	var due []func()
	for _, t := range c.timers {
		if !t.stopped && !t.fired && t.at <= c.now {
			t.fired = true
			due = append(due, t.f)
		}
	}
	c.mu.Unlock()

	for _, f := range due {
		f()
	}
}

// fakePlayer is the server end of a net.Pipe, speaking the wire protocol by hand.
type fakePlayer struct {
	conn   net.Conn
	reader *bufio.Reader
}

func (p *fakePlayer) nextLine() (string, error) {
	if err := p.conn.SetReadDeadline(time.Now().Add(testWait)); err != nil {
		return "", err
	}
	line, err := p.reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return line, nil
}

// next reads one request and returns its id and command array.
func (p *fakePlayer) next() (int64, []any, error) {
	line, err := p.nextLine()
	if err != nil {
		return 0, nil, err
	}
	var req struct {
		Command   []any `json:"command"`
		RequestID int64 `json:"request_id"`
	}
	if err := json.Unmarshal([]byte(line), &req); err != nil {
		return 0, nil, err
	}
	return req.RequestID, req.Command, nil
}

func (p *fakePlayer) write(v any) error {
	data, err := Encode(v)
	if err != nil {
		return err
	}
	_ = p.conn.SetWriteDeadline(time.Now().Add(testWait))
	_, err = p.conn.Write(data)
	return err
}

func (p *fakePlayer) writeRaw(line string) error {
	_ = p.conn.SetWriteDeadline(time.Now().Add(testWait))
	_, err := p.conn.Write([]byte(line))
	return err
}

func (p *fakePlayer) reply(id int64, status string, data any) error {
	msg := map[string]any{"request_id": id, "error": status}
	if data != nil {
		msg["data"] = data
	}
	return p.write(msg)
}

func (p *fakePlayer) succeed(id int64, data any) error {
	return p.reply(id, "success", data)
}

// expect reads the next request and checks its command name.
func (p *fakePlayer) expect(name string) (int64, []any, error) {
	id, cmd, err := p.next()
	if err != nil {
		return 0, nil, err
	}
	if len(cmd) == 0 || cmd[0] != name {
		return 0, nil, fmt.Errorf("expected %s, got %v", name, cmd)
	}
	return id, cmd, nil
}

// serve answers the next request named name with data.
func (p *fakePlayer) serve(name string, data any) ([]any, error) {
	id, cmd, err := p.expect(name)
	if err != nil {
		return nil, err
	}
	return cmd, p.succeed(id, data)
}

func (p *fakePlayer) event(name string, fields map[string]any) error {
	msg := map[string]any{"event": name}
	for k, v := range fields {
		msg[k] = v
	}
	return p.write(msg)
}

// newTestSession connects a Session to a fakePlayer over an in-memory pipe.
func newTestSession(opts ...Option) (*Session, *fakePlayer, *manualClock, error) {
	client, server := net.Pipe()
	clock := &manualClock{}
	opts = append([]Option{WithClock(clock)}, opts...)

	s, err := NewSession(context.Background(), client, opts...)
	if err != nil {
		return nil, nil, nil, err
	}
	return s, &fakePlayer{conn: server, reader: bufio.NewReader(server)}, clock, nil
}

// receive waits for a value on ch, failing after testWait.
func receive[T any](ch <-chan T) (T, bool) {
	select {
	case v := <-ch:
		return v, true
	case <-time.After(testWait):
		var zero T
		return zero, false
	}
}

// flush returns once every event the player sent before it has been delivered to listeners.
// The marker travels the same path as real events, so ordering does the rest.
func flush(s *Session, p *fakePlayer) bool {
	done := make(chan struct{})
	var once sync.Once
	unsubscribe := s.OnEvent("test-flush", ListenerFunc(func(Event) error {
		once.Do(func() { close(done) })
		return nil
	}))
	defer unsubscribe()

	if err := p.event("test-flush", nil); err != nil {
		return false
	}
	_, ok := receive(done)
	return ok
}
