// Package ipc is a client for mpv's JSON IPC protocol.
//
// A Session multiplexes one socket: commands are correlated to their responses by
// request_id, and everything else is routed to event listeners. Property observers
// and key bindings are layered on top of those two primitives.
package ipc

import (
	"context"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/anisan-cli/mpvipc/log"
	"github.com/anisan-cli/mpvipc/player"
	"github.com/anisan-cli/mpvipc/util"
)

// State is the lifecycle stage of a Session.
type State int32

const (
	StateDisconnected State = iota
	StateConnecting
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// quitTimeout bounds the polite quit sent to a launched player on Terminate.
const quitTimeout = 2 * time.Second

// Session is one connection to a player.
type Session struct {
	address string
	opts    options
	tag     string

	state     atomic.Int32
	transport *transport
	corr      *correlator
	router    *router
	queue     *callbackQueue
	observers *observerTable
	keys      *keyTable

	quitMu    sync.Mutex
	quitFns   []func()
	quitFired bool
	done      chan struct{}

	terminate sync.Once
	proc      *player.Process
}

// Connect dials address and returns a ready Session.
func Connect(ctx context.Context, address string, opts ...Option) (*Session, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	conn, err := Dial(ctx, address, o.dialTimeout)
	if err != nil {
		log.Errorf("connect %s: %v", address, err)
		return nil, err
	}
	return open(ctx, conn, address, o)
}

// NewSession wraps an established connection, such as one end of a net.Pipe.
func NewSession(ctx context.Context, conn net.Conn, opts ...Option) (*Session, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return open(ctx, conn, conn.RemoteAddr().String(), o)
}

func open(ctx context.Context, conn net.Conn, address string, o options) (*Session, error) {
	queue := newCallbackQueue()
	s := &Session{
		address:   address,
		opts:      o,
		tag:       util.RandomHex(3),
		corr:      newCorrelator(o.clock, o.timeout),
		router:    newRouter(queue),
		queue:     queue,
		observers: newObserverTable(),
		keys:      newKeyTable(),
		done:      make(chan struct{}),
	}
	s.setState(StateConnecting)

	s.router.on("property-change", ListenerFunc(s.handlePropertyChange))
	s.router.on("client-message", ListenerFunc(s.handleClientMessage))

	s.transport = newTransport(conn, s.handleFrame, s.handleDisconnect)
	s.transport.start()

	if o.logLevel != "" {
		s.router.on("log-message", ListenerFunc(forwardLogMessage))
		if _, err := s.Command(ctx, "request_log_messages", o.logLevel); err != nil {
			s.setState(StateFailed)
			s.transport.close()
			return nil, fmt.Errorf("request log messages: %w", err)
		}
	}

	s.setState(StateReady)
	log.Infof("connected to %s", address)
	return s, nil
}

func (s *Session) setState(st State) {
	s.state.Store(int32(st))
}

// State returns the current lifecycle stage.
func (s *Session) State() State {
	return State(s.state.Load())
}

// Address returns the socket or pipe the session is connected to.
func (s *Session) Address() string {
	return s.address
}

// Done is closed once the session has disconnected.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// handleFrame is called by the reader for every inbound line, in arrival order.
func (s *Session) handleFrame(f Frame) {
	if f.Err != nil {
		onErr := s.opts.onProtocolError
		s.queue.push(func() { onErr(f.Err) })
		return
	}

	if name, ok := f.Msg.Event(); ok {
		s.router.dispatch(name, f.Msg)
		return
	}
	if id, ok := f.Msg.RequestID(); ok {
		s.corr.resolve(id, f.Msg)
		return
	}
	log.Debugf("ignoring message without event or request_id: %s", f.Raw)
}

// handleDisconnect runs exactly once, when the transport goes away for any reason.
func (s *Session) handleDisconnect(cause error) {
	if s.State() != StateFailed {
		s.setState(StateDisconnected)
	}

	n := s.corr.failAll(ErrConnectionClosed)
	if cause != nil {
		log.Warnf("connection to %s lost: %v (%d pending requests failed)", s.address, cause, n)
	} else {
		log.Infof("connection to %s closed (%d pending requests failed)", s.address, n)
	}

	s.quitMu.Lock()
	fns := s.quitFns
	s.quitFns = nil
	s.quitFired = true
	s.quitMu.Unlock()

	for _, fn := range fns {
		s.queue.push(fn)
	}
	s.queue.stop()
	close(s.done)
}

// OnQuit registers fn to run once the session disconnects.
// Registering after the disconnect runs fn straight away on its own goroutine.
func (s *Session) OnQuit(fn func()) {
	s.quitMu.Lock()
	if !s.quitFired {
		s.quitFns = append(s.quitFns, fn)
		s.quitMu.Unlock()
		return
	}
	s.quitMu.Unlock()
	go fn()
}

// Command sends name with args and waits for the matching response.
// It fails with *CommandError when the player rejects the command, ErrTimeout when no
// response arrives in time, and ErrConnectionClosed when the session drops meanwhile.
func (s *Session) Command(ctx context.Context, name string, args ...any) (Value, error) {
	if !s.transport.connected() {
		return Value{}, ErrNotConnected
	}

	p, err := s.corr.register(name)
	if err != nil {
		return Value{}, err
	}

	req := request{
		Command:   append([]any{name}, args...),
		RequestID: p.id,
	}
	if err := s.transport.send(req); err != nil {
		s.corr.discard(p.id)
		return Value{}, err
	}

	select {
	case r := <-p.result:
		return r.Value, r.Err
	case <-ctx.Done():
		s.corr.discard(p.id)
		return Value{}, ctx.Err()
	}
}

// CommandAsync sends a command and delivers its Result on the returned channel.
func (s *Session) CommandAsync(ctx context.Context, name string, args ...any) <-chan Result {
	out := make(chan Result, 1)
	go func() {
		v, err := s.Command(ctx, name, args...)
		out <- Result{Value: v, Err: err}
	}()
	return out
}

// GetProperty reads a player property.
func (s *Session) GetProperty(ctx context.Context, name string) (Value, error) {
	return s.Command(ctx, "get_property", name)
}

// SetProperty writes a player property.
func (s *Session) SetProperty(ctx context.Context, name string, value any) error {
	_, err := s.Command(ctx, "set_property", name, value)
	return err
}

// GetPropertyAs reads a property and decodes it into T.
func GetPropertyAs[T any](ctx context.Context, s *Session, name string) (T, error) {
	var out T
	v, err := s.GetProperty(ctx, name)
	if err != nil {
		return out, err
	}
	if err := v.Decode(&out); err != nil {
		return out, fmt.Errorf("decode %s: %w", name, err)
	}
	return out, nil
}

// OnEvent registers l for events called name; AnyEvent matches every event.
// The returned function removes the listener and may be called any number of times.
func (s *Session) OnEvent(name string, l Listener) (unsubscribe func()) {
	return s.router.on(name, l)
}

// Terminate closes the session. A player launched by this session is asked to quit
// and then stopped. Pending commands fail with ErrConnectionClosed.
func (s *Session) Terminate() {
	s.terminate.Do(func() {
		if s.proc != nil && s.State() == StateReady {
			ctx, cancel := context.WithTimeout(context.Background(), quitTimeout)
			// the player may close the socket before answering
			_, _ = s.Command(ctx, "quit")
			cancel()
		}

		s.transport.close()
		<-s.done

		if s.proc != nil {
			if err := s.proc.Stop(); err != nil {
				log.Warnf("stop player: %v", err)
			}
		}
	})
}

func forwardLogMessage(ev Event) error {
	level, _ := ev.Get("level").AsString()
	prefix, _ := ev.Get("prefix").AsString()
	text, _ := ev.Get("text").AsString()
	log.Player(level, prefix, text)
	return nil
}
