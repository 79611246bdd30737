package ipc

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/anisan-cli/mpvipc/log"
)

// DefaultTimeout bounds how long a single command waits for its response.
const DefaultTimeout = 120 * time.Second

// Result is the outcome of one command.
type Result struct {
	Value Value
	Err   error
}

// pendingRequest is an in-flight command. Its result channel receives exactly one Result.
type pendingRequest struct {
	id      int64
	command string
	result  chan Result
	timer   Timer
}

// correlator matches responses to the commands that caused them.
type correlator struct {
	nextID  atomic.Int64
	clock   Clock
	timeout time.Duration

	mu      sync.Mutex
	pending map[int64]*pendingRequest
	closed  bool
}

func newCorrelator(clock Clock, timeout time.Duration) *correlator {
	return &correlator{
		clock:   clock,
		timeout: timeout,
		pending: make(map[int64]*pendingRequest),
	}
}

// register allocates the next request id and arms its deadline.
func (c *correlator) register(command string) (*pendingRequest, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, ErrNotConnected
	}

	p := &pendingRequest{
		id:      c.nextID.Add(1),
		command: command,
		result:  make(chan Result, 1),
	}
	c.pending[p.id] = p

	id := p.id
	if c.timeout > 0 {
		p.timer = c.clock.AfterFunc(c.timeout, func() {
			if c.fail(id, ErrTimeout) {
				log.Warnf("%s (request %d) timed out after %s", command, id, c.timeout)
			}
		})
	}
	return p, nil
}

// take removes and returns the pending request for id, if it is still outstanding.
func (c *correlator) take(id int64) *pendingRequest {
	c.mu.Lock()
	p, ok := c.pending[id]
	if ok {
		delete(c.pending, id)
	}
	c.mu.Unlock()

	if !ok {
		return nil
	}
	if p.timer != nil {
		p.timer.Stop()
	}
	return p
}

// resolve settles the request a response belongs to. Responses for unknown ids are dropped.
func (c *correlator) resolve(id int64, msg Message) {
	p := c.take(id)
	if p == nil {
		log.Debugf("dropping response for unknown request %d", id)
		return
	}

	if status := msg.Status(); status != "success" {
		p.result <- Result{Err: &CommandError{Command: p.command, Message: status}}
		return
	}
	p.result <- Result{Value: msg.Data()}
}

// fail settles one request with err. It reports whether the request was still pending.
func (c *correlator) fail(id int64, err error) bool {
	p := c.take(id)
	if p == nil {
		return false
	}
	p.result <- Result{Err: err}
	return true
}

// discard forgets a request whose caller stopped waiting.
func (c *correlator) discard(id int64) {
	_ = c.take(id)
}

// failAll settles every outstanding request with err and refuses new ones.
func (c *correlator) failAll(err error) int {
	c.mu.Lock()
	c.closed = true
	pending := c.pending
	c.pending = make(map[int64]*pendingRequest)
	c.mu.Unlock()

	for _, p := range pending {
		if p.timer != nil {
			p.timer.Stop()
		}
		p.result <- Result{Err: err}
	}
	return len(pending)
}

func (c *correlator) outstanding() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}
