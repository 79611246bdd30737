package ipc

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/anisan-cli/mpvipc/log"
)

const readBufSize = 4096

// Dial connects to the player's IPC endpoint: a Unix domain socket, or a named pipe on Windows.
func Dial(ctx context.Context, address string, timeout time.Duration) (net.Conn, error) {
	conn, err := dial(ctx, address, timeout)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrConnection, address, err)
	}
	return conn, nil
}

// transport owns one connected channel. Writes are serialized; reads happen on a single
// goroutine that hands complete frames to onFrame in arrival order.
type transport struct {
	conn   net.Conn
	framer Framer

	writeMu sync.Mutex
	closed  atomic.Bool
	once    sync.Once

	onFrame func(Frame)
	onClose func(error)
}

func newTransport(conn net.Conn, onFrame func(Frame), onClose func(error)) *transport {
	return &transport{
		conn:    conn,
		onFrame: onFrame,
		onClose: onClose,
	}
}

func (t *transport) start() {
	go t.readLoop()
}

// send writes one message followed by a newline.
func (t *transport) send(msg any) error {
	data, err := Encode(msg)
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}

	t.writeMu.Lock()
	defer t.writeMu.Unlock()

	if t.closed.Load() {
		return ErrNotConnected
	}
	if _, err := t.conn.Write(data); err != nil {
		return fmt.Errorf("%w: write: %w", ErrConnectionClosed, err)
	}
	log.Tracef("send %s", bytes.TrimSuffix(data, []byte{'\n'}))
	return nil
}

func (t *transport) connected() bool {
	return !t.closed.Load()
}

func (t *transport) close() {
	t.shutdown(nil)
}

// shutdown tears the channel down and reports the cause exactly once.
func (t *transport) shutdown(cause error) {
	t.once.Do(func() {
		t.closed.Store(true)
		// closing first unblocks a writer stuck on a full pipe
		_ = t.conn.Close()
		if t.onClose != nil {
			t.onClose(cause)
		}
	})
}

func (t *transport) readLoop() {
	buf := make([]byte, readBufSize)
	for {
		n, err := t.conn.Read(buf)
		if n > 0 {
			for _, frame := range t.framer.Feed(buf[:n]) {
				log.Tracef("recv %s", frame.Raw)
				t.onFrame(frame)
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) || errors.Is(err, io.ErrClosedPipe) {
				err = nil
			}
			t.shutdown(err)
			return
		}
	}
}
