package ipc

import "sync"

// callbackQueue runs user callbacks one at a time, in submission order, on its own goroutine.
// The reader never waits on it, so a listener may block or issue commands of its own.
type callbackQueue struct {
	mu    sync.Mutex
	items []func()
	wake  chan struct{}
	done  chan struct{}
	once  sync.Once
}

func newCallbackQueue() *callbackQueue {
	q := &callbackQueue{
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
	go q.run()
	return q
}

func (q *callbackQueue) push(f func()) {
	q.mu.Lock()
	q.items = append(q.items, f)
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
}

// stop lets the queue drain what was already pushed and then exit.
func (q *callbackQueue) stop() {
	q.once.Do(func() { close(q.done) })
}

func (q *callbackQueue) run() {
	for {
		q.mu.Lock()
		if len(q.items) == 0 {
			q.mu.Unlock()
			select {
			case <-q.wake:
				continue
			case <-q.done:
				// a push may have raced with stop
				q.mu.Lock()
				empty := len(q.items) == 0
				q.mu.Unlock()
				if empty {
					return
				}
				continue
			}
		}

		f := q.items[0]
		q.items[0] = nil
		q.items = q.items[1:]
		q.mu.Unlock()

		f()
	}
}
