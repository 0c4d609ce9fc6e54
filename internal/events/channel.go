package events

import (
	"sync"
	"sync/atomic"
	"time"
)

// Channel is an unbounded event queue: Emit never blocks the producer,
// and Events() drains in FIFO order. Internally a growable slice feeds
// a small output channel via a pump goroutine, the standard pattern for
// an unbounded Go channel.
type Channel struct {
	sequence atomic.Uint64

	mu      sync.Mutex
	cond    *sync.Cond
	buffer  []Event
	closed  bool
	out     chan Event
	started bool
}

// NewChannel creates a ready-to-use event Channel.
func NewChannel() *Channel {
	c := &Channel{out: make(chan Event, 64)}
	c.cond = sync.NewCond(&c.mu)
	go c.pump()
	return c
}

// Emit enqueues an event, assigning it a sequence ID and timestamp if
// unset. Safe to call from any goroutine; never blocks.
func (c *Channel) Emit(e Event) {
	e.ID = c.sequence.Add(1)
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.buffer = append(c.buffer, e)
	c.cond.Signal()
	c.mu.Unlock()
}

// Events returns the receive side consumers read from.
func (c *Channel) Events() <-chan Event {
	return c.out
}

// Close stops accepting new events and drains what remains before
// closing the output channel.
func (c *Channel) Close() {
	c.mu.Lock()
	c.closed = true
	c.cond.Signal()
	c.mu.Unlock()
}

func (c *Channel) pump() {
	for {
		c.mu.Lock()
		for len(c.buffer) == 0 && !c.closed {
			c.cond.Wait()
		}
		if len(c.buffer) == 0 && c.closed {
			c.mu.Unlock()
			close(c.out)
			return
		}
		batch := c.buffer
		c.buffer = nil
		c.mu.Unlock()

		for _, e := range batch {
			c.out <- e
		}
	}
}
