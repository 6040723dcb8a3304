// Package client provides a Go client for the rifsredis key/value server.
package client

import (
	"sync"

	"github.com/yndnr/rifsredis/internal/protocol"
)

// waiter is one pending request awaiting its response.
type waiter struct {
	action protocol.Action
	ch     chan *protocol.Response
}

// demux routes responses to pending waiters by correlation id.
// Each waiter is resolved at most once and removed by its owner.
type demux struct {
	mu      sync.Mutex
	waiters map[string]*waiter
	done    chan struct{}
	closed  bool
}

func newDemux() *demux {
	return &demux{
		waiters: make(map[string]*waiter),
		done:    make(chan struct{}),
	}
}

func (d *demux) register(id string, action protocol.Action) (*waiter, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil, ErrClosed
	}
	w := &waiter{action: action, ch: make(chan *protocol.Response, 1)}
	d.waiters[id] = w
	return w, nil
}

func (d *demux) remove(id string) {
	d.mu.Lock()
	delete(d.waiters, id)
	d.mu.Unlock()
}

// resolve hands resp to the waiter registered under its correlation id
// if the action matches too. It reports whether a waiter took it.
func (d *demux) resolve(resp *protocol.Response) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	w, ok := d.waiters[resp.CorrelationID]
	if !ok || w.action != resp.Action {
		return false
	}
	delete(d.waiters, resp.CorrelationID)
	w.ch <- resp
	return true
}

// pending returns the number of outstanding waiters.
func (d *demux) pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.waiters)
}

// close fails every current and future waiter.
func (d *demux) close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	d.closed = true
	d.waiters = make(map[string]*waiter)
	close(d.done)
}
