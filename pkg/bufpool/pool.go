// Package bufpool provides fixed-count byte slot arenas with explicit ownership, and the
// buffer exchange that codec adapters build the ports.Codec protocol on.
package bufpool

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

var (
	// ErrTimeout is returned when no slot frees up within the wait.
	ErrTimeout = errors.New("bufpool: timed out waiting for a free slot")

	// ErrClosed is returned after Close.
	ErrClosed = errors.New("bufpool: closed")

	// ErrInvalidSlot is returned for an index outside the pool.
	ErrInvalidSlot = errors.New("bufpool: invalid slot")

	// ErrNotOwned is returned when a slot is in the wrong state for the operation,
	// e.g. released twice.
	ErrNotOwned = errors.New("bufpool: slot not owned")
)

// State is the ownership state of a slot.
type State int

const (
	// Free slots wait in the pool.
	Free State = iota
	// Acquired slots belong to whoever called Acquire.
	Acquired
	// Handed slots were passed on by their acquirer and wait for the receiver to Take them.
	Handed
	// Dequeued slots belong to the receiver until it releases them.
	Dequeued
)

func (s State) String() string {
	switch s {
	case Free:
		return "free"
	case Acquired:
		return "acquired"
	case Handed:
		return "handed"
	case Dequeued:
		return "dequeued"
	default:
		return "unknown"
	}
}

// Pool is an arena of byte slots referenced by index.
//
// A slot has exactly one owner at a time: the acquirer until Hand, nobody while it is in
// transit, then the receiver from Take until Release. Acquire never blocks longer than its
// timeout.
type Pool struct {
	mu     sync.Mutex
	bufs   [][]byte
	states []State

	free      chan int
	done      chan struct{}
	closeOnce sync.Once
}

// NewPool creates a pool of count slots, each size bytes long.
func NewPool(count, size int) *Pool {
	p := &Pool{
		bufs:   make([][]byte, count),
		states: make([]State, count),
		free:   make(chan int, count),
		done:   make(chan struct{}),
	}
	for i := 0; i < count; i++ {
		p.bufs[i] = make([]byte, size)
		p.free <- i
	}
	return p
}

// Len returns the number of slots.
func (p *Pool) Len() int {
	return len(p.states)
}

// Buffers returns a snapshot of the slot buffers. Slots regrown later are not reflected.
func (p *Pool) Buffers() [][]byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([][]byte, len(p.bufs))
	copy(out, p.bufs)
	return out
}

// Buffer returns the current buffer of slot i.
func (p *Pool) Buffer(i int) ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if i < 0 || i >= len(p.bufs) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSlot, i)
	}
	return p.bufs[i], nil
}

// State returns the ownership state of slot i.
func (p *Pool) State(i int) State {
	p.mu.Lock()
	defer p.mu.Unlock()
	if i < 0 || i >= len(p.states) {
		return Free
	}
	return p.states[i]
}

// Acquire takes a free slot. A zero timeout polls, a negative timeout waits until a slot
// frees up or the pool is closed.
func (p *Pool) Acquire(timeout time.Duration) (int, error) {
	if p.closed() {
		return -1, ErrClosed
	}

	var idx int
	switch {
	case timeout == 0:
		select {
		case idx = <-p.free:
		case <-p.done:
			return -1, ErrClosed
		default:
			return -1, ErrTimeout
		}
	case timeout < 0:
		select {
		case idx = <-p.free:
		case <-p.done:
			return -1, ErrClosed
		}
	default:
		t := time.NewTimer(timeout)
		defer t.Stop()
		select {
		case idx = <-p.free:
		case <-p.done:
			return -1, ErrClosed
		case <-t.C:
			return -1, ErrTimeout
		}
	}

	p.mu.Lock()
	p.states[idx] = Acquired
	p.mu.Unlock()
	return idx, nil
}

// AcquireContext waits for a free slot until ctx is done or the pool is closed.
func (p *Pool) AcquireContext(ctx context.Context) (int, error) {
	if p.closed() {
		return -1, ErrClosed
	}

	var idx int
	select {
	case idx = <-p.free:
	case <-p.done:
		return -1, ErrClosed
	case <-ctx.Done():
		return -1, ctx.Err()
	}

	p.mu.Lock()
	p.states[idx] = Acquired
	p.mu.Unlock()
	return idx, nil
}

// Hand marks an acquired slot as passed on. It fails unless the slot is Acquired.
func (p *Pool) Hand(i int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if i < 0 || i >= len(p.states) {
		return fmt.Errorf("%w: %d", ErrInvalidSlot, i)
	}
	if p.states[i] != Acquired {
		return fmt.Errorf("%w: slot %d is %s", ErrNotOwned, i, p.states[i])
	}
	p.states[i] = Handed
	return nil
}

// Take moves a handed slot to its receiver. It fails unless the slot is Handed.
func (p *Pool) Take(i int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if i < 0 || i >= len(p.states) {
		return fmt.Errorf("%w: %d", ErrInvalidSlot, i)
	}
	if p.states[i] != Handed {
		return fmt.Errorf("%w: slot %d is %s", ErrNotOwned, i, p.states[i])
	}
	p.states[i] = Dequeued
	return nil
}

// Release returns an Acquired or Dequeued slot to the pool. A slot still in transit
// cannot be released.
func (p *Pool) Release(i int) error {
	return p.release(i, Acquired, Dequeued)
}

// ReleaseTaken returns slot i to the pool only if it was taken with Take.
func (p *Pool) ReleaseTaken(i int) error {
	return p.release(i, Dequeued)
}

func (p *Pool) release(i int, allowed ...State) error {
	p.mu.Lock()
	if i < 0 || i >= len(p.states) {
		p.mu.Unlock()
		return fmt.Errorf("%w: %d", ErrInvalidSlot, i)
	}
	state := p.states[i]
	ok := false
	for _, a := range allowed {
		if state == a {
			ok = true
			break
		}
	}
	if !ok {
		p.mu.Unlock()
		return fmt.Errorf("%w: slot %d is %s", ErrNotOwned, i, state)
	}
	p.states[i] = Free
	p.mu.Unlock()

	// Never blocks: the channel holds every slot.
	p.free <- i
	return nil
}

// Grow replaces the buffer of an owned slot with one of at least size bytes.
// It reports whether the buffer changed.
func (p *Pool) Grow(i, size int) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if i < 0 || i >= len(p.bufs) {
		return false, fmt.Errorf("%w: %d", ErrInvalidSlot, i)
	}
	if p.states[i] == Free {
		return false, fmt.Errorf("%w: slot %d is free", ErrNotOwned, i)
	}
	if len(p.bufs[i]) >= size {
		return false, nil
	}
	p.bufs[i] = make([]byte, size)
	return true, nil
}

// Close wakes all waiters; later Acquire calls fail with ErrClosed.
func (p *Pool) Close() {
	p.closeOnce.Do(func() {
		close(p.done)
	})
}

func (p *Pool) closed() bool {
	select {
	case <-p.done:
		return true
	default:
		return false
	}
}
