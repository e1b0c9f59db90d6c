// Package mailbox holds the per-player buffer of outbound directives.
//
// A mailbox is written by the game the player belongs to and drained by the
// player's long-poll (or websocket) reader. Both sides only hold the internal
// lock for a single push or swap.
package mailbox

import (
	"sync"

	"github.com/Thechi2000/were-legends/pkg/types"
)

type Mailbox struct {
	mu      sync.Mutex
	pending []types.Directive
	ready   chan struct{}
}

// New returns a mailbox seeded with a single Hi so the first poll after
// login is never empty.
func New() *Mailbox {
	m := &Mailbox{ready: make(chan struct{}, 1)}
	m.Push(types.Hi())
	return m
}

// Push appends d. It never fails and never waits on a reader.
func (m *Mailbox) Push(d types.Directive) {
	m.mu.Lock()
	m.pending = append(m.pending, d)
	m.mu.Unlock()

	select {
	case m.ready <- struct{}{}:
	default:
		// a wake-up is already pending
	}
}

// Drain returns everything pushed since the last drain, in push order, and
// leaves the mailbox empty. The result is nil when nothing was pending.
func (m *Mailbox) Drain() []types.Directive {
	m.mu.Lock()
	out := m.pending
	m.pending = nil
	m.mu.Unlock()
	return out
}

// Len reports the number of pending directives.
func (m *Mailbox) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pending)
}

// Ready fires after a push. A receive does not guarantee the mailbox is still
// non-empty: another reader may have drained it first.
func (m *Mailbox) Ready() <-chan struct{} { return m.ready }
