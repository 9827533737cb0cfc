package bot

import (
	"sync"
	"time"

	"github.com/latoulicious/Reaxn/pkg/reaction"
)

type lockEntry struct {
	mu       sync.Mutex
	refs     int
	lastUsed time.Time

	// Guarded by mu.
	state     reaction.State
	published bool
}

// Locks serializes toggles on the same message within this process and
// remembers the last state each message was edited to.
//
// A press carries the message as the host saw it when the press happened,
// which is stale once an earlier press has been applied. Holders therefore
// read the remembered state first and fall back to the snapshot only for
// messages this process has not edited since the entry was created.
type Locks struct {
	mu      sync.Mutex
	entries map[string]*lockEntry
	now     func() time.Time
}

// Held is an acquired message lock.
type Held struct {
	l *Locks
	e *lockEntry
}

// NewLocks creates an empty lock table.
func NewLocks() *Locks {
	return &Locks{
		entries: make(map[string]*lockEntry),
		now:     time.Now,
	}
}

// Lock blocks until key is free.
func (l *Locks) Lock(key string) *Held {
	l.mu.Lock()
	e, ok := l.entries[key]
	if !ok {
		e = &lockEntry{}
		l.entries[key] = e
	}
	e.refs++
	l.mu.Unlock()

	e.mu.Lock()
	return &Held{l: l, e: e}
}

// State returns the state last published under this lock, if any.
func (h *Held) State() (reaction.State, bool) {
	if !h.e.published {
		return nil, false
	}
	return h.e.state.Clone(), true
}

// Publish records s as the message's current state.
func (h *Held) Publish(s reaction.State) {
	h.e.state = s.Clone()
	h.e.published = true
}

// Forget drops the remembered state, so the next holder reads the snapshot.
func (h *Held) Forget() {
	h.e.state = nil
	h.e.published = false
}

// Unlock releases the lock.
func (h *Held) Unlock() {
	h.e.mu.Unlock()

	h.l.mu.Lock()
	h.e.refs--
	h.e.lastUsed = h.l.now()
	h.l.mu.Unlock()
}

// Sweep drops entries unused for longer than idle and returns how many
// were removed. Entries that are held or awaited are kept.
func (l *Locks) Sweep(idle time.Duration) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-idle)
	removed := 0
	for key, e := range l.entries {
		if e.refs == 0 && e.lastUsed.Before(cutoff) {
			delete(l.entries, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of tracked messages.
func (l *Locks) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
