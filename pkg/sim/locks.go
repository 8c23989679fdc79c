package sim

import "sync"

// accountLocks serializes pipeline runs per account id so two simulations for
// the same account cannot interleave their balance and goal read-then-writes.
// Entries are reference counted and removed once unused.
type accountLocks struct {
	mu      sync.Mutex
	entries map[string]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

func newAccountLocks() *accountLocks {
	return &accountLocks{entries: make(map[string]*lockEntry)}
}

// lock acquires the lock for the account and returns its release function.
func (l *accountLocks) lock(accountID string) func() {
	l.mu.Lock()
	entry, ok := l.entries[accountID]
	if !ok {
		entry = &lockEntry{}
		l.entries[accountID] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()

	return func() {
		entry.mu.Unlock()

		l.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(l.entries, accountID)
		}
		l.mu.Unlock()
	}
}
