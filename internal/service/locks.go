package service

import "sync"

// slotLocks serializes lifecycle operations per slot within this process.
// Holding the lock across transaction commit and publish guarantees that
// broadcasts for one slot leave in commit order; the slot row lock inside
// the transaction protects against writers in other processes.
type slotLocks struct {
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func newSlotLocks() *slotLocks {
	return &slotLocks{locks: make(map[int64]*sync.Mutex)}
}

// acquire locks the given slot and returns the unlock function.
func (l *slotLocks) acquire(slotID int64) func() {
	l.mu.Lock()
	lock, ok := l.locks[slotID]
	if !ok {
		lock = &sync.Mutex{}
		l.locks[slotID] = lock
	}
	l.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}
