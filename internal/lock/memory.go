package lock

import (
	"context"
	"sync"
)

// MemoryLocker is an in-process Locker for single-instance deployments
// and tests.  It provides the same skip-if-held semantics as the MySQL
// and Redis implementations without any external dependency.
type MemoryLocker struct {
	mu   sync.Mutex
	held map[string]bool
}

// NewMemoryLocker returns an empty in-process locker.
func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{held: make(map[string]bool)}
}

// TryAcquire takes the named lock unless it is already held.
func (l *MemoryLocker) TryAcquire(_ context.Context, name string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held[name] {
		return false, nil
	}
	l.held[name] = true
	return true, nil
}

// Release frees the named lock; releasing an unheld name is a no-op.
func (l *MemoryLocker) Release(_ context.Context, name string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.held, name)
	return nil
}
