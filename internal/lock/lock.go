// Package lock provides a small named mutual-exclusion abstraction used
// by background workers to ensure at most one process performs a given
// job at a time when the service is horizontally scaled.  Acquisition is
// always non-blocking: a caller that fails to take the lock is expected
// to skip its work and try again later.  Implementations exist for MySQL
// (GET_LOCK), Redis (SET NX) and plain in-process mutexes for
// single-instance test setups.
package lock

import "context"

// Locker acquires and releases named advisory locks.  TryAcquire returns
// false without error when another holder owns the name.  Release must
// only be called after a successful TryAcquire for the same name.
type Locker interface {
	TryAcquire(ctx context.Context, name string) (bool, error)
	Release(ctx context.Context, name string) error
}
