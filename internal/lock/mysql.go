package lock

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
)

// MySQLLocker implements Locker on top of MySQL's GET_LOCK/RELEASE_LOCK
// user-level locks.  These locks are scoped to a database session, so the
// locker pins a dedicated connection per held name and keeps it open
// until Release.  If the process dies while holding a lock, MySQL frees
// it as soon as the session terminates, which is exactly the recovery
// behavior the TTL reaper relies on.
type MySQLLocker struct {
	db *sql.DB

	mu    sync.Mutex
	conns map[string]*sql.Conn // held lock name -> pinned session
}

// NewMySQLLocker returns a locker backed by the given database pool.
func NewMySQLLocker(db *sql.DB) *MySQLLocker {
	return &MySQLLocker{db: db, conns: make(map[string]*sql.Conn)}
}

// TryAcquire attempts GET_LOCK(name, 0) on a fresh connection.  A zero
// timeout makes the call non-blocking: when another session holds the
// lock it returns immediately with false and the connection is returned
// to the pool.
func (l *MySQLLocker) TryAcquire(ctx context.Context, name string) (bool, error) {
	l.mu.Lock()
	if _, held := l.conns[name]; held {
		l.mu.Unlock()
		return false, nil
	}
	l.mu.Unlock()

	conn, err := l.db.Conn(ctx)
	if err != nil {
		return false, fmt.Errorf("lock %s: acquire connection: %w", name, err)
	}
	var got sql.NullInt64
	if err := conn.QueryRowContext(ctx, `SELECT GET_LOCK(?, 0)`, name).Scan(&got); err != nil {
		_ = conn.Close()
		return false, fmt.Errorf("lock %s: get_lock: %w", name, err)
	}
	if !got.Valid || got.Int64 != 1 {
		// Held elsewhere (or an error occurred, reported as NULL).
		_ = conn.Close()
		return false, nil
	}

	l.mu.Lock()
	l.conns[name] = conn
	l.mu.Unlock()
	return true, nil
}

// Release frees the named lock and closes its pinned session.  Releasing
// a lock that is not held is a no-op.
func (l *MySQLLocker) Release(ctx context.Context, name string) error {
	l.mu.Lock()
	conn, held := l.conns[name]
	delete(l.conns, name)
	l.mu.Unlock()
	if !held {
		return nil
	}
	defer func() { _ = conn.Close() }()

	var released sql.NullInt64
	if err := conn.QueryRowContext(ctx, `SELECT RELEASE_LOCK(?)`, name).Scan(&released); err != nil {
		return fmt.Errorf("lock %s: release_lock: %w", name, err)
	}
	return nil
}
